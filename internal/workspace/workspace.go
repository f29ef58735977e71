// Package workspace is the in-memory view of all items, kept in step with
// the storage gateway. Every write goes to the store first.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/nexus/internal/assistant"
	"github.com/Tiliavir/nexus/internal/classify"
	"github.com/Tiliavir/nexus/internal/model"
	"github.com/Tiliavir/nexus/internal/search"
	"github.com/Tiliavir/nexus/internal/storage"
	"github.com/Tiliavir/nexus/internal/timecalc"
)

// DefaultCollectionID receives new items that do not name a collection.
const DefaultCollectionID = "1"

// ErrValidation marks input rejected before anything was written.
var ErrValidation = errors.New("validation failed")

// Workspace caches collections and items loaded from a storage.Gateway.
type Workspace struct {
	gw                *storage.Gateway
	logger            *slog.Logger
	classifier        *classify.Classifier
	assistant         *assistant.Assistant
	engine            *search.Engine
	now               func() time.Time
	newID             func() string
	defaultCollection string

	mu          sync.RWMutex
	collections []model.Collection
	items       []model.Item
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Workspace) { w.logger = l }
}

// WithClassifier replaces the local classifier.
func WithClassifier(c *classify.Classifier) Option {
	return func(w *Workspace) { w.classifier = c }
}

// WithAssistant enables remote classification for QuickAdd.
func WithAssistant(a *assistant.Assistant) Option {
	return func(w *Workspace) { w.assistant = a }
}

// WithSearchEngine replaces the search engine.
func WithSearchEngine(e *search.Engine) Option {
	return func(w *Workspace) { w.engine = e }
}

// WithClock sets the time source for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Workspace) { w.now = now }
}

// WithIDGenerator sets the item id source.
func WithIDGenerator(newID func() string) Option {
	return func(w *Workspace) { w.newID = newID }
}

// WithDefaultCollection sets the collection receiving new items.
func WithDefaultCollection(id string) Option {
	return func(w *Workspace) { w.defaultCollection = id }
}

// New returns an empty workspace on gw. Call Load before reading.
func New(gw *storage.Gateway, opts ...Option) *Workspace {
	w := &Workspace{
		gw:                gw,
		logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		engine:            search.NewEngine(),
		now:               time.Now,
		newID:             uuid.NewString,
		defaultCollection: DefaultCollectionID,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.classifier == nil {
		w.classifier = classify.New(classify.WithClock(w.now))
	}
	return w
}

// Load reads the collections, then the items of every collection in order.
func (w *Workspace) Load(ctx context.Context) error {
	cols, err := w.gw.GetCollections(ctx)
	if err != nil {
		return err
	}
	items := []model.Item{}
	for _, c := range cols {
		part, err := w.gw.GetItems(ctx, c.ID)
		if err != nil {
			return err
		}
		items = append(items, part...)
	}

	w.mu.Lock()
	w.collections = cols
	w.items = items
	w.mu.Unlock()

	w.logger.Debug("workspace loaded", "collections", len(cols), "items", len(items))
	return nil
}

// Collections returns a copy of the loaded collections.
func (w *Workspace) Collections() []model.Collection {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]model.Collection(nil), w.collections...)
}

// Collection returns the loaded collection with id.
func (w *Workspace) Collection(id string) (model.Collection, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, c := range w.collections {
		if c.ID == id {
			return c, true
		}
	}
	return model.Collection{}, false
}

// Items returns a copy of the cached items, newest inserts first.
func (w *Workspace) Items() []model.Item {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]model.Item(nil), w.items...)
}

// Get returns the cached item with id.
func (w *Workspace) Get(id string) (model.Item, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, it := range w.items {
		if it.ID == id {
			return it, true
		}
	}
	return model.Item{}, false
}

// FindByExternalID returns the event imported from an external calendar
// under externalID.
func (w *Workspace) FindByExternalID(externalID string) (model.Item, bool) {
	if externalID == "" {
		return model.Item{}, false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, it := range w.items {
		if ev, ok := it.Details.(model.Event); ok && ev.ExternalID == externalID {
			return it, true
		}
	}
	return model.Item{}, false
}

// Update persists it and then replaces the cached item with the same id in
// place, or prepends it when new. Items keep the collection they are
// attached to; unattached items go to the default collection. The collection
// must be one of the loaded collections.
func (w *Workspace) Update(ctx context.Context, it model.Item) (model.Item, error) {
	collectionID := it.CollectionID
	if collectionID == "" {
		collectionID = w.defaultCollection
	}
	return w.save(ctx, collectionID, it)
}

// save rejects collections the workspace did not load: Load only reads the
// items of known collections, so anything stored elsewhere would vanish.
func (w *Workspace) save(ctx context.Context, collectionID string, it model.Item) (model.Item, error) {
	if _, ok := w.Collection(collectionID); !ok {
		return it, fmt.Errorf("%w: unknown collection %q", ErrValidation, collectionID)
	}
	saved, err := w.gw.SaveItem(ctx, collectionID, it)
	if err != nil {
		return it, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.items {
		if w.items[i].ID == saved.ID {
			w.items[i] = saved
			return saved, nil
		}
	}
	w.items = append([]model.Item{saved}, w.items...)
	return saved, nil
}

// Delete removes id from the store and reloads the cache from it.
func (w *Workspace) Delete(ctx context.Context, id string) error {
	if err := w.gw.DeleteItem(ctx, id); err != nil {
		return err
	}
	if err := w.Load(ctx); err != nil {
		return fmt.Errorf("reloading after delete: %w", err)
	}
	w.logger.Info("item deleted", "id", id)
	return nil
}

// QuickAddResult describes what QuickAdd did with the input.
type QuickAddResult struct {
	// Item is nil when the assistant answered instead of creating something.
	Item   *model.Item
	Answer string
	// Source is "assistant" or "local".
	Source string
}

// QuickAdd classifies text and stores the resulting item. The assistant is
// tried first when configured; any assistant failure falls back to the local
// classifier.
func (w *Workspace) QuickAdd(ctx context.Context, text string, mode model.Mode) (QuickAddResult, error) {
	if strings.TrimSpace(text) == "" {
		return QuickAddResult{}, fmt.Errorf("%w: input is empty", ErrValidation)
	}
	now := w.now()

	if w.assistant.Enabled() {
		res, err := w.assistant.Parse(ctx, text, mode)
		if err == nil {
			it, ok := res.Item(w.newID(), now, text)
			if !ok {
				return QuickAddResult{Answer: res.Response, Source: "assistant"}, nil
			}
			saved, err := w.Update(ctx, it)
			if err != nil {
				return QuickAddResult{}, err
			}
			return QuickAddResult{Item: &saved, Answer: res.Response, Source: "assistant"}, nil
		}
		w.logger.Warn("assistant unavailable, using local classifier", "err", err)
	}

	draft := w.classifier.Classify(text)
	saved, err := w.Update(ctx, draft.Item(w.newID(), timecalc.Millis(now)))
	if err != nil {
		return QuickAddResult{}, err
	}
	w.logger.Info("item added", "id", saved.ID, "type", saved.Type())
	return QuickAddResult{Item: &saved, Source: "local"}, nil
}

// ByType returns the cached items of type t in cache order.
func (w *Workspace) ByType(t model.Type) []model.Item {
	var out []model.Item
	for _, it := range w.Items() {
		if it.Type() == t {
			out = append(out, it)
		}
	}
	return out
}

// Search ranks cached notes and files against query.
func (w *Workspace) Search(query string) []search.Result {
	return w.engine.Search(query, w.Items())
}

// Export writes every stored item to out as a JSON array.
func (w *Workspace) Export(ctx context.Context, out io.Writer) (int, error) {
	return w.gw.Export(ctx, out)
}
