package storage

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/nexus/internal/model"
)

//go:embed defaults.yaml
var defaultCollectionsYAML []byte

// DefaultCollections returns the seed collection set.
func DefaultCollections() ([]model.Collection, error) {
	var cols []model.Collection
	if err := yaml.Unmarshal(defaultCollectionsYAML, &cols); err != nil {
		return nil, fmt.Errorf("parsing default collections: %w", err)
	}
	return cols, nil
}

// Gateway is the persistence boundary used by the workspace.
type Gateway struct {
	store  Store
	logger *slog.Logger
}

// NewGateway wraps store. A nil logger discards log output.
func NewGateway(store Store, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Gateway{store: store, logger: logger}
}

// GetCollections returns the persisted collections, seeding and persisting
// the default set on first use.
func (g *Gateway) GetCollections(ctx context.Context) ([]model.Collection, error) {
	cols, err := g.store.LoadCollections(ctx)
	if err == nil {
		return cols, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("loading collections: %w", err)
	}

	cols, err = DefaultCollections()
	if err != nil {
		return nil, err
	}
	if err := g.store.SaveCollections(ctx, cols); err != nil {
		return nil, fmt.Errorf("seeding collections: %w", err)
	}
	g.logger.Info("seeded default collections", "count", len(cols))
	return cols, nil
}

// GetItems returns the items attached to collectionID. Unknown ids yield an
// empty list.
func (g *Gateway) GetItems(ctx context.Context, collectionID string) ([]model.Item, error) {
	if collectionID == "" {
		return []model.Item{}, nil
	}
	items, err := g.store.ListItems(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("loading items of collection %s: %w", collectionID, err)
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// SaveItem attaches collectionID to it and upserts it by id.
func (g *Gateway) SaveItem(ctx context.Context, collectionID string, it model.Item) (model.Item, error) {
	if it.ID == "" {
		return it, errors.New("saving item: empty id")
	}
	it.CollectionID = collectionID
	if it.Tags == nil {
		it.Tags = []string{}
	}
	if err := g.store.PutItem(ctx, it); err != nil {
		return it, fmt.Errorf("saving item %s: %w", it.ID, err)
	}
	g.logger.Debug("item saved", "id", it.ID, "type", it.Type(), "collection", collectionID)
	return it, nil
}

// DeleteItem removes the record with id from the store.
func (g *Gateway) DeleteItem(ctx context.Context, id string) error {
	if err := g.store.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("deleting item %s: %w", id, err)
	}
	g.logger.Debug("item deleted", "id", id)
	return nil
}

// GetAllItemsFlat returns every stored item regardless of collection.
func (g *Gateway) GetAllItemsFlat(ctx context.Context) ([]model.Item, error) {
	items, err := g.store.ListItems(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// Export writes every stored item to w as an indented JSON array.
func (g *Gateway) Export(ctx context.Context, w io.Writer) (int, error) {
	items, err := g.GetAllItemsFlat(ctx)
	if err != nil {
		return 0, err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return 0, fmt.Errorf("encoding export: %w", err)
	}
	return len(items), nil
}

// Close releases the underlying store.
func (g *Gateway) Close() error {
	return g.store.Close()
}
