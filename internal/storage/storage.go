package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Tiliavir/nexus/internal/model"
)

const (
	collectionsFile = "collections.json"
	itemsFile       = "items.json"
)

// itemsDoc is the top-level structure stored in items.json.
type itemsDoc struct {
	Version int                   `json:"version"`
	Items   map[string]model.Item `json:"items"`
}

// collectionsDoc is the top-level structure stored in collections.json.
type collectionsDoc struct {
	Version     int                `json:"version"`
	Collections []model.Collection `json:"collections"`
}

// FileStore keeps the workspace as human-readable JSON files in a directory.
// Every write rewrites the whole file atomically.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore returns a store rooted at dir. The directory is created on the
// first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the directory the store writes to.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

// readJSON decodes path into v. It reports false when the file does not exist.
// A file that fails to decode is moved aside to <path>.corrupt.
func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage error reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return false, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	return true, nil
}

// writeJSON atomically replaces path with the JSON encoding of v.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

func (s *FileStore) loadItems() (itemsDoc, error) {
	doc := itemsDoc{Version: SchemaVersion, Items: map[string]model.Item{}}
	if _, err := readJSON(s.path(itemsFile), &doc); err != nil {
		return itemsDoc{}, err
	}
	if doc.Version > SchemaVersion {
		return itemsDoc{}, fmt.Errorf("%s has schema version %d, this build supports %d", s.path(itemsFile), doc.Version, SchemaVersion)
	}
	if doc.Items == nil {
		doc.Items = map[string]model.Item{}
	}
	return doc, nil
}

// LoadCollections implements Store.
func (s *FileStore) LoadCollections(ctx context.Context) ([]model.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc collectionsDoc
	found, err := readJSON(s.path(collectionsFile), &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	if doc.Collections == nil {
		doc.Collections = []model.Collection{}
	}
	return doc.Collections, nil
}

// SaveCollections implements Store.
func (s *FileStore) SaveCollections(ctx context.Context, cols []model.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(s.path(collectionsFile), collectionsDoc{Version: SchemaVersion, Collections: cols})
}

// PutItem implements Store.
func (s *FileStore) PutItem(ctx context.Context, it model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadItems()
	if err != nil {
		return err
	}
	doc.Version = SchemaVersion
	doc.Items[it.ID] = it
	return writeJSON(s.path(itemsFile), doc)
}

// DeleteItem implements Store.
func (s *FileStore) DeleteItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadItems()
	if err != nil {
		return err
	}
	if _, ok := doc.Items[id]; !ok {
		return ErrNotFound
	}
	delete(doc.Items, id)
	return writeJSON(s.path(itemsFile), doc)
}

// ListItems implements Store.
func (s *FileStore) ListItems(ctx context.Context, collectionID string) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadItems()
	if err != nil {
		return nil, err
	}
	items := make([]model.Item, 0, len(doc.Items))
	for id, it := range doc.Items {
		if collectionID != "" && it.CollectionID != collectionID {
			continue
		}
		it.ID = id
		items = append(items, it)
	}
	SortNewestFirst(items)
	return items, nil
}

// Close implements Store.
func (s *FileStore) Close() error { return nil }
