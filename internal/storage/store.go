package storage

import (
	"context"
	"errors"
	"sort"

	"github.com/Tiliavir/nexus/internal/model"
)

// ErrNotFound is returned when a record does not exist in the store.
var ErrNotFound = errors.New("not found")

// SchemaVersion is the persisted layout version written by every backend.
const SchemaVersion = 1

// Store is a durable map of items keyed by id, plus the collection list.
type Store interface {
	// LoadCollections returns ErrNotFound when no collection set was ever saved.
	LoadCollections(ctx context.Context) ([]model.Collection, error)
	SaveCollections(ctx context.Context, cols []model.Collection) error
	// PutItem inserts or replaces the record with the item's id.
	PutItem(ctx context.Context, it model.Item) error
	// DeleteItem returns ErrNotFound when id is not stored.
	DeleteItem(ctx context.Context, id string) error
	// ListItems returns the items of one collection, or all items when
	// collectionID is empty, newest first.
	ListItems(ctx context.Context, collectionID string) ([]model.Item, error)
	Close() error
}

// SortNewestFirst orders items by descending creation time, then by id.
func SortNewestFirst(items []model.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt != items[j].CreatedAt {
			return items[i].CreatedAt > items[j].CreatedAt
		}
		return items[i].ID < items[j].ID
	})
}
