// Package redis implements storage.Store on a Redis server.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/Tiliavir/nexus/internal/model"
	"github.com/Tiliavir/nexus/internal/storage"
)

// Store keeps each item as a JSON string under <prefix>item:<id>, with an
// index set of all ids and one set per collection.
type Store struct {
	client *redis.Client
	prefix string
}

// New creates a Store on client. prefix namespaces every key; an empty prefix
// means "nexus:".
func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "nexus:"
	}
	return &Store{client: client, prefix: prefix}
}

// Dial connects to addr and verifies the connection.
func Dial(ctx context.Context, addr, password string, db int) (*Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return New(client, ""), nil
}

func (s *Store) itemKey(id string) string { return s.prefix + "item:" + id }
func (s *Store) allKey() string           { return s.prefix + "items" }
func (s *Store) collectionKey(id string) string {
	return s.prefix + "items:collection:" + id
}
func (s *Store) collectionsKey() string { return s.prefix + "collections" }

// LoadCollections implements storage.Store.
func (s *Store) LoadCollections(ctx context.Context) ([]model.Collection, error) {
	data, err := s.client.Get(ctx, s.collectionsKey()).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	var cols []model.Collection
	if err := json.Unmarshal([]byte(data), &cols); err != nil {
		return nil, fmt.Errorf("decoding collections: %w", err)
	}
	if cols == nil {
		cols = []model.Collection{}
	}
	return cols, nil
}

// SaveCollections implements storage.Store.
func (s *Store) SaveCollections(ctx context.Context, cols []model.Collection) error {
	data, err := json.Marshal(cols)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.collectionsKey(), data, 0).Err()
}

func (s *Store) getItem(ctx context.Context, id string) (*model.Item, error) {
	data, err := s.client.Get(ctx, s.itemKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	var it model.Item
	if err := json.Unmarshal([]byte(data), &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// PutItem implements storage.Store. A record moving to another collection is
// removed from the old collection's index.
func (s *Store) PutItem(ctx context.Context, it model.Item) error {
	data, err := json.Marshal(it)
	if err != nil {
		return err
	}
	prev, err := s.getItem(ctx, it.ID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.itemKey(it.ID), data, 0)
	pipe.SAdd(ctx, s.allKey(), it.ID)
	if prev != nil && prev.CollectionID != it.CollectionID {
		pipe.SRem(ctx, s.collectionKey(prev.CollectionID), it.ID)
	}
	pipe.SAdd(ctx, s.collectionKey(it.CollectionID), it.ID)
	_, err = pipe.Exec(ctx)
	return err
}

// DeleteItem implements storage.Store.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	it, err := s.getItem(ctx, id)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.itemKey(id))
	pipe.SRem(ctx, s.allKey(), id)
	pipe.SRem(ctx, s.collectionKey(it.CollectionID), id)
	_, err = pipe.Exec(ctx)
	return err
}

// ListItems implements storage.Store.
func (s *Store) ListItems(ctx context.Context, collectionID string) ([]model.Item, error) {
	setKey := s.allKey()
	if collectionID != "" {
		setKey = s.collectionKey(collectionID)
	}

	ids, err := s.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.Item{}, nil
	}
	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, s.itemKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, err
	}
	items := make([]model.Item, 0, len(ids))
	for _, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, err
		}
		var it model.Item
		if err := json.Unmarshal([]byte(data), &it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	storage.SortNewestFirst(items)
	return items, nil
}

// Close implements storage.Store.
func (s *Store) Close() error {
	return s.client.Close()
}
