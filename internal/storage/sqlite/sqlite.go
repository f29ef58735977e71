// Package sqlite implements storage.Store on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/Tiliavir/nexus/internal/model"
	"github.com/Tiliavir/nexus/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS collections (
	id          TEXT PRIMARY KEY,
	position    INTEGER NOT NULL,
	name        TEXT NOT NULL,
	mode        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	icon        TEXT NOT NULL DEFAULT '',
	pinned      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS items (
	id            TEXT PRIMARY KEY,
	collection_id TEXT NOT NULL,
	type          TEXT NOT NULL,
	created_at    INTEGER NOT NULL,
	record        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_collection ON items(collection_id);
CREATE INDEX IF NOT EXISTS idx_items_created ON items(created_at DESC);
`

// Store is a storage.Store backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps :memory: databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version > storage.SchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported %d", version, storage.SchemaVersion)
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", storage.SchemaVersion)); err != nil {
		return fmt.Errorf("failed to write schema version: %w", err)
	}
	return nil
}

// LoadCollections implements storage.Store. An empty table counts as absent.
func (s *Store) LoadCollections(ctx context.Context) ([]model.Collection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, mode, description, icon, pinned FROM collections ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}
	defer rows.Close()

	var cols []model.Collection
	for rows.Next() {
		var c model.Collection
		var pinned int
		if err := rows.Scan(&c.ID, &c.Name, &c.Mode, &c.Description, &c.Icon, &pinned); err != nil {
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		c.Pinned = pinned != 0
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, storage.ErrNotFound
	}
	return cols, nil
}

// SaveCollections implements storage.Store by replacing the whole set.
func (s *Store) SaveCollections(ctx context.Context, cols []model.Collection) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM collections`); err != nil {
		return fmt.Errorf("failed to clear collections: %w", err)
	}
	for i, c := range cols {
		pinned := 0
		if c.Pinned {
			pinned = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO collections (id, position, name, mode, description, icon, pinned) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.ID, i, c.Name, string(c.Mode), c.Description, c.Icon, pinned); err != nil {
			return fmt.Errorf("failed to insert collection %s: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

// PutItem implements storage.Store.
func (s *Store) PutItem(ctx context.Context, it model.Item) error {
	record, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("failed to encode item: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO items (id, collection_id, type, created_at, record) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			collection_id = excluded.collection_id,
			type = excluded.type,
			created_at = excluded.created_at,
			record = excluded.record`,
		it.ID, it.CollectionID, string(it.Type()), it.CreatedAt, string(record))
	if err != nil {
		return fmt.Errorf("failed to upsert item: %w", err)
	}
	return nil
}

// DeleteItem implements storage.Store.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListItems implements storage.Store.
func (s *Store) ListItems(ctx context.Context, collectionID string) ([]model.Item, error) {
	query := `SELECT record FROM items ORDER BY created_at DESC, id`
	args := []any{}
	if collectionID != "" {
		query = `SELECT record FROM items WHERE collection_id = ? ORDER BY created_at DESC, id`
		args = append(args, collectionID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		var it model.Item
		if err := json.Unmarshal([]byte(record), &it); err != nil {
			return nil, fmt.Errorf("failed to decode item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Close implements storage.Store.
func (s *Store) Close() error {
	if s.db == nil {
		return errors.New("store already closed")
	}
	err := s.db.Close()
	s.db = nil
	return err
}
