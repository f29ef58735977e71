// Package postgres implements storage.Store on PostgreSQL through pgx.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Tiliavir/nexus/internal/model"
	"github.com/Tiliavir/nexus/internal/storage"
)

// Store is a storage.Store backed by two tables sharing a name prefix.
type Store struct {
	pool        *pgxpool.Pool
	collections string
	items       string
}

// Connect opens a pool for databaseURL, verifies it and creates the tables.
// tablePrefix lets several workspaces share one database; empty means "nexus_".
func Connect(ctx context.Context, databaseURL, tablePrefix string) (*Store, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	config.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if tablePrefix == "" {
		tablePrefix = "nexus_"
	}
	s := &Store{
		pool:        pool,
		collections: tablePrefix + "collections",
		items:       tablePrefix + "items",
	}
	if err := s.createTables(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) createTables(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id          TEXT PRIMARY KEY,
			position    INTEGER NOT NULL,
			name        TEXT NOT NULL,
			mode        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			icon        TEXT NOT NULL DEFAULT '',
			pinned      BOOLEAN NOT NULL DEFAULT FALSE
		)`, s.collections),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id            TEXT PRIMARY KEY,
			collection_id TEXT NOT NULL,
			type          TEXT NOT NULL,
			created_at    BIGINT NOT NULL,
			schema_version INTEGER NOT NULL,
			record        JSONB NOT NULL
		)`, s.items),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_collection_idx ON %s (collection_id)`, s.items, s.items),
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}

// DropTables removes both tables. Used by tests.
func (s *Store) DropTables(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s, %s", s.collections, s.items))
	return err
}

// LoadCollections implements storage.Store. An empty table counts as absent.
func (s *Store) LoadCollections(ctx context.Context) ([]model.Collection, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(
		`SELECT id, name, mode, description, icon, pinned FROM %s ORDER BY position`, s.collections))
	if err != nil {
		return nil, fmt.Errorf("query collections: %w", err)
	}
	defer rows.Close()

	var cols []model.Collection
	for rows.Next() {
		var c model.Collection
		var mode string
		if err := rows.Scan(&c.ID, &c.Name, &mode, &c.Description, &c.Icon, &c.Pinned); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		c.Mode = model.Mode(mode)
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
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s", s.collections)); err != nil {
		return fmt.Errorf("clear collections: %w", err)
	}
	for i, c := range cols {
		_, err := tx.Exec(ctx, fmt.Sprintf(
			`INSERT INTO %s (id, position, name, mode, description, icon, pinned) VALUES ($1, $2, $3, $4, $5, $6, $7)`, s.collections),
			c.ID, i, c.Name, string(c.Mode), c.Description, c.Icon, c.Pinned)
		if err != nil {
			return fmt.Errorf("insert collection %s: %w", c.ID, err)
		}
	}
	return tx.Commit(ctx)
}

// PutItem implements storage.Store.
func (s *Store) PutItem(ctx context.Context, it model.Item) error {
	record, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("encode item: %w", err)
	}
	_, err = s.pool.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, collection_id, type, created_at, schema_version, record) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			collection_id = EXCLUDED.collection_id,
			type = EXCLUDED.type,
			created_at = EXCLUDED.created_at,
			schema_version = EXCLUDED.schema_version,
			record = EXCLUDED.record`, s.items),
		it.ID, it.CollectionID, string(it.Type()), it.CreatedAt, storage.SchemaVersion, string(record))
	if err != nil {
		return fmt.Errorf("upsert item: %w", err)
	}
	return nil
}

// DeleteItem implements storage.Store.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	var deleted string
	err := s.pool.QueryRow(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1 RETURNING id`, s.items), id).Scan(&deleted)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// ListItems implements storage.Store.
func (s *Store) ListItems(ctx context.Context, collectionID string) ([]model.Item, error) {
	query := fmt.Sprintf(`SELECT record::text FROM %s ORDER BY created_at DESC, id`, s.items)
	var args []any
	if collectionID != "" {
		query = fmt.Sprintf(`SELECT record::text FROM %s WHERE collection_id = $1 ORDER BY created_at DESC, id`, s.items)
		args = append(args, collectionID)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		var it model.Item
		if err := json.Unmarshal([]byte(record), &it); err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Close implements storage.Store.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
