package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// SQLiteStorage keeps keys in a single kv table.
type SQLiteStorage struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
	mu sync.Mutex
}

// OpenSQLite opens (or creates) the database at path and ensures the schema.
func OpenSQLite(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection keeps ":memory:" databases shared and serialises writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return NewSQLiteStorage(db), nil
}

// NewSQLiteStorage wraps an already prepared database.
func NewSQLiteStorage(db *sql.DB) *SQLiteStorage {
	return &SQLiteStorage{DB: db}
}

// Get returns the value stored under key. Read errors are reported as absent.
func (s *SQLiteStorage) Get(key string) (string, bool) {
	return lookup(context.Background(), s.DB, key)
}

func (s *SQLiteStorage) Set(key, value string) error {
	return s.Update(func(tx Tx) error {
		tx.Set(key, value)
		return nil
	})
}

func (s *SQLiteStorage) Remove(key string) error {
	return s.Update(func(tx Tx) error {
		tx.Remove(key)
		return nil
	})
}

// Update applies fn's writes inside one SQL transaction.
func (s *SQLiteStorage) Update(fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	c := newChanges(func(key string) (string, bool) {
		return lookup(ctx, tx, key)
	})
	if err := fn(c); err != nil {
		return err
	}

	for _, key := range c.removedKeys() {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	for _, key := range c.setKeys() {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO kv (key, value) VALUES (?, ?)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value
		`, key, c.set[key])
		if err != nil {
			return fmt.Errorf("upsert %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStorage) Close() error {
	return s.DB.Close()
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func lookup(ctx context.Context, q queryRower, key string) (string, bool) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		// sql.ErrNoRows and read failures both mean "absent"
		return "", false
	}
	return value, true
}
