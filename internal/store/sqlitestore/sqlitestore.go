// Package sqlitestore is the SQLite backend for the checklist. Save
// replaces the whole item set in one transaction, which matches the
// engine's save-full-state contract and keeps position ranks consistent
// with what was in memory.
package sqlitestore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Makepad-fr/tick/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS items (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	quantity INTEGER NOT NULL DEFAULT 1,
	done INTEGER NOT NULL DEFAULT 0,
	position INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_items_position ON items(position);
`

// Store is the SQLite-backed data store.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at path and ensures the schema.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Load returns all items ordered by their saved position.
func (s *Store) Load() ([]model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT id, name, quantity, done, position, created_at FROM items ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		var (
			id        string
			it        model.Item
			done      int
			createdAt int64
		)
		if err := rows.Scan(&id, &it.Name, &it.Quantity, &done, &it.Order, &createdAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse item id: %w", err)
		}
		it.Done = done != 0
		it.CreatedAt = time.Unix(0, createdAt)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// Save replaces the persisted item set with items, atomically.
func (s *Store) Save(items []model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM items`); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	stmt, err := tx.Prepare(
		`INSERT INTO items (id, name, quantity, done, position, created_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, it := range items {
		done := 0
		if it.Done {
			done = 1
		}
		if _, err := stmt.Exec(it.ID.String(), it.Name, it.Quantity, done, it.Order, it.CreatedAt.UnixNano()); err != nil {
			return fmt.Errorf("insert item %s: %w", it.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
