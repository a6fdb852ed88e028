// Package jsonstore is the default backend: one human-readable JSON file.
// Saves go through a temp file and rename so a crash mid-write never
// leaves a half-written list behind.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Makepad-fr/tick/internal/model"
)

const dataFileName = "tick.json"

// Store reads and writes the checklist file under a data directory.
type Store struct {
	path string
}

// New returns a store rooted at dir. The directory is created on first save.
func New(dir string) *Store {
	return &Store{path: filepath.Join(dir, dataFileName)}
}

// Load reads the saved items. A missing file is an empty list, not an error.
func (s *Store) Load() ([]model.Item, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Item{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var items []model.Item
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return items, nil
}

// Save replaces the full persisted item set.
func (s *Store) Save(items []model.Item) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
