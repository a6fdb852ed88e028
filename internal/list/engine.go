// Package list holds the checklist engine: item identity, ordering and
// quantity rules, and the bulk mutations the CLI and TUI drive.
package list

import (
	"errors"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Makepad-fr/tick/internal/model"
)

var (
	// ErrNotFound means the referenced item is no longer in the list.
	ErrNotFound = errors.New("item not found")
	// ErrOutOfRange means a move used an invalid position.
	ErrOutOfRange = errors.New("index out of range")
)

// Store is the durability collaborator. Save replaces the full persisted
// item set; Load returns it at startup.
type Store interface {
	Load() ([]model.Item, error)
	Save(items []model.Item) error
}

// Config carries the placement policy. It is passed per call rather than
// held as engine state so callers can flip it between adds.
type Config struct {
	InsertAtTop bool
}

// AddResult reports what a single add did.
type AddResult struct {
	Item    model.Item
	Skipped bool // empty name or duplicate
}

// Engine owns the in-memory item sequence. The slice is kept in display
// order and Order always mirrors the index; renumber restores that after
// every structural change.
//
// The engine expects a single caller at a time and does no locking itself.
type Engine struct {
	items []model.Item
	store Store
	log   *zap.Logger
}

// New loads the persisted items and heals ordering: items are sorted by
// their saved Order (CreatedAt breaks ties) and renumbered densely, so a
// store with gaps or duplicate ranks still produces a valid list.
func New(store Store, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	items, err := store.Load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Order != items[j].Order {
			return items[i].Order < items[j].Order
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	e := &Engine{items: items, store: store, log: log}
	e.renumber()
	return e, nil
}

// Items returns a copy of the list in display order.
func (e *Engine) Items() []model.Item {
	out := make([]model.Item, len(e.items))
	copy(out, e.items)
	return out
}

// Len returns the item count.
func (e *Engine) Len() int { return len(e.items) }

// Add inserts one item. Empty (after trimming) and duplicate names are
// skipped, not errors. Placement follows cfg: top-insert shifts everything
// down one rank, otherwise the item is appended.
func (e *Engine) Add(name string, cfg Config) AddResult {
	key := model.Normalize(name)
	if key == "" || e.hasName(key) {
		return AddResult{Skipped: true}
	}
	it := model.New(trimmed(name))
	if cfg.InsertAtTop {
		e.items = append([]model.Item{it}, e.items...)
	} else {
		e.items = append(e.items, it)
	}
	e.renumber()
	e.persist()
	// report the stored copy so Order is filled in
	if cfg.InsertAtTop {
		return AddResult{Item: e.items[0]}
	}
	return AddResult{Item: e.items[len(e.items)-1]}
}

// AddMany inserts a batch of names, first occurrence wins: a name that
// duplicates an existing item or an earlier survivor in the same batch is
// dropped. Survivors are appended at the tail in input order regardless of
// cfg.InsertAtTop, and the whole batch is persisted with one save.
// Returns the number of items added.
func (e *Engine) AddMany(names []string, cfg Config) int {
	_ = cfg // batch adds always append; placement policy applies to single adds only
	seen := make(map[string]struct{}, len(names))
	added := 0
	for _, raw := range names {
		key := model.Normalize(raw)
		if key == "" || e.hasName(key) {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		e.items = append(e.items, model.New(trimmed(raw)))
		added++
	}
	if added == 0 {
		return 0
	}
	e.renumber()
	e.persist()
	return added
}

// Toggle flips the done flag of the item with the given id.
func (e *Engine) Toggle(id uuid.UUID) error {
	i := e.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	e.items[i].Done = !e.items[i].Done
	e.persist()
	return nil
}

// AdjustQuantity applies a delta to an item's quantity. A delta that would
// take the quantity to zero or below is rejected as a no-op; nothing is
// saved in that case.
func (e *Engine) AdjustQuantity(id uuid.UUID, delta int) error {
	i := e.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	next := e.items[i].Quantity + delta
	if next <= 0 {
		return nil
	}
	e.items[i].Quantity = next
	e.persist()
	return nil
}

// Rename sets a new display name. Uniqueness is not re-checked here; the
// duplicate guard applies to adds only.
func (e *Engine) Rename(id uuid.UUID, name string) error {
	i := e.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	e.items[i].Name = name
	e.persist()
	return nil
}

// Delete removes every item whose id is in ids and renumbers the
// survivors, preserving their relative order.
func (e *Engine) Delete(ids []uuid.UUID) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := e.items[:0]
	for _, it := range e.items {
		if _, gone := drop[it.ID]; !gone {
			kept = append(kept, it)
		}
	}
	e.items = kept
	e.renumber()
	e.persist()
}

// Move takes the item at position from and reinserts it at position to.
// Both positions must be valid before anything mutates.
func (e *Engine) Move(from, to int) error {
	n := len(e.items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrOutOfRange
	}
	if from == to {
		return nil
	}
	it := e.items[from]
	rest := append(e.items[:from], e.items[from+1:]...)
	e.items = append(rest[:to], append([]model.Item{it}, rest[to:]...)...)
	e.renumber()
	e.persist()
	return nil
}

// Insert places an existing item back at a clamped position, used by undo.
// The duplicate guard still applies: a colliding name is skipped.
func (e *Engine) Insert(at int, it model.Item) AddResult {
	key := model.Normalize(it.Name)
	if key == "" || e.hasName(key) {
		return AddResult{Skipped: true}
	}
	if at < 0 {
		at = 0
	}
	if at > len(e.items) {
		at = len(e.items)
	}
	e.items = append(e.items[:at], append([]model.Item{it}, e.items[at:]...)...)
	e.renumber()
	e.persist()
	return AddResult{Item: e.items[at]}
}

// Clear empties the list.
func (e *Engine) Clear() {
	e.items = e.items[:0]
	e.persist()
}

// renumber reassigns Order to match slice position. Every structural
// mutation ends here so ranks stay dense and gap-free.
func (e *Engine) renumber() {
	for i := range e.items {
		e.items[i].Order = i
	}
}

// persist saves the full state. A failed save is logged and the in-memory
// state kept as-is; the next successful save reconverges memory and disk.
func (e *Engine) persist() {
	if err := e.store.Save(e.Items()); err != nil {
		e.log.Warn("save failed, keeping in-memory state", zap.Error(err))
	}
}

func (e *Engine) hasName(key string) bool {
	for _, it := range e.items {
		if model.Normalize(it.Name) == key {
			return true
		}
	}
	return false
}

func (e *Engine) indexOf(id uuid.UUID) int {
	for i, it := range e.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
