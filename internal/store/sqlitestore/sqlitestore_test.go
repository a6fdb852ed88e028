package sqlitestore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tick/internal/model"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "tick.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadEmptyDatabase(t *testing.T) {
	s := newStore(t)
	items, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newStore(t)
	created := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	in := []model.Item{
		{ID: uuid.New(), Name: "Milk", Quantity: 3, Done: true, Order: 0, CreatedAt: created},
		{ID: uuid.New(), Name: "Bread", Quantity: 1, Order: 1, CreatedAt: created.Add(time.Minute)},
	}
	require.NoError(t, s.Save(in))

	out, err := s.Load()
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, in[0].ID, out[0].ID)
	assert.Equal(t, "Milk", out[0].Name)
	assert.Equal(t, 3, out[0].Quantity)
	assert.True(t, out[0].Done)
	assert.False(t, out[1].Done)
	assert.True(t, created.Equal(out[0].CreatedAt))
}

func TestLoadOrdersByPosition(t *testing.T) {
	s := newStore(t)
	// insert out of positional order; Load must sort by position
	in := []model.Item{
		{ID: uuid.New(), Name: "Second", Quantity: 1, Order: 1},
		{ID: uuid.New(), Name: "First", Quantity: 1, Order: 0},
		{ID: uuid.New(), Name: "Third", Quantity: 1, Order: 2},
	}
	require.NoError(t, s.Save(in))

	out, err := s.Load()
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "First", out[0].Name)
	assert.Equal(t, "Second", out[1].Name)
	assert.Equal(t, "Third", out[2].Name)
}

func TestSaveReplacesFullSet(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Save([]model.Item{
		{ID: uuid.New(), Name: "Old", Quantity: 1},
		{ID: uuid.New(), Name: "Stale", Quantity: 1, Order: 1},
	}))
	keep := model.Item{ID: uuid.New(), Name: "Kept", Quantity: 2}
	require.NoError(t, s.Save([]model.Item{keep}))

	out, err := s.Load()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, keep.ID, out[0].ID)
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tick.db")
	s, err := New(path)
	require.NoError(t, err)
	it := model.Item{ID: uuid.New(), Name: "Milk", Quantity: 1}
	require.NoError(t, s.Save([]model.Item{it}))
	require.NoError(t, s.Close())

	s2, err := New(path)
	require.NoError(t, err)
	defer s2.Close()
	out, err := s2.Load()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, it.ID, out[0].ID)
}
