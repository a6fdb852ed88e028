package jsonstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tick/internal/model"
)

func TestLoadMissingFileIsEmptyList(t *testing.T) {
	s := New(t.TempDir())
	items, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	in := []model.Item{
		{ID: uuid.New(), Name: "Milk", Quantity: 2, Done: true, Order: 0, CreatedAt: time.Now().Round(time.Second)},
		{ID: uuid.New(), Name: "Bread", Quantity: 1, Order: 1, CreatedAt: time.Now().Round(time.Second)},
	}
	require.NoError(t, s.Save(in))

	out, err := s.Load()
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, in[0].ID, out[0].ID)
	assert.Equal(t, "Milk", out[0].Name)
	assert.Equal(t, 2, out[0].Quantity)
	assert.True(t, out[0].Done)
	assert.Equal(t, 1, out[1].Order)
}

func TestSaveReplacesPreviousState(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Save([]model.Item{{ID: uuid.New(), Name: "Old", Quantity: 1}}))
	require.NoError(t, s.Save([]model.Item{}))

	out, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.Save([]model.Item{{ID: uuid.New(), Name: "Milk", Quantity: 1}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, dataFileName, entries[0].Name())
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, dataFileName), []byte("{not json"), 0o644))

	_, err := New(dir).Load()
	assert.Error(t, err)
}
