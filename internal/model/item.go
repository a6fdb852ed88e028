package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Item is the domain model for a checklist entry.
type Item struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Done      bool      `json:"done"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

// New returns a fresh unchecked item with quantity 1.
// Order is assigned by the engine, not here.
func New(name string) Item {
	return Item{
		ID:        uuid.New(),
		Name:      name,
		Quantity:  1,
		CreatedAt: time.Now(),
	}
}

// Normalize is the duplicate-detection key: trimmed and lowercased.
// Two items whose names normalize equally are the same item.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
