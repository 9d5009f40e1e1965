// Package store holds the authoritative, ordered collection of meetings.
package store

import (
	"github.com/google/uuid"

	"github.com/starford/tracker/internal/models"
)

// ChangeKind names a store mutation.
type ChangeKind string

// Change kinds.
const (
	ChangeAdded   ChangeKind = "added"
	ChangeDeleted ChangeKind = "deleted"
)

// Change describes one applied mutation and the meetings it touched.
type Change struct {
	Kind     ChangeKind
	Meetings []models.Meeting
}

// IDs returns the ids of the meetings in c, in order.
func (c Change) IDs() []uuid.UUID {
	out := make([]uuid.UUID, len(c.Meetings))
	for i, m := range c.Meetings {
		out[i] = m.ID
	}
	return out
}

// Observer is called after every applied mutation.
type Observer func(Change)

// Store is the interface for meeting collection operations.
type Store interface {
	// Add appends m to the end of the collection.
	Add(m models.Meeting)
	// AddAll appends ms in order, or nothing when any id is already stored or
	// repeated within ms (apperr.ErrAlreadyExists).
	AddAll(ms ...models.Meeting) error
	// Delete removes every meeting whose id is in ids and returns how many were removed.
	Delete(ids ...uuid.UUID) int
	// Get returns the meeting with the given id, or apperr.ErrNotFound.
	Get(id uuid.UUID) (models.Meeting, error)
	// Snapshot returns a copy of the collection in insertion order.
	Snapshot() []models.Meeting
	// Subscribe registers fn and returns a function that removes it.
	Subscribe(fn Observer) (cancel func())
}
