package store

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/starford/tracker/internal/apperr"
	"github.com/starford/tracker/internal/models"
)

// Memory implements Store in process memory.
//
// Writers are serialized by writeMu for the whole mutate-then-notify sequence,
// so observers see changes in exactly the order they were applied. Observers
// run on the writer's goroutine and may read the store, but must not mutate it.
type Memory struct {
	writeMu sync.Mutex

	mu        sync.RWMutex
	meetings  []models.Meeting
	observers []observerEntry
	nextObs   uint64
}

type observerEntry struct {
	id uint64
	fn Observer
}

var _ Store = (*Memory)(nil)

// NewMemory creates a store holding seed, in order.
func NewMemory(seed ...models.Meeting) *Memory {
	return &Memory{meetings: slices.Clone(seed)}
}

// Add appends m and notifies observers.
func (s *Memory) Add(m models.Meeting) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.meetings = append(s.meetings, m)
	obs := s.observersLocked()
	s.mu.Unlock()

	notify(obs, Change{Kind: ChangeAdded, Meetings: []models.Meeting{m}})
}

// AddAll appends ms as one mutation. The id check and the append happen under
// the writer lock, so concurrent batches cannot both insert the same id.
func (s *Memory) AddAll(ms ...models.Meeting) error {
	if len(ms) == 0 {
		return nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	seen := make(map[uuid.UUID]struct{}, len(s.meetings)+len(ms))
	for _, m := range s.meetings {
		seen[m.ID] = struct{}{}
	}
	for _, m := range ms {
		if _, ok := seen[m.ID]; ok {
			s.mu.Unlock()
			return fmt.Errorf("meeting %s: %w", m.ID, apperr.ErrAlreadyExists)
		}
		seen[m.ID] = struct{}{}
	}
	s.meetings = append(s.meetings, ms...)
	obs := s.observersLocked()
	s.mu.Unlock()

	notify(obs, Change{Kind: ChangeAdded, Meetings: slices.Clone(ms)})
	return nil
}

// Delete removes all meetings with an id in ids. Unknown ids are ignored and
// observers are only notified when something was removed.
func (s *Memory) Delete(ids ...uuid.UUID) int {
	if len(ids) == 0 {
		return 0
	}
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	var removed []models.Meeting
	kept := make([]models.Meeting, 0, len(s.meetings))
	for _, m := range s.meetings {
		if _, ok := set[m.ID]; ok {
			removed = append(removed, m)
			continue
		}
		kept = append(kept, m)
	}
	if len(removed) == 0 {
		s.mu.Unlock()
		return 0
	}
	s.meetings = kept
	obs := s.observersLocked()
	s.mu.Unlock()

	notify(obs, Change{Kind: ChangeDeleted, Meetings: removed})
	return len(removed)
}

// Get looks a meeting up by id.
func (s *Memory) Get(id uuid.UUID) (models.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.meetings {
		if m.ID == id {
			return m, nil
		}
	}
	return models.Meeting{}, apperr.ErrNotFound
}

// Snapshot returns a copy of the current collection.
func (s *Memory) Snapshot() []models.Meeting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.meetings)
}

// Len returns the number of stored meetings.
func (s *Memory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.meetings)
}

// Subscribe registers fn. Calling the returned function removes it; it is
// safe to call more than once.
func (s *Memory) Subscribe(fn Observer) func() {
	s.mu.Lock()
	s.nextObs++
	id := s.nextObs
	s.observers = append(s.observers, observerEntry{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.observers = slices.DeleteFunc(s.observers, func(e observerEntry) bool {
			return e.id == id
		})
	}
}

func (s *Memory) observersLocked() []Observer {
	out := make([]Observer, len(s.observers))
	for i, e := range s.observers {
		out[i] = e.fn
	}
	return out
}

func notify(obs []Observer, c Change) {
	for _, fn := range obs {
		fn(c)
	}
}
