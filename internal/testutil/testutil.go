// Package testutil provides shared test helpers for building seeded stores and services.
package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/starford/tracker/internal/meetingservice"
	"github.com/starford/tracker/internal/store"
)

// Epoch is the fixed "now" used by tests.
var Epoch = time.Date(2025, 2, 3, 12, 0, 0, 0, time.UTC)

// Clock is a settable time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock reading t.
func NewClock(t time.Time) *Clock {
	return &Clock{now: t}
}

// Now returns the current reading.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// SeededStore returns a store holding the sample meetings relative to Epoch.
func SeededStore(t *testing.T) *store.Memory {
	t.Helper()
	return store.NewMemory(store.Seed(Epoch)...)
}

// TestService returns a service over a seeded store with a clock at Epoch.
func TestService(t *testing.T, opts ...meetingservice.Option) (*meetingservice.Service, *store.Memory, *Clock) {
	t.Helper()
	st := SeededStore(t)
	clock := NewClock(Epoch)
	opts = append([]meetingservice.Option{meetingservice.WithClock(clock.Now)}, opts...)
	return meetingservice.NewService(st, opts...), st, clock
}
