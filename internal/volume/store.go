// Package volume holds the process-wide music volume as a small
// observable store. Live playback sessions subscribe so a settings change
// propagates without restarting playback.
package volume

import (
	"sync"
)

// Store is a read-mostly shared volume level in [0, 1], mutated only
// through Set and fanned out to subscribers.
type Store struct {
	mu     sync.RWMutex
	level  float64
	subs   map[int]func(float64)
	nextID int
}

// NewStore creates a store at the given initial level, clamped to [0, 1].
func NewStore(initial float64) *Store {
	return &Store{
		level: clamp(initial),
		subs:  make(map[int]func(float64)),
	}
}

// Level returns the current volume.
func (s *Store) Level() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.level
}

// Set updates the volume and notifies every subscriber with the new level.
func (s *Store) Set(level float64) {
	level = clamp(level)

	s.mu.Lock()
	s.level = level
	subs := make([]func(float64), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	// Notify outside the lock so a subscriber may call back into the store.
	for _, fn := range subs {
		fn(level)
	}
}

// Subscribe registers fn for future volume changes and returns a cancel
// func. fn is not called with the current level; read Level for that.
func (s *Store) Subscribe(fn func(float64)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
