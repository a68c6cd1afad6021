package media

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// State is the lifecycle of one playback session.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StatePlaying State = "playing"
	// StateStalled covers both autoplay rejection and the
	// neither-ready-nor-errored fallback window. Both resolve the same
	// way: a manual play control backed by a user gesture.
	StateStalled State = "stalled"
	StateError   State = "error"
	StateStopped State = "stopped"
	// StateUnavailable is terminal: the round has no playable preview.
	// It is a display state, never a failure to recover from.
	StateUnavailable State = "unavailable"
)

// SeekFunc computes the seek offset in seconds at the moment playback is
// attempted. Passing a function rather than a value means a user-gesture
// retry seeks to where the round is now, not to where it was when the
// first attempt failed.
type SeekFunc func() float64

// Session owns exactly one media element for one round. All fields are
// guarded by mu; the generation token decides whether an async callback
// still speaks for the current attempt.
type Session struct {
	id uuid.UUID

	mu           sync.Mutex
	state        State
	needsGesture bool
	lastErr      error

	sourceURL      string
	seek           SeekFunc
	maxPlaySeconds float64

	elem        Element
	ctx         context.Context
	cancel      context.CancelFunc
	unsubVolume func()
}

// ID identifies the session for logging.
func (s *Session) ID() uuid.UUID { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// NeedsGesture reports whether a user gesture is required to start
// playback. Distinguishes the manual-play affordance from the
// load-error retry affordance.
func (s *Session) NeedsGesture() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.needsGesture
}

// Err returns the last load/network error, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Position reports the element's playhead in seconds. ok is false when no
// element is attached (unavailable or already released).
func (s *Session) Position() (pos float64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.elem == nil {
		return 0, false
	}
	return s.elem.Position(), true
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}
