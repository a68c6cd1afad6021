package media

import (
	"context"
	"errors"
)

// ErrAutoplayBlocked is returned by Play when the platform refuses
// unprompted playback. It is an expected condition, resolved by retrying
// from a user gesture, and is never logged as an error.
var ErrAutoplayBlocked = errors.New("media: autoplay blocked, user gesture required")

// ErrNoSource is returned when an operation needs a playable source and
// the round has none. It is terminal for the round, not retryable.
var ErrNoSource = errors.New("media: no playable source for this round")

// ErrNoSession is returned by Retry when no session is active.
var ErrNoSession = errors.New("media: no active playback session")

// Element is the seam to an actual playable media surface: an HTML audio
// or video element in a browser embedder, a headless simulation in the
// terminal client and in tests. Implementations own the underlying
// resource; Close must fully release it and be safe to call repeatedly.
type Element interface {
	// Load begins fetching the source. Readiness or failure arrives
	// asynchronously on Ready/Errors; neither is guaranteed to fire.
	Load(sourceURL string)
	// Ready delivers once the element can begin playback.
	Ready() <-chan struct{}
	// Errors delivers load and network failures.
	Errors() <-chan error
	// Play attempts playback, resolving like a play() promise.
	// Returns ErrAutoplayBlocked when a user gesture is required.
	Play(ctx context.Context) error
	Pause()
	// Seek jumps the playhead to the given offset in seconds.
	Seek(offsetSeconds float64)
	// Position reports the current playhead in seconds.
	Position() float64
	SetVolume(level float64)
	// Close pauses, detaches the source and releases buffers.
	Close()
}

// ElementFactory creates a fresh element. Load-error recovery recreates
// the element from scratch rather than reusing one whose internal state
// may be the fault.
type ElementFactory func() Element
