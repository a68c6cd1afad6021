package media

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/quizbeat/quizbeat/internal/game"
	"github.com/quizbeat/quizbeat/internal/roundclock"
	"github.com/quizbeat/quizbeat/internal/volume"
)

// DefaultFallbackAfter is how long a session may sit in loading before it
// is forced to the stalled state. Some CDNs deliver neither a ready nor an
// error signal; without this the UI spins silently forever.
const DefaultFallbackAfter = 3 * time.Second

// Controller owns the single active media element. Starting a new session
// always fully releases the previous one first: two elements producing
// audio at once is the correctness bug this type exists to prevent.
type Controller struct {
	clock         clockwork.Clock
	newElement    ElementFactory
	volumes       *volume.Store
	fallbackAfter time.Duration

	mu     sync.Mutex
	gen    uint64
	active *Session
}

// NewController wires a controller to an element factory and the shared
// volume store. volumes may be nil when no live volume propagation is
// wanted (tests).
func NewController(clock clockwork.Clock, factory ElementFactory, volumes *volume.Store) *Controller {
	return &Controller{
		clock:         clock,
		newElement:    factory,
		volumes:       volumes,
		fallbackAfter: DefaultFallbackAfter,
	}
}

// SetFallbackAfter overrides the stall-detection window.
func (c *Controller) SetFallbackAfter(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fallbackAfter = d
}

// Active returns the current session, or nil.
func (c *Controller) Active() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Start creates the session for a round and attempts playback. seek is
// evaluated (and clamped) at each playback attempt, so late retries use
// fresh timing. maxPlaySeconds > 0 truncates playback at that playhead
// offset. A round without a preview yields a terminal unavailable session
// with no element and no retries.
func (c *Controller) Start(ctx context.Context, round *game.Round, seek SeekFunc, maxPlaySeconds float64) *Session {
	c.mu.Lock()
	c.stopLocked()
	c.gen++
	gen := c.gen

	sess := &Session{id: uuid.New()}
	c.active = sess

	if !round.HasPreview() {
		sess.state = StateUnavailable
		c.mu.Unlock()
		log.Info().
			Str("session_id", sess.id.String()).
			Str("track_id", round.TrackID).
			Msg("no preview for this track")
		return sess
	}

	sess.state = StateLoading
	sess.sourceURL = round.PreviewURL
	sess.seek = seek
	sess.maxPlaySeconds = maxPlaySeconds

	sctx, cancel := context.WithCancel(ctx)
	sess.ctx = sctx
	sess.cancel = cancel

	elem := c.newElement()
	sess.elem = elem
	if c.volumes != nil {
		elem.SetVolume(c.volumes.Level())
		sess.unsubVolume = c.volumes.Subscribe(elem.SetVolume)
	}
	c.mu.Unlock()

	log.Debug().
		Str("session_id", sess.id.String()).
		Str("source_url", sess.sourceURL).
		Float64("max_play_seconds", maxPlaySeconds).
		Msg("starting playback session")

	elem.Load(sess.sourceURL)
	go c.awaitReady(sctx, sess, elem, gen)

	return sess
}

// Retry re-attempts playback after a stall or error. From stalled it
// replays the existing element (the caller's user gesture satisfies the
// autoplay policy); from error it recreates the element from scratch,
// since the failure may live in the element's internal state.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	sess := c.active
	if sess == nil {
		c.mu.Unlock()
		return ErrNoSession
	}

	sess.mu.Lock()
	state := sess.state
	sess.mu.Unlock()

	switch state {
	case StateUnavailable:
		c.mu.Unlock()
		return ErrNoSource

	case StateStalled:
		gen := c.gen
		elem := sess.elem
		sctx := sess.ctx
		c.mu.Unlock()
		go c.attemptPlay(sctx, sess, elem, gen)
		return nil

	case StateError:
		c.gen++
		gen := c.gen

		if sess.unsubVolume != nil {
			sess.unsubVolume()
			sess.unsubVolume = nil
		}
		sess.mu.Lock()
		if sess.elem != nil {
			sess.elem.Close()
		}
		elem := c.newElement()
		sess.elem = elem
		sess.state = StateLoading
		sess.lastErr = nil
		sess.needsGesture = false
		sess.mu.Unlock()

		if c.volumes != nil {
			elem.SetVolume(c.volumes.Level())
			sess.unsubVolume = c.volumes.Subscribe(elem.SetVolume)
		}
		sctx := sess.ctx
		c.mu.Unlock()

		log.Debug().
			Str("session_id", sess.id.String()).
			Msg("recreating media element after load error")

		elem.Load(sess.sourceURL)
		go c.awaitReady(sctx, sess, elem, gen)
		return nil

	default:
		// Already loading, playing or stopped; nothing to retry.
		c.mu.Unlock()
		return nil
	}
}

// Stop halts and releases the active session. Safe to call repeatedly and
// from any state.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	// Bump the generation so any in-flight async result is discarded.
	c.gen++

	sess := c.active
	if sess == nil {
		return
	}
	c.active = nil

	if sess.cancel != nil {
		sess.cancel()
	}
	if sess.unsubVolume != nil {
		sess.unsubVolume()
		sess.unsubVolume = nil
	}

	sess.mu.Lock()
	if sess.elem != nil {
		sess.elem.Pause()
		sess.elem.Close()
		sess.elem = nil
	}
	if sess.state != StateUnavailable {
		sess.state = StateStopped
	}
	sess.mu.Unlock()

	log.Debug().
		Str("session_id", sess.id.String()).
		Msg("playback session released")
}

// awaitReady waits for the element to become playable, fail, or time out.
func (c *Controller) awaitReady(ctx context.Context, sess *Session, elem Element, gen uint64) {
	timer := c.clock.NewTimer(c.fallbackAfter)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return

	case <-elem.Ready():
		c.attemptPlay(ctx, sess, elem, gen)

	case err := <-elem.Errors():
		applied := c.applyIfCurrent(gen, func() {
			sess.mu.Lock()
			sess.state = StateError
			sess.lastErr = err
			sess.needsGesture = false
			sess.mu.Unlock()
		})
		if applied {
			log.Warn().
				Err(err).
				Str("session_id", sess.id.String()).
				Msg("media failed to load")
		}

	case <-timer.Chan():
		// Neither ready nor errored within the window. Indistinguishable
		// from autoplay rejection on our side of the element, so it gets
		// the same manual-play affordance.
		applied := c.applyIfCurrent(gen, func() {
			sess.mu.Lock()
			if sess.state == StateLoading {
				sess.state = StateStalled
				sess.needsGesture = true
			}
			sess.mu.Unlock()
		})
		if applied {
			log.Info().
				Str("session_id", sess.id.String()).
				Dur("fallback_after", c.fallbackAfter).
				Msg("media neither ready nor errored, showing manual play control")
		}
	}
}

// attemptPlay seeks and plays, applying the outcome only if gen still
// identifies the live attempt.
func (c *Controller) attemptPlay(ctx context.Context, sess *Session, elem Element, gen uint64) {
	offset := roundclock.ClampSeek(sess.seekOffset())
	elem.Seek(offset)
	err := elem.Play(ctx)

	switch {
	case err == nil:
		applied := c.applyIfCurrent(gen, func() {
			sess.mu.Lock()
			sess.state = StatePlaying
			sess.needsGesture = false
			sess.lastErr = nil
			sess.mu.Unlock()
		})
		if !applied {
			return
		}
		log.Info().
			Str("session_id", sess.id.String()).
			Float64("seek_seconds", offset).
			Msg("playback started")
		c.scheduleTruncation(sess, gen, offset)

	case errors.Is(err, ErrAutoplayBlocked):
		c.applyIfCurrent(gen, func() {
			sess.mu.Lock()
			sess.state = StateStalled
			sess.needsGesture = true
			sess.mu.Unlock()
		})
		log.Info().
			Str("session_id", sess.id.String()).
			Msg("autoplay blocked, waiting for user gesture")

	default:
		applied := c.applyIfCurrent(gen, func() {
			sess.mu.Lock()
			sess.state = StateError
			sess.lastErr = err
			sess.needsGesture = false
			sess.mu.Unlock()
		})
		if applied {
			log.Warn().
				Err(err).
				Str("session_id", sess.id.String()).
				Msg("playback attempt failed")
		}
	}
}

// scheduleTruncation stops playback once the playhead reaches the
// session's max play offset (fast-intro rounds).
func (c *Controller) scheduleTruncation(sess *Session, gen uint64, startOffset float64) {
	if sess.maxPlaySeconds <= 0 {
		return
	}
	remaining := sess.maxPlaySeconds - startOffset
	if remaining <= 0 {
		c.stopIfCurrent(gen)
		return
	}
	c.clock.AfterFunc(time.Duration(remaining*float64(time.Second)), func() {
		c.stopIfCurrent(gen)
	})
}

func (c *Controller) stopIfCurrent(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	log.Debug().Msg("max play duration reached, stopping playback")
	c.stopLocked()
}

// applyIfCurrent runs fn only when gen still identifies the live attempt,
// atomically with respect to Start/Stop/Retry.
func (c *Controller) applyIfCurrent(gen uint64, fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	fn()
	return true
}

func (s *Session) seekOffset() float64 {
	if s.seek == nil {
		return 0
	}
	return s.seek()
}
