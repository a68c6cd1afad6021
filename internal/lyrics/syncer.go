package lyrics

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// DefaultPollInterval bounds how often a native playhead is sampled when
// the player, not wall-clock time, is the authoritative clock.
const DefaultPollInterval = 80 * time.Millisecond

// PositionSource yields the current playback position in milliseconds.
// ok is false while no position is available yet (player not started).
type PositionSource func() (positionMs int, ok bool)

// ElapsedSource derives position from wall-clock time since the round
// started. Used by text-mode variants where highlighting must keep
// advancing regardless of how (or whether) audio is playing.
func ElapsedSource(clock clockwork.Clock, start time.Time) PositionSource {
	return func() (int, bool) {
		elapsed := clock.Now().Sub(start)
		if elapsed < 0 {
			return 0, true
		}
		return int(elapsed.Milliseconds()), true
	}
}

// PlayheadSource derives position from a player's native playhead, polled
// in seconds. Used by the karaoke variant where the video player is the
// authoritative clock.
func PlayheadSource(positionSeconds func() (float64, bool)) PositionSource {
	return func() (int, bool) {
		sec, ok := positionSeconds()
		if !ok {
			return 0, false
		}
		return int(sec * 1000), true
	}
}

// Syncer drives the active-line index from a position source on a fixed
// interval, invoking onChange only when the index moves. The index is
// recomputed from scratch every tick; monotonicity falls out of the
// greatest-index rule in ActiveLineIndex, never from caching.
type Syncer struct {
	clock    clockwork.Clock
	lines    []Line
	source   PositionSource
	interval time.Duration
	onChange func(index int)

	lastIndex int
}

// NewSyncer builds a syncer over sorted lines. onChange fires with
// NoActiveLine when position regresses before the first line, and with the
// line index otherwise.
func NewSyncer(clock clockwork.Clock, lines []Line, source PositionSource, interval time.Duration, onChange func(index int)) *Syncer {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Syncer{
		clock:     clock,
		lines:     lines,
		source:    source,
		interval:  interval,
		onChange:  onChange,
		lastIndex: NoActiveLine,
	}
}

// Run polls until the context is cancelled. It owns no other resources;
// cancelling the context is a complete teardown.
func (s *Syncer) Run(ctx context.Context) {
	if len(s.lines) == 0 {
		// Nothing to highlight; plain-lyrics fallback is the renderer's
		// concern, not ours.
		log.Debug().Msg("lyric syncer started with no synced lines")
		return
	}

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s.tick()
		}
	}
}

func (s *Syncer) tick() {
	pos, ok := s.source()
	if !ok {
		return
	}
	idx := ActiveLineIndex(s.lines, pos)
	if idx == s.lastIndex {
		return
	}
	s.lastIndex = idx
	if s.onChange != nil {
		s.onChange(idx)
	}
}
