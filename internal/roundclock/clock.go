// Package roundclock reconciles the client-local clock with the
// server-declared round start time. All functions are pure in wall-clock
// time: callers own the polling cadence.
package roundclock

import (
	"time"
)

// MaxSeekSeconds is the content-safe upper bound for a media seek target.
// A computed offset beyond this signals a stale or skewed started-at
// timestamp; seeking far past content length throws or no-ops
// inconsistently across media implementations, so it must never be applied.
const MaxSeekSeconds = 30.0

// ParseStartedAt parses a server-supplied ISO timestamp. The second return
// is false when the value is absent or unparseable, which callers treat as
// "the round just started" rather than an error.
func ParseStartedAt(startedAt string) (time.Time, bool) {
	if startedAt == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, startedAt); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SeekSeconds returns how far into the media a client rendering at `now`
// should seek so it hears the same moment as everyone else: elapsed time
// since the round truly started, minus the fixed lead-in shown before
// media begins. Negative raw differences (clock skew, push arrived early)
// clamp to zero. Callers must still pass the result through ClampSeek
// before applying it to a media element.
func SeekSeconds(startedAt string, leadIn time.Duration, now time.Time) float64 {
	start, ok := ParseStartedAt(startedAt)
	if !ok {
		return 0
	}
	seek := now.Sub(start.Add(leadIn)).Seconds()
	if seek < 0 {
		return 0
	}
	return seek
}

// ClampSeek bounds a seek target to [0, MaxSeekSeconds].
func ClampSeek(seek float64) float64 {
	if seek < 0 {
		return 0
	}
	if seek > MaxSeekSeconds {
		return MaxSeekSeconds
	}
	return seek
}

// RemainingSeconds returns how much of the answer window is left at `now`.
// An absent or unparseable startedAt yields the full duration.
func RemainingSeconds(durationSeconds int, startedAt string, leadIn time.Duration, now time.Time) float64 {
	remaining := float64(durationSeconds) - SeekSeconds(startedAt, leadIn, now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
