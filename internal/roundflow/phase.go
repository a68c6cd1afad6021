package roundflow

import (
	"sync"
	"time"
)

// Phase sequences one round. Loading shows the fixed lead-in countdown,
// playing runs media and the answer window, results shows the reveal.
type Phase string

const (
	// PhaseIdle is before any round has arrived.
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhasePlaying Phase = "playing"
	PhaseResults Phase = "results"
	// PhaseFinished is after game_finished.
	PhaseFinished Phase = "finished"
)

// advanceGuard makes a host-only server call fire at most once per round,
// with a cool-down between attempts so a failed call can be retried but a
// rapid duplicate invocation cannot double-fire.
type advanceGuard struct {
	mu          sync.Mutex
	inFlight    bool
	done        bool
	lastAttempt time.Time
}

// begin reports whether the caller may issue the call now.
func (g *advanceGuard) begin(now time.Time, cooldown time.Duration) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done || g.inFlight {
		return false
	}
	if !g.lastAttempt.IsZero() && now.Sub(g.lastAttempt) < cooldown {
		return false
	}
	g.inFlight = true
	g.lastAttempt = now
	return true
}

// finish records the call outcome. A successful call closes the guard for
// the rest of the round.
func (g *advanceGuard) finish(ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inFlight = false
	if ok {
		g.done = true
	}
}

// reset reopens the guard for a new round.
func (g *advanceGuard) reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inFlight = false
	g.done = false
	g.lastAttempt = time.Time{}
}
