package roundflow

import (
	"time"

	"github.com/quizbeat/quizbeat/internal/game"
)

// Config holds the timing knobs for one game's round flow. Lead-in and
// results display come from the server's game settings; the polling
// cadences are client-local.
type Config struct {
	// LeadIn is the "get ready" window before media starts. Every client
	// gets the same minimum preparation time regardless of render
	// latency; the seek-offset math compensates for exactly this window.
	LeadIn time.Duration
	// ResultsDisplay is how long the reveal stays up before the host
	// advances the game.
	ResultsDisplay time.Duration
	// CountdownPoll is the remaining-time polling interval.
	CountdownPoll time.Duration
	// LyricPoll bounds how often lyric position sources are sampled.
	LyricPoll time.Duration
	// AdvanceCooldown is the re-entrancy window for host-only calls.
	AdvanceCooldown time.Duration
}

// DefaultConfig returns the client-local defaults with a 5s lead-in and
// 10s results display.
func DefaultConfig() Config {
	return Config{
		LeadIn:          5 * time.Second,
		ResultsDisplay:  10 * time.Second,
		CountdownPoll:   100 * time.Millisecond,
		LyricPoll:       80 * time.Millisecond,
		AdvanceCooldown: 2500 * time.Millisecond,
	}
}

// ConfigFromGame derives per-game timing from the server's settings.
// Karaoke keeps only a short results screen between songs.
func ConfigFromGame(g *game.Game) Config {
	cfg := DefaultConfig()
	if g == nil {
		return cfg
	}
	if g.TimerStartRound > 0 {
		cfg.LeadIn = time.Duration(g.TimerStartRound) * time.Second
	}
	if g.ScoreDisplayDuration > 0 {
		cfg.ResultsDisplay = time.Duration(g.ScoreDisplayDuration) * time.Second
	}
	if g.Mode == game.ModeKaraoke {
		cfg.ResultsDisplay = 3 * time.Second
	}
	return cfg
}
