// Package roundflow sequences a round through loading, playing and
// results, gating the media controller, the lyric syncer and the
// countdown. It consumes typed push events and is the only component
// issuing host-side round mutations.
package roundflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/quizbeat/quizbeat/internal/game"
	"github.com/quizbeat/quizbeat/internal/lyrics"
	"github.com/quizbeat/quizbeat/internal/media"
	"github.com/quizbeat/quizbeat/internal/roundclock"
)

var (
	// ErrNotPlaying is returned when an answer arrives outside the
	// playing phase.
	ErrNotPlaying = errors.New("roundflow: no round accepting answers")
	// ErrAlreadyAnswered suppresses duplicate submissions for a round.
	ErrAlreadyAnswered = errors.New("roundflow: already answered this round")
)

// serverCallTimeout bounds host-side REST calls issued from timers.
const serverCallTimeout = 10 * time.Second

// cueThresholds are the remaining-seconds marks where presentation cues
// fire, each at most once per round.
var cueThresholds = []int{5, 3}

// RoundService is the backend surface the machine mutates through.
type RoundService interface {
	SubmitAnswer(ctx context.Context, sub game.AnswerSubmission) (*game.AnswerResult, error)
	// EndRound and AdvanceRound are host-only.
	EndRound(ctx context.Context) error
	AdvanceRound(ctx context.Context) error
}

// AnswerNotifier carries the presentational player_answer notice to the
// rest of the room.
type AnswerNotifier interface {
	NotifyAnswer(ctx context.Context, player, answer string, responseTime float64) error
}

// Hooks are presentation callbacks. All are optional and must not block.
type Hooks struct {
	OnPhase     func(phase Phase, round *game.Round)
	OnLeadIn    func(remainingSeconds float64)
	OnCountdown func(remainingSeconds float64)
	// OnCue fires once per round per threshold (5s, 3s left). Cues are
	// presentation hints, never correctness-critical.
	OnCue       func(secondsLeft int)
	OnLyricLine func(index int)
	OnResults   func(results *game.RoundResults)
}

// Params wires a machine.
type Params struct {
	Clock    clockwork.Clock
	Config   Config
	Service  RoundService
	Media    *media.Controller
	Notifier AnswerNotifier
	UserID   int
	Username string
	Game     *game.Game
	Hooks    Hooks
}

// Machine drives one game's rounds. All state belongs to the current
// round; a new round_started tears everything down before anything new is
// created, and the generation token keeps stale timer callbacks inert.
type Machine struct {
	clock    clockwork.Clock
	cfg      Config
	svc      RoundService
	media    *media.Controller
	notifier AnswerNotifier
	userID   int
	username string
	game     *game.Game
	hooks    Hooks

	mu          sync.Mutex
	phase       Phase
	round       *game.Round
	results     *game.RoundResults
	gen         uint64
	roundCtx    context.Context
	roundCancel context.CancelFunc
	playCancel  context.CancelFunc
	localStart  time.Time
	hasAnswered bool
	cuesFired   map[int]bool

	endGuard advanceGuard
	advGuard advanceGuard
}

// NewMachine creates a machine in the idle phase.
func NewMachine(p Params) *Machine {
	clock := p.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	cfg := p.Config
	if cfg.CountdownPoll <= 0 {
		cfg = DefaultConfig()
	}
	return &Machine{
		clock:     clock,
		cfg:       cfg,
		svc:       p.Service,
		media:     p.Media,
		notifier:  p.Notifier,
		userID:    p.UserID,
		username:  p.Username,
		game:      p.Game,
		hooks:     p.Hooks,
		phase:     PhaseIdle,
		cuesFired: make(map[int]bool),
	}
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// CurrentRound returns the round being played, or nil.
func (m *Machine) CurrentRound() *game.Round {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.round
}

// Results returns the reveal payload once the round has ended, or nil.
func (m *Machine) Results() *game.RoundResults {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.results
}

// HandleRoundStarted implements the relay handler: a new round resets the
// machine no matter what phase the previous round was in.
func (m *Machine) HandleRoundStarted(round *game.Round) {
	m.BeginRound(round)
}

// BeginRound tears down the previous round and enters loading for the new
// one. The teardown completes before any new timers or media exist; async
// results from the old round are discarded by the generation bump.
func (m *Machine) BeginRound(round *game.Round) {
	m.mu.Lock()
	m.teardownLocked()

	m.gen++
	gen := m.gen
	m.round = round
	m.results = nil
	m.hasAnswered = false
	m.localStart = m.clock.Now()
	m.cuesFired = make(map[int]bool)
	m.endGuard.reset()
	m.advGuard.reset()

	ctx, cancel := context.WithCancel(context.Background())
	m.roundCtx = ctx
	m.roundCancel = cancel
	m.phase = PhaseLoading
	m.mu.Unlock()

	log.Info().
		Int("round_number", round.RoundNumber).
		Str("question_type", string(round.QuestionType)).
		Msg("round started")
	m.firePhase(PhaseLoading, round)

	go m.runLeadIn(ctx, gen)
}

// HandleRoundEnded implements the relay handler for the server-driven
// results transition.
func (m *Machine) HandleRoundEnded(results *game.RoundResults) {
	m.mu.Lock()
	gen := m.gen
	m.mu.Unlock()
	m.enterResults(gen, results)
}

// HandleGameFinished implements the relay handler.
func (m *Machine) HandleGameFinished() {
	m.mu.Lock()
	m.teardownLocked()
	m.phase = PhaseFinished
	m.mu.Unlock()

	log.Info().Msg("game finished")
	m.firePhase(PhaseFinished, nil)
}

// HandlePlayerAnswered implements the relay handler. Informational only.
func (m *Machine) HandlePlayerAnswered(username, answer string) {
	log.Debug().Str("username", username).Str("answer", answer).Msg("player answered")
}

// SubmitAnswer records the local player's answer exactly once per round:
// the first call performs the network mutation, later calls are no-ops
// returning ErrAlreadyAnswered.
func (m *Machine) SubmitAnswer(ctx context.Context, answer string) (*game.AnswerResult, error) {
	m.mu.Lock()
	if m.phase != PhasePlaying {
		m.mu.Unlock()
		return nil, ErrNotPlaying
	}
	if m.hasAnswered {
		m.mu.Unlock()
		return nil, ErrAlreadyAnswered
	}
	m.hasAnswered = true
	round := m.round
	localStart := m.localStart
	m.mu.Unlock()

	responseTime := float64(round.Duration) - m.remainingSeconds(round, localStart)
	if responseTime < 0 {
		responseTime = 0
	}

	result, err := m.svc.SubmitAnswer(ctx, game.AnswerSubmission{
		Answer:       answer,
		ResponseTime: responseTime,
	})
	if err != nil {
		// Allow a retry: the submission never reached the server.
		m.mu.Lock()
		m.hasAnswered = false
		m.mu.Unlock()
		return nil, err
	}

	log.Info().
		Bool("is_correct", result.IsCorrect).
		Int("points_earned", result.PointsEarned).
		Float64("response_time", responseTime).
		Msg("answer submitted")

	if m.notifier != nil {
		if nerr := m.notifier.NotifyAnswer(ctx, m.username, answer, responseTime); nerr != nil {
			log.Debug().Err(nerr).Msg("answer notice not delivered")
		}
	}
	return result, nil
}

// runLeadIn counts down the fixed preparation window, then enters playing.
// Completion is local: the lead-in never depends on the network.
func (m *Machine) runLeadIn(ctx context.Context, gen uint64) {
	deadline := m.clock.Now().Add(m.cfg.LeadIn)
	ticker := m.clock.NewTicker(m.cfg.CountdownPoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			remaining := deadline.Sub(m.clock.Now()).Seconds()
			if m.hooks.OnLeadIn != nil {
				m.hooks.OnLeadIn(remaining)
			}
			if remaining <= 0 {
				m.enterPlaying(gen)
				return
			}
		}
	}
}

func (m *Machine) enterPlaying(gen uint64) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	if m.phase != PhaseLoading {
		// The round moved on (server ended it during the lead-in);
		// this tick is stale.
		m.mu.Unlock()
		return
	}
	m.phase = PhasePlaying
	round := m.round
	localStart := m.localStart
	pctx, pcancel := context.WithCancel(m.roundCtx)
	m.playCancel = pcancel
	m.mu.Unlock()

	m.firePhase(PhasePlaying, round)

	if m.media != nil && !round.PlaysDuringReveal() {
		m.media.Start(pctx, round, m.seekFunc(round, localStart), round.MaxPlaySeconds())
	}
	m.startLyrics(pctx, round, localStart)
	go m.runCountdown(pctx, gen, round, localStart)
}

// runCountdown polls remaining time, fires cues, and expires the round
// locally so the UI never hangs waiting on the network.
func (m *Machine) runCountdown(ctx context.Context, gen uint64, round *game.Round, localStart time.Time) {
	ticker := m.clock.NewTicker(m.cfg.CountdownPoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			remaining := m.remainingSeconds(round, localStart)
			if m.hooks.OnCountdown != nil {
				m.hooks.OnCountdown(remaining)
			}
			m.fireCues(remaining)
			if remaining <= 0 {
				m.expire(gen)
				return
			}
		}
	}
}

func (m *Machine) fireCues(remaining float64) {
	if m.hooks.OnCue == nil || remaining <= 0 {
		return
	}
	for _, t := range cueThresholds {
		if remaining > float64(t) {
			continue
		}
		m.mu.Lock()
		fired := m.cuesFired[t]
		m.cuesFired[t] = true
		m.mu.Unlock()
		if !fired {
			m.hooks.OnCue(t)
		}
	}
}

// expire handles the local countdown reaching zero. The round authority
// tells the server; everyone transitions locally either way.
func (m *Machine) expire(gen uint64) {
	if m.isAuthority() {
		go m.issueEndRound()
	}
	m.enterResults(gen, nil)
}

func (m *Machine) enterResults(gen uint64, results *game.RoundResults) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}

	if m.phase == PhaseResults {
		// Local expiry and the server push both land here; record the
		// results payload once and keep everything else as is.
		first := results != nil && m.results == nil
		if first {
			m.results = results
		}
		m.mu.Unlock()
		if first && m.hooks.OnResults != nil {
			m.hooks.OnResults(results)
		}
		return
	}

	if m.phase != PhasePlaying && m.phase != PhaseLoading {
		if m.round == nil {
			// Results arrived before any round did; there is nothing to
			// reveal and no lead-in to degrade to.
			log.Warn().Str("phase", string(m.phase)).Msg("round results with no active round, ignoring")
			m.mu.Unlock()
			return
		}
		m.invalidTransitionLocked(PhaseResults)
		m.mu.Unlock()
		return
	}

	m.phase = PhaseResults
	if results != nil {
		m.results = results
	}
	if m.playCancel != nil {
		m.playCancel()
		m.playCancel = nil
	}
	round := m.round
	rctx := m.roundCtx
	m.mu.Unlock()

	log.Info().Int("round_number", round.RoundNumber).Msg("round results")
	m.firePhase(PhaseResults, round)
	if results != nil && m.hooks.OnResults != nil {
		m.hooks.OnResults(results)
	}

	if m.media != nil {
		m.media.Stop()
		// Some question types keep the question phase silent and only
		// play the track as the reveal.
		if round.PlaysDuringReveal() && round.HasPreview() {
			m.media.Start(rctx, round, func() float64 { return 0 }, 0)
		}
	}

	go m.runResultsTimer(rctx, gen)
}

func (m *Machine) runResultsTimer(ctx context.Context, gen uint64) {
	timer := m.clock.NewTimer(m.cfg.ResultsDisplay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.Chan():
		m.mu.Lock()
		stale := gen != m.gen
		m.mu.Unlock()
		if stale || !m.isAuthority() {
			// Non-hosts wait for the next round_started push.
			return
		}
		m.issueAdvance()
	}
}

func (m *Machine) issueEndRound() {
	if !m.endGuard.begin(m.clock.Now(), m.cfg.AdvanceCooldown) {
		log.Debug().Msg("round-end call suppressed by guard")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), serverCallTimeout)
	defer cancel()

	err := m.svc.EndRound(ctx)
	m.endGuard.finish(err == nil)
	if err != nil {
		log.Warn().Err(err).Msg("end-round call failed")
		return
	}
	log.Debug().Msg("round ended on server")
}

func (m *Machine) issueAdvance() {
	if !m.advGuard.begin(m.clock.Now(), m.cfg.AdvanceCooldown) {
		log.Debug().Msg("round-advance call suppressed by guard")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), serverCallTimeout)
	defer cancel()

	err := m.svc.AdvanceRound(ctx)
	m.advGuard.finish(err == nil)
	if err != nil {
		log.Warn().Err(err).Msg("round-advance call failed")
		return
	}
	log.Debug().Msg("advanced to next round on server")
}

// startLyrics launches the syncer when the round has synced lines. The
// karaoke variant follows the player's native playhead; everything else
// follows wall-clock time from the round start so highlighting keeps
// advancing whatever the audio is doing.
func (m *Machine) startLyrics(ctx context.Context, round *game.Round, localStart time.Time) {
	lines := round.SyncedLines()
	if len(lines) == 0 {
		return
	}

	var src lyrics.PositionSource
	if round.QuestionType == game.QuestionKaraoke && m.media != nil {
		src = lyrics.PlayheadSource(func() (float64, bool) {
			sess := m.media.Active()
			if sess == nil {
				return 0, false
			}
			return sess.Position()
		})
	} else {
		start, ok := roundclock.ParseStartedAt(round.StartedAt)
		if !ok {
			start = localStart
		}
		src = lyrics.ElapsedSource(m.clock, start)
	}

	syncer := lyrics.NewSyncer(m.clock, lines, src, m.cfg.LyricPoll, func(index int) {
		if m.hooks.OnLyricLine != nil {
			m.hooks.OnLyricLine(index)
		}
	})
	go syncer.Run(ctx)
}

// seekFunc builds the per-attempt seek computation for a round, so a
// user-gesture retry seeks to where the round is at retry time.
func (m *Machine) seekFunc(round *game.Round, localStart time.Time) media.SeekFunc {
	return func() float64 {
		if _, ok := roundclock.ParseStartedAt(round.StartedAt); ok {
			return roundclock.SeekSeconds(round.StartedAt, m.cfg.LeadIn, m.clock.Now())
		}
		// Unusable started-at: the round is treated as having just
		// started when it reached this client.
		seek := m.clock.Now().Sub(localStart.Add(m.cfg.LeadIn)).Seconds()
		if seek < 0 {
			return 0
		}
		return seek
	}
}

func (m *Machine) remainingSeconds(round *game.Round, localStart time.Time) float64 {
	if _, ok := roundclock.ParseStartedAt(round.StartedAt); ok {
		return roundclock.RemainingSeconds(round.Duration, round.StartedAt, m.cfg.LeadIn, m.clock.Now())
	}
	elapsed := m.clock.Now().Sub(localStart.Add(m.cfg.LeadIn)).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := float64(round.Duration) - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (m *Machine) isAuthority() bool {
	return game.IsRoundAuthority(m.userID, m.game)
}

// teardownLocked cancels every timer and releases the media session for
// the current round. Callers hold m.mu.
func (m *Machine) teardownLocked() {
	m.gen++
	if m.playCancel != nil {
		m.playCancel()
		m.playCancel = nil
	}
	if m.roundCancel != nil {
		m.roundCancel()
		m.roundCancel = nil
	}
	if m.media != nil {
		m.media.Stop()
	}
}

func (m *Machine) invalidTransitionLocked(to Phase) {
	// Fail loudly, degrade to the safe default.
	log.Error().
		Str("from", string(m.phase)).
		Str("to", string(to)).
		Msg("impossible phase transition, degrading to loading")
	m.phase = PhaseLoading
}

func (m *Machine) firePhase(phase Phase, round *game.Round) {
	if m.hooks.OnPhase != nil {
		m.hooks.OnPhase(phase, round)
	}
}
