package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/quizbeat/quizbeat/internal/api"
	"github.com/quizbeat/quizbeat/internal/config"
	"github.com/quizbeat/quizbeat/internal/game"
	"github.com/quizbeat/quizbeat/internal/lyrics"
	"github.com/quizbeat/quizbeat/internal/media"
	"github.com/quizbeat/quizbeat/internal/relay"
	"github.com/quizbeat/quizbeat/internal/roundflow"
	"github.com/quizbeat/quizbeat/internal/volume"
)

func main() {
	configPath := flag.String("config", "quizbeat.yaml", "path to config file")
	roomCode := flag.String("room", "", "room code to join (overrides config)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if *roomCode != "" {
		cfg.RoomCode = *roomCode
	}
	if cfg.RoomCode == "" {
		log.Fatal().Msg("a room code is required (-room or QUIZBEAT_ROOM_CODE)")
	}

	if level, perr := zerolog.ParseLevel(cfg.LogLevel); perr == nil {
		zerolog.SetGlobalLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("client exited with error")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	clock := clockwork.NewRealClock()
	client := api.NewClient(cfg.ServerURL, cfg.AuthToken)

	g, err := client.Game(ctx, cfg.RoomCode)
	if err != nil {
		return fmt.Errorf("fetch game: %w", err)
	}
	log.Info().
		Str("room_code", g.RoomCode).
		Str("mode", string(g.Mode)).
		Bool("is_host", game.IsRoundAuthority(cfg.UserID, g)).
		Msg("joined game")

	channel, err := relay.DialRoom(ctx, cfg.RoomSocketURL(), relay.DefaultWSConfig())
	if err != nil {
		return fmt.Errorf("connect room channel: %w", err)
	}
	defer channel.Close()

	volumes := volume.NewStore(cfg.Volume)
	controller := media.NewController(clock, func() media.Element {
		return media.NewHeadlessElement(clock)
	}, volumes)

	bridge := relay.NewBridge(channel)
	ui := newTerminalUI()
	machine := roundflow.NewMachine(roundflow.Params{
		Clock:    clock,
		Config:   roundflow.ConfigFromGame(g),
		Service:  roundService{api: client, roomCode: cfg.RoomCode},
		Media:    controller,
		Notifier: bridge,
		UserID:   cfg.UserID,
		Username: cfg.Username,
		Game:     g,
		Hooks:    ui.hooks(),
	})
	defer controller.Stop()

	// Catch up with a round already in progress before events flow.
	current, err := client.CurrentRound(ctx, cfg.RoomCode)
	if err != nil {
		return fmt.Errorf("fetch current round: %w", err)
	}
	switch {
	case current.GameFinished():
		log.Info().Str("message", current.Message).Msg("game already over")
		return nil
	case current.CurrentRound != nil:
		machine.BeginRound(current.CurrentRound)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return bridge.Run(egCtx, machine)
	})
	eg.Go(func() error {
		return readAnswers(egCtx, machine)
	})
	return eg.Wait()
}

// readAnswers turns stdin lines into answer submissions. A bare number
// picks the matching option on multiple-choice rounds.
func readAnswers(ctx context.Context, machine *roundflow.Machine) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case text, ok := <-lines:
			if !ok {
				return nil
			}
			submitAnswer(ctx, machine, strings.TrimSpace(text))
		}
	}
}

func submitAnswer(ctx context.Context, machine *roundflow.Machine, text string) {
	if text == "" {
		return
	}
	if round := machine.CurrentRound(); round != nil && round.IsMultipleChoice() {
		if n, err := strconv.Atoi(text); err == nil && n >= 1 && n <= len(round.Options) {
			text = round.Options[n-1]
		}
	}

	result, err := machine.SubmitAnswer(ctx, text)
	switch {
	case errors.Is(err, roundflow.ErrAlreadyAnswered):
		fmt.Println("You already answered this round.")
	case errors.Is(err, roundflow.ErrNotPlaying):
		fmt.Println("No round is accepting answers right now.")
	case err != nil:
		log.Warn().Err(err).Msg("answer submission failed")
	case result.IsCorrect:
		fmt.Printf("Correct! +%d pts\n", result.PointsEarned)
	default:
		fmt.Println("Not this time.")
	}
}

// roundService binds the REST client to one room for the state machine.
type roundService struct {
	api      *api.Client
	roomCode string
}

func (s roundService) SubmitAnswer(ctx context.Context, sub game.AnswerSubmission) (*game.AnswerResult, error) {
	return s.api.SubmitAnswer(ctx, s.roomCode, sub)
}

func (s roundService) EndRound(ctx context.Context) error {
	return s.api.EndRound(ctx, s.roomCode)
}

func (s roundService) AdvanceRound(ctx context.Context) error {
	return s.api.NextRound(ctx, s.roomCode)
}

// terminalUI renders phases, the countdown bar and lyric lines to stdout.
type terminalUI struct {
	mu    sync.Mutex
	bar   *progressbar.ProgressBar
	round *game.Round
	lines []lyrics.Line
}

func newTerminalUI() *terminalUI {
	return &terminalUI{}
}

func (ui *terminalUI) hooks() roundflow.Hooks {
	return roundflow.Hooks{
		OnPhase:     ui.onPhase,
		OnCountdown: ui.onCountdown,
		OnCue:       ui.onCue,
		OnLyricLine: ui.onLyricLine,
		OnResults:   ui.onResults,
	}
}

func (ui *terminalUI) onPhase(phase roundflow.Phase, round *game.Round) {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	ui.round = round

	switch phase {
	case roundflow.PhaseLoading:
		ui.lines = round.SyncedLines()
		fmt.Printf("\n=== Round %d, get ready ===\n", round.RoundNumber)
		fmt.Println(round.QuestionText)
		if round.ExtraData.LyricsSnippet != "" {
			fmt.Println(round.ExtraData.LyricsSnippet)
		}
		for i, opt := range round.Options {
			fmt.Printf("  %d) %s\n", i+1, opt)
		}
	case roundflow.PhasePlaying:
		ui.bar = progressbar.NewOptions(
			round.Duration,
			progressbar.OptionSetWriter(os.Stdout),
			progressbar.OptionSetTheme(progressbar.ThemeASCII),
			progressbar.OptionFullWidth(),
			progressbar.OptionSetDescription("time left"),
		)
	case roundflow.PhaseResults:
		ui.bar = nil
		fmt.Println()
	case roundflow.PhaseFinished:
		fmt.Println("\n=== Game over ===")
	}
}

func (ui *terminalUI) onCountdown(remaining float64) {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	if ui.bar == nil || ui.round == nil {
		return
	}
	ui.bar.Set(ui.round.Duration - int(remaining))
}

func (ui *terminalUI) onCue(secondsLeft int) {
	fmt.Printf("\n%ds left!\n", secondsLeft)
}

func (ui *terminalUI) onLyricLine(index int) {
	ui.mu.Lock()
	lines := ui.lines
	ui.mu.Unlock()
	if text := lyrics.HighlightText(lines, index); text != "" {
		fmt.Printf("\n♪ %s\n", text)
	}
}

func (ui *terminalUI) onResults(results *game.RoundResults) {
	fmt.Printf("\nCorrect answer: %s\n", results.CorrectAnswer)
	for _, p := range results.UpdatedPlayers {
		fmt.Printf("  %-20s %d pts\n", p.Username, p.Score)
	}
}
