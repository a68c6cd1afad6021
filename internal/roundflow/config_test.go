package roundflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/quizbeat/quizbeat/internal/game"
)

func TestConfigFromGame(t *testing.T) {
	cfg := ConfigFromGame(&game.Game{
		Mode:                 game.ModeClassic,
		TimerStartRound:      7,
		ScoreDisplayDuration: 12,
	})
	assert.Equal(t, 7*time.Second, cfg.LeadIn)
	assert.Equal(t, 12*time.Second, cfg.ResultsDisplay)

	t.Run("karaoke shortens the results screen", func(t *testing.T) {
		cfg := ConfigFromGame(&game.Game{Mode: game.ModeKaraoke, ScoreDisplayDuration: 12})
		assert.Equal(t, 3*time.Second, cfg.ResultsDisplay)
	})

	t.Run("nil game falls back to defaults", func(t *testing.T) {
		assert.Equal(t, DefaultConfig(), ConfigFromGame(nil))
	})

	t.Run("zero settings keep defaults", func(t *testing.T) {
		cfg := ConfigFromGame(&game.Game{Mode: game.ModeClassic})
		assert.Equal(t, DefaultConfig().LeadIn, cfg.LeadIn)
		assert.Equal(t, DefaultConfig().ResultsDisplay, cfg.ResultsDisplay)
	})
}
