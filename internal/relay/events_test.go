package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizbeat/quizbeat/internal/game"
)

func TestParseEvent(t *testing.T) {
	t.Run("typed frame", func(t *testing.T) {
		ev, err := ParseEvent([]byte(`{"type":"round_started","round_data":{"round_number":3}}`))
		require.NoError(t, err)
		assert.Equal(t, EventRoundStarted, ev.Type)
	})

	t.Run("missing type", func(t *testing.T) {
		_, err := ParseEvent([]byte(`{"message":"hi"}`))
		assert.Error(t, err)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := ParseEvent([]byte(`{{{`))
		assert.Error(t, err)
	})
}

func TestEventRound(t *testing.T) {
	ev, err := ParseEvent([]byte(`{
		"type": "next_round",
		"round_data": {
			"id": 412,
			"round_number": 2,
			"track_id": "t-9",
			"question_type": "fast_intro",
			"duration": 30,
			"extra_data": {"audio_duration": 5}
		}
	}`))
	require.NoError(t, err)

	round, err := ev.Round()
	require.NoError(t, err)
	assert.Equal(t, 412, round.ID, "round ids arrive as integer primary keys")
	assert.Equal(t, 2, round.RoundNumber)
	assert.Equal(t, game.QuestionFastIntro, round.QuestionType)
	assert.Equal(t, 5.0, round.MaxPlaySeconds())

	empty := &Event{Type: EventRoundStarted}
	_, err = empty.Round()
	assert.Error(t, err)
}

func TestEventRoundResults(t *testing.T) {
	ev, err := ParseEvent([]byte(`{
		"type": "round_ended",
		"results": {
			"correct_answer": "Daft Punk",
			"player_scores": {"alice": {"points_earned": 1200, "is_correct": true, "response_time": 3.5}},
			"updated_players": [{"id": 3, "user": 7, "username": "alice", "score": 4200}]
		}
	}`))
	require.NoError(t, err)

	results, err := ev.RoundResults()
	require.NoError(t, err)
	assert.Equal(t, "Daft Punk", results.CorrectAnswer)
	assert.Equal(t, 1200, results.PlayerScores["alice"].PointsEarned)
	require.Len(t, results.UpdatedPlayers, 1)
	assert.Equal(t, 7, results.UpdatedPlayers[0].UserID)
	assert.Equal(t, 4200, results.UpdatedPlayers[0].Score)
}

func TestEventPlayerInfo(t *testing.T) {
	t.Run("player object", func(t *testing.T) {
		ev := &Event{Type: EventPlayerAnswered, Player: []byte(`{"username":"bob","score":100}`)}
		p, err := ev.PlayerInfo()
		require.NoError(t, err)
		assert.Equal(t, "bob", p.Username)
		assert.Equal(t, 100, p.Score)
	})

	t.Run("bare username", func(t *testing.T) {
		ev := &Event{Type: EventPlayerAnswered, Player: []byte(`"carol"`)}
		p, err := ev.PlayerInfo()
		require.NoError(t, err)
		assert.Equal(t, "carol", p.Username)
	})

	t.Run("missing payload", func(t *testing.T) {
		ev := &Event{Type: EventPlayerAnswered}
		_, err := ev.PlayerInfo()
		assert.Error(t, err)
	})
}
