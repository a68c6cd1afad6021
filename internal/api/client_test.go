package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizbeat/quizbeat/internal/game"
)

func TestCurrentRound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/games/ABCD/current-round/", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"current_round": map[string]any{
				"id":            412,
				"round_number":  4,
				"question_type": "guess_artist",
				"duration":      30,
				"started_at":    "2026-03-14T15:09:26Z",
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok-1")
	resp, err := client.CurrentRound(context.Background(), "ABCD")
	require.NoError(t, err)

	assert.False(t, resp.GameFinished())
	require.NotNil(t, resp.CurrentRound)
	assert.Equal(t, 412, resp.CurrentRound.ID)
	assert.Equal(t, 4, resp.CurrentRound.RoundNumber)
	assert.Equal(t, game.QuestionGuessArtist, resp.CurrentRound.QuestionType)
}

func TestCurrentRoundGameOver(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"message": "Game is finished"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	resp, err := client.CurrentRound(context.Background(), "ABCD")
	require.NoError(t, err, "a finished game is a routing outcome, not an error")
	assert.True(t, resp.GameFinished())
	assert.Nil(t, resp.CurrentRound)
}

func TestSubmitAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/games/ABCD/answer/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var sub game.AnswerSubmission
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sub))
		assert.Equal(t, "Daft Punk", sub.Answer)
		assert.InDelta(t, 4.2, sub.ResponseTime, 1e-9)

		json.NewEncoder(w).Encode(game.AnswerResult{
			Answer:       sub.Answer,
			IsCorrect:    true,
			PointsEarned: 1360,
			ResponseTime: sub.ResponseTime,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok-1")
	result, err := client.SubmitAnswer(context.Background(), "ABCD", game.AnswerSubmission{
		Answer:       "Daft Punk",
		ResponseTime: 4.2,
	})
	require.NoError(t, err)
	assert.True(t, result.IsCorrect)
	assert.Equal(t, 1360, result.PointsEarned)
}

func TestHostMutations(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	require.NoError(t, client.EndRound(context.Background(), "ABCD"))
	require.NoError(t, client.NextRound(context.Background(), "ABCD"))

	assert.Equal(t, []string{
		"POST /api/games/ABCD/end-round/",
		"POST /api/games/ABCD/next-round/",
	}, paths)
}

func TestErrorStatusIncludesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail":"Only the host can end a round"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	err := client.EndRound(context.Background(), "ABCD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
	assert.Contains(t, err.Error(), "Only the host")
}

func TestGame(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/games/ABCD/", r.URL.Path)
		// Shaped like the backend serializer: ids are integer pks.
		w.Write([]byte(`{
			"id": 31,
			"room_code": "ABCD",
			"host": 7,
			"mode": "classique",
			"status": "in_progress",
			"round_duration": 30,
			"timer_start_round": 5,
			"score_display_duration": 10
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	g, err := client.Game(context.Background(), "ABCD")
	require.NoError(t, err)
	assert.Equal(t, 31, g.ID)
	assert.Equal(t, 7, g.Host)
	assert.Equal(t, game.ModeClassic, g.Mode)
	assert.Equal(t, 30, g.RoundDuration)
}
