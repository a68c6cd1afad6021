// Package api is the REST client for the game backend. The round flow
// treats these as black-box async operations; the backend stays the source
// of truth for rounds, answers and scores.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/quizbeat/quizbeat/internal/game"
)

// Client calls the game backend for one authenticated player.
type Client struct {
	baseURL   string
	authToken string
	http      *http.Client
}

// NewClient creates a client against the backend base URL.
func NewClient(baseURL, authToken string) *Client {
	return &Client{
		baseURL:   baseURL,
		authToken: authToken,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetTimeout overrides the per-request timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.http.Timeout = timeout
}

// CurrentRoundResponse is the round-fetch payload used on page load and
// reconnect. A nil CurrentRound with a non-empty Message means the game
// is over and the caller must route to the results screen, not error.
type CurrentRoundResponse struct {
	CurrentRound *game.Round `json:"current_round"`
	NextRound    *game.Round `json:"next_round,omitempty"`
	Message      string      `json:"message,omitempty"`
}

// GameFinished reports whether the response marks the game as over.
func (r *CurrentRoundResponse) GameFinished() bool {
	return r.CurrentRound == nil && r.NextRound == nil && r.Message != ""
}

// CurrentRound fetches the active round for a room.
func (c *Client) CurrentRound(ctx context.Context, roomCode string) (*CurrentRoundResponse, error) {
	var resp CurrentRoundResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/games/%s/current-round/", roomCode), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitAnswer sends the authoritative answer submission. The backend
// rejects a second submission for the same round; callers suppress
// duplicates locally before ever reaching here.
func (c *Client) SubmitAnswer(ctx context.Context, roomCode string, sub game.AnswerSubmission) (*game.AnswerResult, error) {
	var result game.AnswerResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/games/%s/answer/", roomCode), sub, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// EndRound asks the server to end the current round. Host only.
func (c *Client) EndRound(ctx context.Context, roomCode string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/games/%s/end-round/", roomCode), nil, nil)
}

// NextRound advances the game to the next round. Host only.
func (c *Client) NextRound(ctx context.Context, roomCode string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/games/%s/next-round/", roomCode), nil, nil)
}

// Game fetches the game session for a room.
func (c *Client) Game(ctx context.Context, roomCode string) (*game.Game, error) {
	var g game.Game
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/games/%s/", roomCode), nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: status %d: %s", method, endpoint, resp.StatusCode, string(responseBody))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
