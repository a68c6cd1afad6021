package relay

import (
	"encoding/json"
	"fmt"

	"github.com/quizbeat/quizbeat/internal/game"
)

// EventType discriminates push events on the room channel.
type EventType string

const (
	EventConnectionEstablished EventType = "connection_established"
	EventPlayerJoined          EventType = "player_joined"
	EventGameStarted           EventType = "game_started"
	EventRoundStarted          EventType = "round_started"
	EventNextRound             EventType = "next_round"
	EventRoundEnded            EventType = "round_ended"
	EventGameFinished          EventType = "game_finished"
	EventPlayerAnswered        EventType = "player_answered"
	EventError                 EventType = "error"
)

// Event is one push message from the room channel. Payload fields are kept
// raw; the typed accessors below decode the ones each event type carries.
type Event struct {
	Type      EventType       `json:"type"`
	Message   string          `json:"message,omitempty"`
	RoundData json.RawMessage `json:"round_data,omitempty"`
	Results   json.RawMessage `json:"results,omitempty"`
	Player    json.RawMessage `json:"player,omitempty"`
	GameData  json.RawMessage `json:"game_data,omitempty"`
	Answer    string          `json:"answer,omitempty"`
}

// ParseEvent decodes a raw channel frame.
func ParseEvent(frame []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(frame, &ev); err != nil {
		return nil, fmt.Errorf("unmarshal event frame: %w", err)
	}
	if ev.Type == "" {
		return nil, fmt.Errorf("event frame missing type discriminator")
	}
	return &ev, nil
}

// Round decodes the round payload of round_started / next_round events.
func (e *Event) Round() (*game.Round, error) {
	if len(e.RoundData) == 0 {
		return nil, fmt.Errorf("%s event has no round_data", e.Type)
	}
	var r game.Round
	if err := json.Unmarshal(e.RoundData, &r); err != nil {
		return nil, fmt.Errorf("unmarshal round_data: %w", err)
	}
	return &r, nil
}

// RoundResults decodes the results payload of round_ended events.
func (e *Event) RoundResults() (*game.RoundResults, error) {
	if len(e.Results) == 0 {
		return nil, fmt.Errorf("%s event has no results", e.Type)
	}
	var res game.RoundResults
	if err := json.Unmarshal(e.Results, &res); err != nil {
		return nil, fmt.Errorf("unmarshal results: %w", err)
	}
	return &res, nil
}

// PlayerInfo decodes the player payload of player_joined / player_answered
// events. The payload may be a bare username or a full player object.
func (e *Event) PlayerInfo() (game.Player, error) {
	if len(e.Player) == 0 {
		return game.Player{}, fmt.Errorf("%s event has no player", e.Type)
	}
	var p game.Player
	if err := json.Unmarshal(e.Player, &p); err == nil {
		return p, nil
	}
	var username string
	if err := json.Unmarshal(e.Player, &username); err != nil {
		return game.Player{}, fmt.Errorf("unmarshal player payload: %w", err)
	}
	return game.Player{Username: username}, nil
}

// AnswerNotice is the outbound presentational notification sent when the
// local player answers. The authoritative submission is the REST call.
type AnswerNotice struct {
	Type         EventType `json:"type"`
	Player       string    `json:"player"`
	Answer       string    `json:"answer"`
	ResponseTime float64   `json:"response_time"`
}

// EventPlayerAnswer is the outbound command tag for AnswerNotice.
const EventPlayerAnswer EventType = "player_answer"
