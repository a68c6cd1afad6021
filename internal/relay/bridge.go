// Package relay adapts the room's push-message channel into the typed
// events the round flow consumes, and carries its outbound commands. No
// game logic lives here beyond type dispatch.
package relay

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/quizbeat/quizbeat/internal/game"
)

// Channel is the transport seam. Framing, reconnect backoff and
// authentication belong to implementations, not to this package.
type Channel interface {
	// Receive delivers raw frames. The channel closes when the transport
	// is done.
	Receive() <-chan []byte
	// Send writes one raw frame.
	Send(ctx context.Context, frame []byte) error
	Close() error
}

// Handler receives the typed events this core consumes. Implementations
// must not block: dispatch is single-threaded in arrival order.
type Handler interface {
	HandleRoundStarted(round *game.Round)
	HandleRoundEnded(results *game.RoundResults)
	HandleGameFinished()
	HandlePlayerAnswered(username, answer string)
}

// Bridge dispatches channel frames to a handler and carries outbound
// notices back over the same channel.
type Bridge struct {
	ch Channel
}

// NewBridge wraps a channel.
func NewBridge(ch Channel) *Bridge {
	return &Bridge{ch: ch}
}

// Run dispatches to the handler until the context is cancelled or the
// channel closes. Unknown event types are logged and skipped, never fatal.
func (b *Bridge) Run(ctx context.Context, handler Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame, ok := <-b.ch.Receive():
			if !ok {
				return fmt.Errorf("relay channel closed")
			}
			b.dispatch(handler, frame)
		}
	}
}

func (b *Bridge) dispatch(handler Handler, frame []byte) {
	ev, err := ParseEvent(frame)
	if err != nil {
		log.Warn().Err(err).Msg("dropping malformed relay frame")
		return
	}

	log.Debug().Str("event_type", string(ev.Type)).Msg("relay event received")

	switch ev.Type {
	case EventRoundStarted, EventNextRound:
		round, err := ev.Round()
		if err != nil {
			log.Warn().Err(err).Str("event_type", string(ev.Type)).Msg("dropping round event without round payload")
			return
		}
		handler.HandleRoundStarted(round)

	case EventRoundEnded:
		results, err := ev.RoundResults()
		if err != nil {
			log.Warn().Err(err).Msg("round_ended without results payload")
			return
		}
		handler.HandleRoundEnded(results)

	case EventGameFinished:
		handler.HandleGameFinished()

	case EventPlayerAnswered:
		player, err := ev.PlayerInfo()
		if err != nil {
			log.Debug().Err(err).Msg("player_answered without usable player payload")
			return
		}
		handler.HandlePlayerAnswered(player.Username, ev.Answer)

	case EventConnectionEstablished, EventPlayerJoined, EventGameStarted:
		// Lobby traffic; the round flow has nothing to do with it.

	case EventError:
		log.Warn().Str("message", ev.Message).Msg("room channel reported an error")

	default:
		log.Warn().Str("event_type", string(ev.Type)).Msg("unknown event type, ignoring")
	}
}

// NotifyAnswer sends the presentational player_answer notification to the
// rest of the room.
func (b *Bridge) NotifyAnswer(ctx context.Context, player, answer string, responseTime float64) error {
	frame, err := json.Marshal(AnswerNotice{
		Type:         EventPlayerAnswer,
		Player:       player,
		Answer:       answer,
		ResponseTime: responseTime,
	})
	if err != nil {
		return fmt.Errorf("marshal answer notice: %w", err)
	}
	return b.ch.Send(ctx, frame)
}
