package relay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSConfig holds timing and sizing for the room WebSocket connection.
type WSConfig struct {
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
}

// DefaultWSConfig returns the connection defaults.
func DefaultWSConfig() WSConfig {
	return WSConfig{
		WriteTimeout:   10 * time.Second,
		ReadTimeout:    60 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 64 * 1024,
	}
}

// WSChannel is the gorilla/websocket-backed Channel for a game room.
// One read pump and one write pump own the connection; callers only see
// the Receive and Send seams.
type WSChannel struct {
	conn    *websocket.Conn
	config  WSConfig
	receive chan []byte
	send    chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

// DialRoom connects to the room's WebSocket endpoint and starts the pumps.
func DialRoom(ctx context.Context, url string, config WSConfig) (*WSChannel, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial room channel: %w", err)
	}

	ch := &WSChannel{
		conn:    conn,
		config:  config,
		receive: make(chan []byte, 64),
		send:    make(chan []byte, 16),
		done:    make(chan struct{}),
	}

	go ch.readPump()
	go ch.writePump()

	log.Info().Str("url", url).Msg("room channel connected")
	return ch, nil
}

// Receive implements Channel.
func (ch *WSChannel) Receive() <-chan []byte { return ch.receive }

// Send implements Channel.
func (ch *WSChannel) Send(ctx context.Context, frame []byte) error {
	select {
	case ch.send <- frame:
		return nil
	case <-ch.done:
		return fmt.Errorf("room channel closed")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close implements Channel. Safe to call more than once.
func (ch *WSChannel) Close() error {
	ch.closeOnce.Do(func() {
		close(ch.done)
		ch.conn.Close()
	})
	return nil
}

func (ch *WSChannel) readPump() {
	defer func() {
		ch.Close()
		close(ch.receive)
	}()

	ch.conn.SetReadLimit(ch.config.MaxMessageSize)
	ch.conn.SetReadDeadline(time.Now().Add(ch.config.ReadTimeout))
	ch.conn.SetPongHandler(func(string) error {
		ch.conn.SetReadDeadline(time.Now().Add(ch.config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := ch.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error().Err(err).Msg("unexpected room channel close")
			}
			return
		}
		select {
		case ch.receive <- message:
		case <-ch.done:
			return
		}
	}
}

func (ch *WSChannel) writePump() {
	ticker := time.NewTicker(ch.config.PingInterval)
	defer func() {
		ticker.Stop()
		ch.Close()
	}()

	for {
		select {
		case <-ch.done:
			ch.conn.SetWriteDeadline(time.Now().Add(ch.config.WriteTimeout))
			ch.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case frame := <-ch.send:
			ch.conn.SetWriteDeadline(time.Now().Add(ch.config.WriteTimeout))
			if err := ch.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Error().Err(err).Msg("failed to write to room channel")
				return
			}

		case <-ticker.C:
			ch.conn.SetWriteDeadline(time.Now().Add(ch.config.WriteTimeout))
			if err := ch.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().Err(err).Msg("failed to ping room channel")
				return
			}
		}
	}
}
