package media

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// HeadlessElement simulates a media surface with a clock-driven playhead
// and no audio output. The terminal client uses it so the timing core can
// run without a browser; a browser embedder supplies a real element.
type HeadlessElement struct {
	clock clockwork.Clock

	ready chan struct{}
	errs  chan error

	mu        sync.Mutex
	playing   bool
	base      float64
	playStart time.Time
	volume    float64
	closed    bool
}

// NewHeadlessElement creates an element that reports ready as soon as a
// source is loaded and advances its playhead with the given clock.
func NewHeadlessElement(clock clockwork.Clock) *HeadlessElement {
	return &HeadlessElement{
		clock:  clock,
		ready:  make(chan struct{}, 1),
		errs:   make(chan error, 1),
		volume: 1,
	}
}

func (h *HeadlessElement) Load(sourceURL string) {
	select {
	case h.ready <- struct{}{}:
	default:
	}
}

func (h *HeadlessElement) Ready() <-chan struct{} { return h.ready }
func (h *HeadlessElement) Errors() <-chan error   { return h.errs }

func (h *HeadlessElement) Play(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return context.Canceled
	}
	h.playing = true
	h.playStart = h.clock.Now()
	return nil
}

func (h *HeadlessElement) Pause() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.settlePosition()
	h.playing = false
}

func (h *HeadlessElement) Seek(offsetSeconds float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.base = offsetSeconds
	h.playStart = h.clock.Now()
}

func (h *HeadlessElement) Position() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.playing {
		return h.base
	}
	return h.base + h.clock.Now().Sub(h.playStart).Seconds()
}

func (h *HeadlessElement) SetVolume(level float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.volume = level
}

func (h *HeadlessElement) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.settlePosition()
	h.playing = false
	h.closed = true
}

// settlePosition folds elapsed play time into base. Callers hold mu.
func (h *HeadlessElement) settlePosition() {
	if h.playing {
		h.base += h.clock.Now().Sub(h.playStart).Seconds()
	}
}
