package server

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/aircursor/internal/app"
)

const clientBuffer = 8

// Telemetry fans frames out to WebSocket and MJPEG subscribers. It is an
// app.FrameObserver; OnFrame never blocks on a slow client.
type Telemetry struct {
	logger *zap.Logger

	mu      sync.Mutex
	sockets map[chan []byte]struct{}
	streams map[chan []byte]struct{}
	closed  bool
}

// NewTelemetry creates an empty Telemetry.
func NewTelemetry(logger *zap.Logger) *Telemetry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Telemetry{
		logger:  logger,
		sockets: make(map[chan []byte]struct{}),
		streams: make(map[chan []byte]struct{}),
	}
}

// OnFrame publishes f as JSON and, when anyone is watching the stream,
// annotated as JPEG.
func (t *Telemetry) OnFrame(f app.Frame, annotated *gocv.Mat) {
	sockets, streams := t.counts()

	if sockets > 0 {
		msg, err := json.Marshal(f)
		if err != nil {
			t.logger.Warn("encode frame", zap.Error(err))
		} else {
			t.publish(t.sockets, msg)
		}
	}

	if streams > 0 && annotated != nil && !annotated.Empty() {
		buf, err := gocv.IMEncode(gocv.JPEGFileExt, *annotated)
		if err != nil {
			t.logger.Warn("encode jpeg", zap.Error(err))
			return
		}
		jpeg := append([]byte(nil), buf.GetBytes()...)
		buf.Close()
		t.publish(t.streams, jpeg)
	}
}

// Clients returns the number of WebSocket and stream subscribers.
func (t *Telemetry) Clients() (sockets, streams int) {
	return t.counts()
}

// Close disconnects every subscriber. Later subscriptions are refused.
func (t *Telemetry) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	for ch := range t.sockets {
		close(ch)
		delete(t.sockets, ch)
	}
	for ch := range t.streams {
		close(ch)
		delete(t.streams, ch)
	}
}

func (t *Telemetry) counts() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sockets), len(t.streams)
}

// subscribe adds a channel to set. ok is false once Close has run.
func (t *Telemetry) subscribe(set map[chan []byte]struct{}, size int) (ch chan []byte, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, false
	}
	ch = make(chan []byte, size)
	set[ch] = struct{}{}
	return ch, true
}

func (t *Telemetry) unsubscribe(set map[chan []byte]struct{}, ch chan []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := set[ch]; ok {
		delete(set, ch)
		close(ch)
	}
}

// publish delivers msg to every channel in set, dropping the oldest queued
// message for subscribers that have fallen behind.
func (t *Telemetry) publish(set map[chan []byte]struct{}, msg []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for ch := range set {
		select {
		case ch <- msg:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- msg:
		default:
		}
	}
}
