package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/taiwoajasa245/quran-sukoon-api/internal/playback"
	"github.com/taiwoajasa245/quran-sukoon-api/pkg/logging"
)

const subscriberBuffer = 32

type StateReader interface {
	State(ctx context.Context) (playback.State, error)
}

// eventMessage is what subscribers receive: a snapshot on connect, then one
// message per state change.
type eventMessage struct {
	Type   string                `json:"type"`
	State  *playback.State       `json:"state,omitempty"`
	Change *playback.StateChange `json:"change,omitempty"`
}

// EventHub fans playback state changes out to websocket subscribers.
type EventHub struct {
	upgrader websocket.Upgrader
	state    StateReader
	logger   *slog.Logger

	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
}

var _ playback.StateListener = (*EventHub)(nil)

func NewEventHub(state StateReader, logger *slog.Logger) *EventHub {
	return &EventHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		state:       state,
		logger:      logging.NewComponentLogger(logger, "events"),
		subscribers: make(map[*subscriber]struct{}),
	}
}

// OnStateChange runs on the orchestrator loop, so it only enqueues.
func (h *EventHub) OnStateChange(event playback.StateChange) {
	msg, err := json.Marshal(eventMessage{Type: "change", Change: &event})
	if err != nil {
		h.logger.Error("encode state change", slog.Any("error", err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subscribers {
		sub.enqueue(msg)
	}
}

func (h *EventHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	sub := &subscriber{conn: conn, sendCh: make(chan []byte, subscriberBuffer)}
	go sub.loop()

	// Subscribe before the snapshot so no change between the two is lost.
	// The snapshot is answered after any change already enqueued.
	h.add(sub)
	defer func() {
		h.remove(sub)
		_ = sub.close()
	}()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	state, err := h.state.State(ctx)
	cancel()
	if err == nil {
		if msg, err := json.Marshal(eventMessage{Type: "snapshot", State: &state}); err == nil {
			sub.enqueue(msg)
		}
	}

	// Subscribers only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *EventHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Close disconnects every subscriber.
func (h *EventHub) Close() {
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subscribers))
	for sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.subscribers = make(map[*subscriber]struct{})
	h.mu.Unlock()

	for _, sub := range subs {
		_ = sub.close()
	}
}

func (h *EventHub) add(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[sub] = struct{}{}
}

func (h *EventHub) remove(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers, sub)
}

type subscriber struct {
	conn   *websocket.Conn
	sendCh chan []byte
	mu     sync.Mutex
	closed atomic.Bool
}

// enqueue drops the message when the subscriber is not keeping up.
func (s *subscriber) enqueue(msg []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return
	}
	select {
	case s.sendCh <- msg:
	default:
	}
}

func (s *subscriber) loop() {
	for msg := range s.sendCh {
		_ = s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			_ = s.conn.Close()
			return
		}
	}
}

func (s *subscriber) close() error {
	s.mu.Lock()
	if s.closed.CompareAndSwap(false, true) {
		close(s.sendCh)
	}
	s.mu.Unlock()
	return s.conn.Close()
}
