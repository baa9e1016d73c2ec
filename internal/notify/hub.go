package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const hubWriteTimeout = 5 * time.Second

// Message is the JSON payload broadcast to websocket subscribers.
type Message struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sent_at"`
}

// Hub broadcasts alerts to websocket subscribers, so local dashboards can
// follow halts live. It implements both http.Handler (the upgrade endpoint)
// and Notifier (the broadcast side).
type Hub struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu    sync.Mutex
	conns map[string]*websocket.Conn
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			// Local-dashboard endpoint; no cross-origin policy to enforce.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
		conns:  make(map[string]*websocket.Conn),
	}
}

// ServeHTTP upgrades the request and registers the subscriber.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	id := uuid.NewString()
	h.mu.Lock()
	h.conns[id] = conn
	h.mu.Unlock()

	h.logger.Info("websocket subscriber connected",
		"id", id,
		"remote", r.RemoteAddr,
	)

	// Drain (and discard) client frames so pings and closes are processed;
	// unregister when the connection drops.
	go func() {
		defer h.drop(id)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Notify broadcasts the alert to every subscriber, dropping connections
// whose writes fail.
func (h *Hub) Notify(ctx context.Context, title, body string) error {
	payload, err := json.Marshal(Message{
		ID:     uuid.NewString(),
		Title:  title,
		Body:   body,
		SentAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	h.mu.Lock()
	conns := make(map[string]*websocket.Conn, len(h.conns))
	for id, c := range h.conns {
		conns[id] = c
	}
	h.mu.Unlock()

	for id, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(hubWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Warn("websocket write failed, dropping subscriber",
				"id", id,
				"error", err,
			)
			h.drop(id)
		}
	}
	return nil
}

// Close disconnects all subscribers.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.conns {
		conn.Close()
		delete(h.conns, id)
	}
}

// SubscriberCount returns the number of connected subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) drop(id string) {
	h.mu.Lock()
	conn, ok := h.conns[id]
	if ok {
		delete(h.conns, id)
	}
	h.mu.Unlock()
	if ok {
		conn.Close()
	}
}
