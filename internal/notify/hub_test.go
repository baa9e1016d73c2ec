package notify

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialHub(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial hub: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForSubscribers(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.SubscriberCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("SubscriberCount = %d, want %d", hub.SubscriberCount(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()

	server := httptest.NewServer(hub)
	defer server.Close()

	first := dialHub(t, server)
	second := dialHub(t, server)
	waitForSubscribers(t, hub, 2)

	if err := hub.Notify(context.Background(), "HALT: ABC", "Ticker: ABC"); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	for i, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, payload, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("subscriber %d read: %v", i, err)
		}

		var msg Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("subscriber %d decode: %v", i, err)
		}
		if msg.Title != "HALT: ABC" {
			t.Errorf("subscriber %d Title = %q, want HALT: ABC", i, msg.Title)
		}
		if msg.Body != "Ticker: ABC" {
			t.Errorf("subscriber %d Body = %q, want Ticker: ABC", i, msg.Body)
		}
		if msg.ID == "" {
			t.Errorf("subscriber %d message has empty id", i)
		}
	}
}

func TestHubDropsClosedSubscriber(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()

	server := httptest.NewServer(hub)
	defer server.Close()

	conn := dialHub(t, server)
	waitForSubscribers(t, hub, 1)

	conn.Close()
	waitForSubscribers(t, hub, 0)

	// Broadcasting to an empty hub is a no-op, not an error.
	if err := hub.Notify(context.Background(), "t", "b"); err != nil {
		t.Errorf("Notify after disconnect = %v, want nil", err)
	}
}

func TestHubNotifyNoSubscribers(t *testing.T) {
	hub := NewHub(nil)
	if err := hub.Notify(context.Background(), "t", "b"); err != nil {
		t.Errorf("Notify = %v, want nil", err)
	}
}
