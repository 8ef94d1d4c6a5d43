package websocket

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{}) {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error { return nil }

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func (h *Hub) clientCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func TestHubDropsSlowClientWithoutPanic(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	go hub.Run()

	userId := uuid.New()
	sessionId := uuid.New()

	client := &Client{Hub: hub, UserID: userId, Send: make(chan []byte, 1)}
	hub.register <- client
	waitFor(t, "client registration", func() bool { return hub.clientCount(userId) == 1 })

	// Fill the buffer so the next events hit the full-buffer branch. Two
	// sends in a row must drop the client once, not close its channel twice.
	client.Send <- []byte("occupied")
	hub.StreamDone(userId, sessionId, false)
	hub.StreamDone(userId, sessionId, true)

	waitFor(t, "client removal", func() bool { return hub.clientCount(userId) == 0 })

	// The hub closed the Send channel exactly once on unregister; draining
	// must terminate with a closed channel, not hang or panic.
	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-client.Send:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("Send channel never closed after drop")
		}
	}
}

func TestHubDeliversToRegisteredClient(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	go hub.Run()

	userId := uuid.New()
	client := &Client{Hub: hub, UserID: userId, Send: make(chan []byte, 8)}
	hub.register <- client
	waitFor(t, "client registration", func() bool { return hub.clientCount(userId) == 1 })

	hub.Notify(userId, "relationship.level_changed", map[string]interface{}{"level": "friend"})

	select {
	case msg := <-client.Send:
		if len(msg) == 0 {
			t.Fatal("empty event payload")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event never delivered")
	}

	hub.unregister <- client
	waitFor(t, "client removal", func() bool { return hub.clientCount(userId) == 0 })
}
