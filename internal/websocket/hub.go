package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"ai-roleplay-be/internal/dto"
	"ai-roleplay-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hub fans streamed narrative events out to a user's connected clients. One
// user can hold several connections (multi-device); with Redis configured,
// events also cross instances through the cluster_events channel.
type Hub struct {
	// Registered clients map: UserID -> List of Clients (multi-device)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fan-out, nil in single-node mode
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// StreamTurn pushes one extracted turn to the user while the model is still
// responding. Implements the exchange service's TurnStreamer.
func (h *Hub) StreamTurn(userID, sessionID uuid.UUID, index int, turn dto.TurnPayload) {
	h.send(userID, map[string]interface{}{
		"type":       "turn",
		"session_id": sessionID,
		"index":      index,
		"turn":       turn,
	})
}

// StreamDone signals the end of a streamed exchange
func (h *Hub) StreamDone(userID, sessionID uuid.UUID, degraded bool) {
	h.send(userID, map[string]interface{}{
		"type":       "done",
		"session_id": sessionID,
		"degraded":   degraded,
	})
}

// Notify pushes an out-of-band event (level changes, memory promotions) to
// the user's connections.
func (h *Hub) Notify(userID uuid.UUID, eventType string, data map[string]interface{}) {
	h.send(userID, map[string]interface{}{
		"type": eventType,
		"data": data,
	})
}

func (h *Hub) send(userID uuid.UUID, event map[string]interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal event", map[string]interface{}{"error": err.Error()})
		return
	}

	// Fan out under the read lock: only the unregister branch in Run may
	// close a Send channel, and only after removing the client from the
	// map under the write lock. Sending to a closed channel is therefore
	// impossible here.
	h.mu.RLock()
	for _, client := range h.clients[userID] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"user_id": userID})
			h.dropClient(client)
		}
	}
	h.mu.RUnlock()

	// Always publish so the user's connections on other instances get it too
	if h.rdb != nil {
		payload := map[string]interface{}{
			"target_user_id": userID.String(),
			"message":        data,
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), "cluster_events", jsonPayload)
	}
}

// subscribeToRedis delivers cluster_events messages to locally connected
// clients. Every instance subscribes; each one forwards only the users it
// holds locally.
func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			TargetUserID string          `json:"target_user_id"`
			Message      json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		uid, err := uuid.Parse(payload.TargetUserID)
		if err != nil {
			continue
		}

		h.mu.RLock()
		for _, client := range h.clients[uid] {
			select {
			case client.Send <- payload.Message:
			default:
				h.dropClient(client)
			}
		}
		h.mu.RUnlock()
	}
}

// dropClient queues an unregister without blocking the caller, which may be
// holding the read lock the Run loop needs. A duplicate unregister for a
// client already removed is a no-op.
func (h *Hub) dropClient(client *Client) {
	go func() {
		h.unregister <- client
	}()
}
