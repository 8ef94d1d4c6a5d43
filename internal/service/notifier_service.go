package service

import (
	"context"
	"strings"

	"ai-roleplay-be/internal/pkg/logger"
	"ai-roleplay-be/pkg/events"
	natspkg "ai-roleplay-be/pkg/nats"

	"github.com/google/uuid"
)

// EventDelivery pushes real-time updates to a user's connected clients.
// Implemented by the websocket hub.
type EventDelivery interface {
	Notify(userID uuid.UUID, eventType string, data map[string]interface{})
}

// NotifierService relays durable bus events back to connected users, so a
// relationship level-up or a promoted memory surfaces in the UI without the
// client polling for it.
type NotifierService struct {
	subscriber *natspkg.Subscriber
	delivery   EventDelivery
	logger     logger.ILogger
}

func NewNotifierService(sub *natspkg.Subscriber, delivery EventDelivery, log logger.ILogger) *NotifierService {
	return &NotifierService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotifierService) Start() {
	err := s.subscriber.Subscribe("events.>", "narrative-notifier", s.handleEvent)
	if err != nil {
		s.logger.Error("NotifierService", "Failed to start event subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotifierService", "Notifier started, listening to events.>", nil)
}

func (s *NotifierService) handleEvent(ctx context.Context, event events.Event) error {
	// NATS subjects carry the stream prefix
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	switch typeCode {
	case events.TypeRelationshipLevelChanged, events.TypeMemoryPromoted:
	default:
		// Exchange completions are answered inline over HTTP
		return nil
	}

	payload := event.Payload()
	userIDStr, _ := payload["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		s.logger.Warn("NotifierService", "Event without a valid user_id, dropping", map[string]interface{}{
			"type": typeCode,
		})
		return nil
	}

	s.delivery.Notify(userID, typeCode, payload)
	return nil
}
