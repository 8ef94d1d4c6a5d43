package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeExchangeCompleted        = "EXCHANGE_COMPLETED"
	TypeRelationshipLevelChanged = "RELATIONSHIP_LEVEL_CHANGED"
	TypeMemoryPromoted           = "MEMORY_PROMOTED"
)

// NewExchangeCompletedEvent is published after a full exchange is persisted,
// so downstream consumers (analytics, moderation) see finished turns only.
func NewExchangeCompletedEvent(sessionId, userId, workId uuid.UUID, turnCount int) Event {
	return BaseEvent{
		Type: TypeExchangeCompleted,
		Data: map[string]interface{}{
			"session_id": sessionId.String(),
			"user_id":    userId.String(),
			"work_id":    workId.String(),
			"turn_count": turnCount,
		},
		OccurredAt: time.Now(),
	}
}

func NewRelationshipLevelChangedEvent(userId, characterId, workId uuid.UUID, fromLevel, toLevel string) Event {
	return BaseEvent{
		Type: TypeRelationshipLevelChanged,
		Data: map[string]interface{}{
			"user_id":      userId.String(),
			"character_id": characterId.String(),
			"work_id":      workId.String(),
			"from_level":   fromLevel,
			"to_level":     toLevel,
		},
		OccurredAt: time.Now(),
	}
}

func NewMemoryPromotedEvent(userId, characterId, workId, memoryId uuid.UUID) Event {
	return BaseEvent{
		Type: TypeMemoryPromoted,
		Data: map[string]interface{}{
			"user_id":      userId.String(),
			"character_id": characterId.String(),
			"work_id":      workId.String(),
			"memory_id":    memoryId.String(),
		},
		OccurredAt: time.Now(),
	}
}
