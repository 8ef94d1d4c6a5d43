package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	WorkId uuid.UUID `json:"work_id" validate:"required"`
	Title  string    `json:"title"`
}

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type SessionResponse struct {
	Id        uuid.UUID  `json:"id"`
	WorkId    uuid.UUID  `json:"work_id"`
	Title     string     `json:"title"`
	TurnCount int        `json:"turn_count"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type MessageResponse struct {
	Id               uuid.UUID  `json:"id"`
	Role             string     `json:"role"`
	Kind             string     `json:"kind,omitempty"`
	CharacterId      *uuid.UUID `json:"character_id,omitempty"`
	Text             string     `json:"text"`
	Emotion          string     `json:"emotion,omitempty"`
	EmotionIntensity float64    `json:"emotion_intensity,omitempty"`
	TurnIndex        int        `json:"turn_index"`
	CreatedAt        time.Time  `json:"created_at"`
}

type SessionHistoryResponse struct {
	SessionId uuid.UUID         `json:"session_id"`
	Messages  []MessageResponse `json:"messages"`
}

type RelationshipSnapshotResponse struct {
	CharacterId    uuid.UUID          `json:"character_id"`
	AxisValues     map[string]float64 `json:"axis_values"`
	CompositeScore float64            `json:"composite_score"`
	LevelKey       string             `json:"level_key"`
	LevelLabel     string             `json:"level_label"`
	KnownFacts     []string           `json:"known_facts"`
	TotalTurns     int                `json:"total_turns"`
}
