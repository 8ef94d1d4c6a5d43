package entity

import (
	"time"

	"github.com/google/uuid"
)

// DialogueMessage is one persisted message of a roleplay session: either the
// user's input or one narrative turn of the model's response.
type DialogueMessage struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Role      string // "user" | "assistant" | "system"
	Kind      string // narrator | dialogue | system for assistant messages

	CharacterId *uuid.UUID
	Text        string

	Emotion          string
	EmotionIntensity float64

	// TurnIndex is the session-global turn counter value this message landed
	// on; lifecycle scheduling keys off it.
	TurnIndex int

	Embedding []float32

	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
