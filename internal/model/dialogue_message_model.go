package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DialogueMessage struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId uuid.UUID `gorm:"type:uuid;not null;index"`
	Role      string    `gorm:"type:varchar(16);not null"`
	Kind      string    `gorm:"type:varchar(16)"`

	CharacterId *uuid.UUID `gorm:"type:uuid;index"`
	Text        string     `gorm:"type:text"`

	Emotion          string  `gorm:"type:varchar(32)"`
	EmotionIntensity float64 `gorm:"default:0"`

	TurnIndex int `gorm:"default:0;index"`

	// Embedding enables similarity retrieval of older history during
	// context assembly. 768 dims matches the embedding providers in use.
	// Nil (NULL) for messages persisted without one, e.g. greetings or
	// turns saved while the embedding provider was down.
	Embedding *pgvector.Vector `gorm:"type:vector(768)"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (DialogueMessage) TableName() string {
	return "dialogue_messages"
}
