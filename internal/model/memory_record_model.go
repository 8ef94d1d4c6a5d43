package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type MemoryRecord struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;index:idx_memory_triple"`
	CharacterId uuid.UUID `gorm:"type:uuid;not null;index:idx_memory_triple"`
	WorkId      uuid.UUID `gorm:"type:uuid;not null;index:idx_memory_triple"`

	OriginalEvent  string `gorm:"type:text"`
	Interpretation string `gorm:"type:text;not null"`
	MemoryType     string `gorm:"type:varchar(16);not null"`

	Importance float64 `gorm:"not null"`
	Strength   float64 `gorm:"not null"`

	Keywords datatypes.JSON

	// Nil when the embedding provider was unavailable at creation time;
	// stored as NULL so keyword-only records persist.
	Embedding *pgvector.Vector `gorm:"type:vector(768)"`

	MentionedCount  int  `gorm:"default:0"`
	Promoted        bool `gorm:"default:false"`
	LastTouchedTurn int  `gorm:"default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (MemoryRecord) TableName() string {
	return "memory_records"
}
