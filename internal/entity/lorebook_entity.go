package entity

import (
	"time"

	"github.com/google/uuid"
)

// LorebookEntry is world/background lore injected into the prompt when its
// gates allow. Lower priority numbers are injected first.
type LorebookEntry struct {
	Id       uuid.UUID
	WorkId   uuid.UUID
	Title    string
	Content  string
	Keywords []string
	Priority int

	// Optional gates; nil means the gate is open.
	MinIntimacy         *float64
	MinTurns            *int
	RequiredCharacterId *uuid.UUID

	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
