package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LorebookEntry struct {
	Id       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkId   uuid.UUID `gorm:"type:uuid;not null;index"`
	Title    string    `gorm:"type:varchar(255)"`
	Content  string    `gorm:"type:text"`
	Keywords datatypes.JSON
	Priority int `gorm:"default:0"`

	MinIntimacy         *float64
	MinTurns            *int
	RequiredCharacterId *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (LorebookEntry) TableName() string {
	return "lorebook_entries"
}
