package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Work struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	AuthorId    uuid.UUID `gorm:"type:uuid;index"`

	// RelationshipConfig holds the per-work axis/level scheme as JSON.
	// NULL means the legacy five-axis default.
	RelationshipConfig datatypes.JSON

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Work) TableName() string {
	return "works"
}
