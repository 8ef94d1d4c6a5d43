package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SceneContext struct {
	SessionId uuid.UUID `gorm:"type:uuid;primaryKey"`

	Location          string `gorm:"type:varchar(255)"`
	Time              string `gorm:"type:varchar(128)"`
	PresentCharacters datatypes.JSON
	Mood              string  `gorm:"type:varchar(64)"`
	MoodIntensity     float64 `gorm:"default:0"`
	RecentEvents      datatypes.JSON

	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (SceneContext) TableName() string {
	return "scene_contexts"
}
