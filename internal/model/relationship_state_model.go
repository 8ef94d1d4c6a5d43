package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type RelationshipState struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uidx_relationship_triple"`
	CharacterId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uidx_relationship_triple"`
	WorkId      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uidx_relationship_triple"`

	AxisValues        datatypes.JSON
	KnownFacts        datatypes.JSON
	SharedExperiences datatypes.JSON
	EmotionalHistory  datatypes.JSON
	TotalTurns        int `gorm:"default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (RelationshipState) TableName() string {
	return "relationship_states"
}
