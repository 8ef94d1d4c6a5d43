package entity

import (
	"time"

	"ai-roleplay-be/pkg/narrative/relationship"

	"github.com/google/uuid"
)

type Work struct {
	Id          uuid.UUID
	Title       string
	Description string
	AuthorId    uuid.UUID

	// RelationshipConfig is the per-work axis/level scheme. Nil means the
	// legacy five-axis default applies.
	RelationshipConfig *relationship.Config

	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

// EffectiveRelationshipConfig resolves the scheme this work plays under
func (w *Work) EffectiveRelationshipConfig() relationship.Config {
	if w == nil || w.RelationshipConfig == nil {
		return relationship.DefaultConfig()
	}
	return w.RelationshipConfig.Normalize()
}
