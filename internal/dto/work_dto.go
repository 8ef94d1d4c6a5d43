package dto

import (
	"time"

	"ai-roleplay-be/pkg/narrative/relationship"

	"github.com/google/uuid"
)

type CreateWorkRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`

	// RelationshipConfig is optional; absence means the legacy five-axis
	// scheme.
	RelationshipConfig *relationship.Config `json:"relationship_config"`
}

type CreateWorkResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowWorkResponse struct {
	Id                 uuid.UUID            `json:"id"`
	Title              string               `json:"title"`
	Description        string               `json:"description"`
	RelationshipConfig *relationship.Config `json:"relationship_config,omitempty"`
	Characters         []CharacterResponse  `json:"characters"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          *time.Time           `json:"updated_at"`
}

type UpdateRelationshipConfigRequest struct {
	WorkId uuid.UUID
	Config *relationship.Config `json:"config" validate:"required"`
}

type CreateCharacterRequest struct {
	WorkId   uuid.UUID
	Name     string `json:"name" validate:"required"`
	Persona  string `json:"persona"`
	Scenario string `json:"scenario"`
	Traits   string `json:"traits"`
	Greeting string `json:"greeting"`
}

type CharacterResponse struct {
	Id       uuid.UUID `json:"id"`
	WorkId   uuid.UUID `json:"work_id"`
	Name     string    `json:"name"`
	Persona  string    `json:"persona"`
	Scenario string    `json:"scenario"`
	Traits   string    `json:"traits"`
	Greeting string    `json:"greeting"`
}
