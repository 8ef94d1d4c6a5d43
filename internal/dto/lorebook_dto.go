package dto

import (
	"github.com/google/uuid"
)

type CreateLorebookEntryRequest struct {
	WorkId   uuid.UUID
	Title    string   `json:"title" validate:"required"`
	Content  string   `json:"content" validate:"required"`
	Keywords []string `json:"keywords" validate:"required,min=1"`
	Priority int      `json:"priority"`

	// Gates; nil means ungated
	MinIntimacy         *float64   `json:"min_intimacy"`
	MinTurns            *int       `json:"min_turns"`
	RequiredCharacterId *uuid.UUID `json:"required_character_id"`
}

type UpdateLorebookEntryRequest struct {
	Id       uuid.UUID
	Title    string   `json:"title" validate:"required"`
	Content  string   `json:"content" validate:"required"`
	Keywords []string `json:"keywords" validate:"required,min=1"`
	Priority int      `json:"priority"`

	MinIntimacy         *float64   `json:"min_intimacy"`
	MinTurns            *int       `json:"min_turns"`
	RequiredCharacterId *uuid.UUID `json:"required_character_id"`
}

type LorebookEntryResponse struct {
	Id                  uuid.UUID  `json:"id"`
	WorkId              uuid.UUID  `json:"work_id"`
	Title               string     `json:"title"`
	Content             string     `json:"content"`
	Keywords            []string   `json:"keywords"`
	Priority            int        `json:"priority"`
	MinIntimacy         *float64   `json:"min_intimacy,omitempty"`
	MinTurns            *int       `json:"min_turns,omitempty"`
	RequiredCharacterId *uuid.UUID `json:"required_character_id,omitempty"`
}
