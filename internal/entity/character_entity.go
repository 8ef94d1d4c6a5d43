package entity

import (
	"time"

	"github.com/google/uuid"
)

type Character struct {
	Id        uuid.UUID
	WorkId    uuid.UUID
	Name      string
	Persona   string
	Scenario  string
	Traits    string
	Greeting  string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
