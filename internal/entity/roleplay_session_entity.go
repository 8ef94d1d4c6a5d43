package entity

import (
	"time"

	"github.com/google/uuid"
)

type RoleplaySession struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	WorkId    uuid.UUID
	Title     string
	TurnCount int
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
