package contract

import (
	"context"

	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/internal/repository/specification"

	"github.com/google/uuid"
)

type RoleplaySessionRepository interface {
	Create(ctx context.Context, session *entity.RoleplaySession) error
	Update(ctx context.Context, session *entity.RoleplaySession) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RoleplaySession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RoleplaySession, error)

	// IncrementTurnCount bumps the session turn counter atomically and
	// returns the new value; lifecycle scheduling keys off it.
	IncrementTurnCount(ctx context.Context, sessionId uuid.UUID, delta int) (int, error)
}
