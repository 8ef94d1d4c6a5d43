package contract

import (
	"context"

	"ai-roleplay-be/internal/entity"

	"github.com/google/uuid"
)

type SceneContextRepository interface {
	// Upsert writes the session's scene snapshot, creating it on first use
	Upsert(ctx context.Context, scene *entity.SceneContext) error
	FindBySessionId(ctx context.Context, sessionId uuid.UUID) (*entity.SceneContext, error)
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
}
