package contract

import (
	"context"

	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/internal/repository/specification"

	"github.com/google/uuid"
)

type RelationshipStateRepository interface {
	Create(ctx context.Context, state *entity.RelationshipState) error
	Update(ctx context.Context, state *entity.RelationshipState) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RelationshipState, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RelationshipState, error)
	FindByTriple(ctx context.Context, userId, characterId, workId uuid.UUID) (*entity.RelationshipState, error)
}
