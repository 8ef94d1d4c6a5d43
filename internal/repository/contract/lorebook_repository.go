package contract

import (
	"context"

	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/internal/repository/specification"

	"github.com/google/uuid"
)

type LorebookRepository interface {
	Create(ctx context.Context, entry *entity.LorebookEntry) error
	Update(ctx context.Context, entry *entity.LorebookEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LorebookEntry, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LorebookEntry, error)
	FindByWorkId(ctx context.Context, workId uuid.UUID) ([]*entity.LorebookEntry, error)
}
