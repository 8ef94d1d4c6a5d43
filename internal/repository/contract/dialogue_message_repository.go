package contract

import (
	"context"

	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredDialogueMessage carries a history message with its cosine similarity
// to a query embedding.
type ScoredDialogueMessage struct {
	Message    *entity.DialogueMessage
	Similarity float64
}

type DialogueMessageRepository interface {
	Create(ctx context.Context, message *entity.DialogueMessage) error
	CreateBulk(ctx context.Context, messages []*entity.DialogueMessage) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DialogueMessage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DialogueMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// SearchSimilar ranks a session's messages by pgvector cosine distance
	// to the query embedding.
	SearchSimilar(ctx context.Context, sessionId uuid.UUID, embedding []float32, limit int) ([]*ScoredDialogueMessage, error)
}
