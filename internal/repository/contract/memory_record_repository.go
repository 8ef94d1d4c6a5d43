package contract

import (
	"context"

	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredMemoryRecord carries a memory with its cosine similarity to a query
// embedding, computed by pgvector.
type ScoredMemoryRecord struct {
	Record     *entity.MemoryRecord
	Similarity float64
}

type MemoryRecordRepository interface {
	Create(ctx context.Context, record *entity.MemoryRecord) error
	CreateBulk(ctx context.Context, records []*entity.MemoryRecord) error

	// Save persists mutated records with last-writer-wins semantics at
	// record granularity; lifecycle passes and the create path may touch
	// the same triple nearly concurrently.
	Save(ctx context.Context, records []*entity.MemoryRecord) error

	// TouchMentions bumps mentioned_count in place for the given ids. Rows
	// removed by a concurrent consolidate/prune pass are silently skipped;
	// unlike Save this can never re-insert a deleted record.
	TouchMentions(ctx context.Context, ids []uuid.UUID) error

	DeleteByIds(ctx context.Context, ids []uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MemoryRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MemoryRecord, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// SearchSimilar ranks one character triple's memories by cosine
	// similarity, pre-filtered by a minimum importance.
	SearchSimilar(ctx context.Context, userId, characterId, workId uuid.UUID, embedding []float32, limit int, minImportance float64) ([]*ScoredMemoryRecord, error)
}
