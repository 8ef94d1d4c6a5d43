package implementation

import (
	"context"
	"errors"

	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/internal/mapper"
	"ai-roleplay-be/internal/model"
	"ai-roleplay-be/internal/repository/contract"
	"ai-roleplay-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DialogueMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DialogueMessageMapper
}

func NewDialogueMessageRepository(db *gorm.DB) contract.DialogueMessageRepository {
	return &DialogueMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewDialogueMessageMapper(),
	}
}

func (r *DialogueMessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DialogueMessageRepositoryImpl) Create(ctx context.Context, message *entity.DialogueMessage) error {
	m := r.mapper.ToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.ToEntity(m)
	return nil
}

func (r *DialogueMessageRepositoryImpl) CreateBulk(ctx context.Context, messages []*entity.DialogueMessage) error {
	if len(messages) == 0 {
		return nil
	}
	models := make([]*model.DialogueMessage, len(messages))
	for i, msg := range messages {
		models[i] = r.mapper.ToModel(msg)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*messages[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *DialogueMessageRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.DialogueMessage{}, id).Error
}

func (r *DialogueMessageRepositoryImpl) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionId).Delete(&model.DialogueMessage{}).Error
}

func (r *DialogueMessageRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DialogueMessage, error) {
	var m model.DialogueMessage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DialogueMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DialogueMessage, error) {
	var models []*model.DialogueMessage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.DialogueMessage, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *DialogueMessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.DialogueMessage{}).Count(&count).Error
	return count, err
}

// SearchSimilar returns a session's messages ordered by cosine similarity to
// the query embedding. Cosine distance in pgvector is 1 - cosine_similarity,
// so 1 - (embedding <=> vector) recovers the similarity.
func (r *DialogueMessageRepositoryImpl) SearchSimilar(ctx context.Context, sessionId uuid.UUID, embedding []float32, limit int) ([]*contract.ScoredDialogueMessage, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.DialogueMessage
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("dialogue_messages").
		Select("dialogue_messages.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("session_id = ?", sessionId).
		Where("embedding IS NOT NULL").
		Where("deleted_at IS NULL").
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredDialogueMessage, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredDialogueMessage{
			Message:    r.mapper.ToEntity(&res.DialogueMessage),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
