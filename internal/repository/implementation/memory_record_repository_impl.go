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

type MemoryRecordRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MemoryRecordMapper
}

func NewMemoryRecordRepository(db *gorm.DB) contract.MemoryRecordRepository {
	return &MemoryRecordRepositoryImpl{
		db:     db,
		mapper: mapper.NewMemoryRecordMapper(),
	}
}

func (r *MemoryRecordRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MemoryRecordRepositoryImpl) Create(ctx context.Context, record *entity.MemoryRecord) error {
	m := r.mapper.ToModel(record)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.ToEntity(m)
	return nil
}

func (r *MemoryRecordRepositoryImpl) CreateBulk(ctx context.Context, records []*entity.MemoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	models := r.mapper.ToModels(records)
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*records[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *MemoryRecordRepositoryImpl) Save(ctx context.Context, records []*entity.MemoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	models := r.mapper.ToModels(records)
	return r.db.WithContext(ctx).Save(models).Error
}

func (r *MemoryRecordRepositoryImpl) TouchMentions(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.MemoryRecord{}).
		Where("id IN ?", ids).
		Update("mentioned_count", gorm.Expr("mentioned_count + 1")).Error
}

func (r *MemoryRecordRepositoryImpl) DeleteByIds(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.MemoryRecord{}).Error
}

func (r *MemoryRecordRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MemoryRecord, error) {
	var m model.MemoryRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *MemoryRecordRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MemoryRecord, error) {
	var models []*model.MemoryRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *MemoryRecordRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.MemoryRecord{}).Count(&count).Error
	return count, err
}

// SearchSimilar ranks one triple's memories by pgvector cosine similarity.
// Records without an embedding are skipped here; keyword fallback ranking
// happens in the retrieval layer.
func (r *MemoryRecordRepositoryImpl) SearchSimilar(ctx context.Context, userId, characterId, workId uuid.UUID, embedding []float32, limit int, minImportance float64) ([]*contract.ScoredMemoryRecord, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.MemoryRecord
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("memory_records").
		Select("memory_records.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("user_id = ? AND character_id = ? AND work_id = ?", userId, characterId, workId).
		Where("embedding IS NOT NULL").
		Where("importance >= ?", minImportance).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredMemoryRecord, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredMemoryRecord{
			Record:     r.mapper.ToEntity(&res.MemoryRecord),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
