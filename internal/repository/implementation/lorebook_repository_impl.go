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
	"gorm.io/gorm"
)

type LorebookRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LorebookEntryMapper
}

func NewLorebookRepository(db *gorm.DB) contract.LorebookRepository {
	return &LorebookRepositoryImpl{
		db:     db,
		mapper: mapper.NewLorebookEntryMapper(),
	}
}

func (r *LorebookRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *LorebookRepositoryImpl) Create(ctx context.Context, entry *entity.LorebookEntry) error {
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *LorebookRepositoryImpl) Update(ctx context.Context, entry *entity.LorebookEntry) error {
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *LorebookRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.LorebookEntry{}, id).Error
}

func (r *LorebookRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LorebookEntry, error) {
	var m model.LorebookEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *LorebookRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LorebookEntry, error) {
	var models []*model.LorebookEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.LorebookEntry, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *LorebookRepositoryImpl) FindByWorkId(ctx context.Context, workId uuid.UUID) ([]*entity.LorebookEntry, error) {
	var models []*model.LorebookEntry
	err := r.db.WithContext(ctx).
		Where("work_id = ?", workId).
		Order("priority ASC, created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.LorebookEntry, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
