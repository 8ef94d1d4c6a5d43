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

type RelationshipStateRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RelationshipStateMapper
}

func NewRelationshipStateRepository(db *gorm.DB) contract.RelationshipStateRepository {
	return &RelationshipStateRepositoryImpl{
		db:     db,
		mapper: mapper.NewRelationshipStateMapper(),
	}
}

func (r *RelationshipStateRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *RelationshipStateRepositoryImpl) Create(ctx context.Context, state *entity.RelationshipState) error {
	m := r.mapper.ToModel(state)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*state = *r.mapper.ToEntity(m)
	return nil
}

func (r *RelationshipStateRepositoryImpl) Update(ctx context.Context, state *entity.RelationshipState) error {
	m := r.mapper.ToModel(state)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*state = *r.mapper.ToEntity(m)
	return nil
}

func (r *RelationshipStateRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RelationshipState, error) {
	var m model.RelationshipState
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *RelationshipStateRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RelationshipState, error) {
	var models []*model.RelationshipState
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.RelationshipState, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *RelationshipStateRepositoryImpl) FindByTriple(ctx context.Context, userId, characterId, workId uuid.UUID) (*entity.RelationshipState, error) {
	var m model.RelationshipState
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND character_id = ? AND work_id = ?", userId, characterId, workId).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
