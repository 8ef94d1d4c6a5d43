package implementation

import (
	"context"
	"errors"

	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/internal/mapper"
	"ai-roleplay-be/internal/model"
	"ai-roleplay-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SceneContextRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SceneContextMapper
}

func NewSceneContextRepository(db *gorm.DB) contract.SceneContextRepository {
	return &SceneContextRepositoryImpl{
		db:     db,
		mapper: mapper.NewSceneContextMapper(),
	}
}

func (r *SceneContextRepositoryImpl) Upsert(ctx context.Context, scene *entity.SceneContext) error {
	m := r.mapper.ToModel(scene)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			UpdateAll: true,
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*scene = *r.mapper.ToEntity(m)
	return nil
}

func (r *SceneContextRepositoryImpl) FindBySessionId(ctx context.Context, sessionId uuid.UUID) (*entity.SceneContext, error) {
	var m model.SceneContext
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionId).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SceneContextRepositoryImpl) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionId).Delete(&model.SceneContext{}).Error
}
