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

type RoleplaySessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RoleplaySessionMapper
}

func NewRoleplaySessionRepository(db *gorm.DB) contract.RoleplaySessionRepository {
	return &RoleplaySessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewRoleplaySessionMapper(),
	}
}

func (r *RoleplaySessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *RoleplaySessionRepositoryImpl) Create(ctx context.Context, session *entity.RoleplaySession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *RoleplaySessionRepositoryImpl) Update(ctx context.Context, session *entity.RoleplaySession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *RoleplaySessionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.RoleplaySession{}, id).Error
}

func (r *RoleplaySessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RoleplaySession, error) {
	var m model.RoleplaySession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *RoleplaySessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RoleplaySession, error) {
	var models []*model.RoleplaySession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.RoleplaySession, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

// IncrementTurnCount performs the bump and the read in one statement so two
// concurrent exchanges on the same session cannot observe the same count.
func (r *RoleplaySessionRepositoryImpl) IncrementTurnCount(ctx context.Context, sessionId uuid.UUID, delta int) (int, error) {
	var count int
	result := r.db.WithContext(ctx).
		Raw(`UPDATE roleplay_sessions
			SET turn_count = turn_count + ?, updated_at = NOW()
			WHERE id = ? AND deleted_at IS NULL
			RETURNING turn_count`, delta, sessionId).
		Scan(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return count, nil
}
