package mapper

import (
	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/internal/model"
)

type RoleplaySessionMapper struct{}

func NewRoleplaySessionMapper() *RoleplaySessionMapper {
	return &RoleplaySessionMapper{}
}

func (m *RoleplaySessionMapper) ToEntity(s *model.RoleplaySession) *entity.RoleplaySession {
	if s == nil {
		return nil
	}
	return &entity.RoleplaySession{
		Id:        s.Id,
		UserId:    s.UserId,
		WorkId:    s.WorkId,
		Title:     s.Title,
		TurnCount: s.TurnCount,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAtPtr(s.UpdatedAt),
		DeletedAt: deletedAtPtr(s.DeletedAt),
		IsDeleted: s.DeletedAt.Valid,
	}
}

func (m *RoleplaySessionMapper) ToModel(s *entity.RoleplaySession) *model.RoleplaySession {
	if s == nil {
		return nil
	}
	return &model.RoleplaySession{
		Id:        s.Id,
		UserId:    s.UserId,
		WorkId:    s.WorkId,
		Title:     s.Title,
		TurnCount: s.TurnCount,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAtValue(s.UpdatedAt),
		DeletedAt: deletedAtValue(s.DeletedAt, s.IsDeleted),
	}
}

func (m *RoleplaySessionMapper) ToEntities(sessions []*model.RoleplaySession) []*entity.RoleplaySession {
	entities := make([]*entity.RoleplaySession, len(sessions))
	for i, s := range sessions {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
