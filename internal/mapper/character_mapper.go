package mapper

import (
	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/internal/model"
)

type CharacterMapper struct{}

func NewCharacterMapper() *CharacterMapper {
	return &CharacterMapper{}
}

func (m *CharacterMapper) ToEntity(c *model.Character) *entity.Character {
	if c == nil {
		return nil
	}
	return &entity.Character{
		Id:        c.Id,
		WorkId:    c.WorkId,
		Name:      c.Name,
		Persona:   c.Persona,
		Scenario:  c.Scenario,
		Traits:    c.Traits,
		Greeting:  c.Greeting,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedAtPtr(c.UpdatedAt),
		DeletedAt: deletedAtPtr(c.DeletedAt),
		IsDeleted: c.DeletedAt.Valid,
	}
}

func (m *CharacterMapper) ToModel(c *entity.Character) *model.Character {
	if c == nil {
		return nil
	}
	return &model.Character{
		Id:        c.Id,
		WorkId:    c.WorkId,
		Name:      c.Name,
		Persona:   c.Persona,
		Scenario:  c.Scenario,
		Traits:    c.Traits,
		Greeting:  c.Greeting,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedAtValue(c.UpdatedAt),
		DeletedAt: deletedAtValue(c.DeletedAt, c.IsDeleted),
	}
}

func (m *CharacterMapper) ToEntities(characters []*model.Character) []*entity.Character {
	entities := make([]*entity.Character, len(characters))
	for i, c := range characters {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
