package mapper

import (
	"encoding/json"

	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/internal/model"
)

type LorebookEntryMapper struct{}

func NewLorebookEntryMapper() *LorebookEntryMapper {
	return &LorebookEntryMapper{}
}

func (m *LorebookEntryMapper) ToEntity(e *model.LorebookEntry) *entity.LorebookEntry {
	if e == nil {
		return nil
	}

	var keywords []string
	if len(e.Keywords) > 0 {
		_ = json.Unmarshal(e.Keywords, &keywords)
	}

	return &entity.LorebookEntry{
		Id:                  e.Id,
		WorkId:              e.WorkId,
		Title:               e.Title,
		Content:             e.Content,
		Keywords:            keywords,
		Priority:            e.Priority,
		MinIntimacy:         e.MinIntimacy,
		MinTurns:            e.MinTurns,
		RequiredCharacterId: e.RequiredCharacterId,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           updatedAtPtr(e.UpdatedAt),
		DeletedAt:           deletedAtPtr(e.DeletedAt),
		IsDeleted:           e.DeletedAt.Valid,
	}
}

func (m *LorebookEntryMapper) ToModel(e *entity.LorebookEntry) *model.LorebookEntry {
	if e == nil {
		return nil
	}

	return &model.LorebookEntry{
		Id:                  e.Id,
		WorkId:              e.WorkId,
		Title:               e.Title,
		Content:             e.Content,
		Keywords:            marshalJSON(e.Keywords),
		Priority:            e.Priority,
		MinIntimacy:         e.MinIntimacy,
		MinTurns:            e.MinTurns,
		RequiredCharacterId: e.RequiredCharacterId,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           updatedAtValue(e.UpdatedAt),
		DeletedAt:           deletedAtValue(e.DeletedAt, e.IsDeleted),
	}
}

func (m *LorebookEntryMapper) ToEntities(entries []*model.LorebookEntry) []*entity.LorebookEntry {
	entities := make([]*entity.LorebookEntry, len(entries))
	for i, e := range entries {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
