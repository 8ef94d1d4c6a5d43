package mapper

import (
	"encoding/json"

	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/internal/model"

	"gorm.io/datatypes"
)

type MemoryRecordMapper struct{}

func NewMemoryRecordMapper() *MemoryRecordMapper {
	return &MemoryRecordMapper{}
}

func (m *MemoryRecordMapper) ToEntity(r *model.MemoryRecord) *entity.MemoryRecord {
	if r == nil {
		return nil
	}

	var keywords []string
	if len(r.Keywords) > 0 {
		_ = json.Unmarshal(r.Keywords, &keywords)
	}

	rec := &entity.MemoryRecord{
		Id:              r.Id,
		UserId:          r.UserId,
		CharacterId:     r.CharacterId,
		WorkId:          r.WorkId,
		OriginalEvent:   r.OriginalEvent,
		Interpretation:  r.Interpretation,
		MemoryType:      entity.MemoryType(r.MemoryType),
		Importance:      r.Importance,
		Strength:        r.Strength,
		Keywords:        keywords,
		Embedding:       embeddingSlice(r.Embedding),
		MentionedCount:  r.MentionedCount,
		Promoted:        r.Promoted,
		LastTouchedTurn: r.LastTouchedTurn,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       updatedAtPtr(r.UpdatedAt),
	}
	rec.ClampScores()
	return rec
}

func (m *MemoryRecordMapper) ToModel(r *entity.MemoryRecord) *model.MemoryRecord {
	if r == nil {
		return nil
	}

	var keywords datatypes.JSON
	if len(r.Keywords) > 0 {
		if raw, err := json.Marshal(r.Keywords); err == nil {
			keywords = raw
		}
	}

	return &model.MemoryRecord{
		Id:              r.Id,
		UserId:          r.UserId,
		CharacterId:     r.CharacterId,
		WorkId:          r.WorkId,
		OriginalEvent:   r.OriginalEvent,
		Interpretation:  r.Interpretation,
		MemoryType:      string(r.MemoryType),
		Importance:      r.Importance,
		Strength:        r.Strength,
		Keywords:        keywords,
		Embedding:       embeddingValue(r.Embedding),
		MentionedCount:  r.MentionedCount,
		Promoted:        r.Promoted,
		LastTouchedTurn: r.LastTouchedTurn,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       updatedAtValue(r.UpdatedAt),
	}
}

func (m *MemoryRecordMapper) ToEntities(records []*model.MemoryRecord) []*entity.MemoryRecord {
	entities := make([]*entity.MemoryRecord, len(records))
	for i, r := range records {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

func (m *MemoryRecordMapper) ToModels(records []*entity.MemoryRecord) []*model.MemoryRecord {
	models := make([]*model.MemoryRecord, len(records))
	for i, r := range records {
		models[i] = m.ToModel(r)
	}
	return models
}
