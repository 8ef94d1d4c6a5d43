package mapper

import (
	"encoding/json"

	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/internal/model"

	"gorm.io/datatypes"
)

type RelationshipStateMapper struct{}

func NewRelationshipStateMapper() *RelationshipStateMapper {
	return &RelationshipStateMapper{}
}

func (m *RelationshipStateMapper) ToEntity(r *model.RelationshipState) *entity.RelationshipState {
	if r == nil {
		return nil
	}

	axisValues := make(map[string]float64)
	if len(r.AxisValues) > 0 {
		_ = json.Unmarshal(r.AxisValues, &axisValues)
	}
	var knownFacts, sharedExperiences []string
	if len(r.KnownFacts) > 0 {
		_ = json.Unmarshal(r.KnownFacts, &knownFacts)
	}
	if len(r.SharedExperiences) > 0 {
		_ = json.Unmarshal(r.SharedExperiences, &sharedExperiences)
	}
	var emotionalHistory []entity.EmotionalEvent
	if len(r.EmotionalHistory) > 0 {
		_ = json.Unmarshal(r.EmotionalHistory, &emotionalHistory)
	}

	return &entity.RelationshipState{
		Id:                r.Id,
		UserId:            r.UserId,
		CharacterId:       r.CharacterId,
		WorkId:            r.WorkId,
		AxisValues:        axisValues,
		KnownFacts:        knownFacts,
		SharedExperiences: sharedExperiences,
		EmotionalHistory:  emotionalHistory,
		TotalTurns:        r.TotalTurns,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         updatedAtPtr(r.UpdatedAt),
	}
}

func (m *RelationshipStateMapper) ToModel(r *entity.RelationshipState) *model.RelationshipState {
	if r == nil {
		return nil
	}

	return &model.RelationshipState{
		Id:                r.Id,
		UserId:            r.UserId,
		CharacterId:       r.CharacterId,
		WorkId:            r.WorkId,
		AxisValues:        marshalJSON(r.AxisValues),
		KnownFacts:        marshalJSON(r.KnownFacts),
		SharedExperiences: marshalJSON(r.SharedExperiences),
		EmotionalHistory:  marshalJSON(r.EmotionalHistory),
		TotalTurns:        r.TotalTurns,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         updatedAtValue(r.UpdatedAt),
	}
}

func marshalJSON(v interface{}) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}
