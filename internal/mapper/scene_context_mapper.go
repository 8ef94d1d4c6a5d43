package mapper

import (
	"encoding/json"

	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/internal/model"

	"github.com/google/uuid"
)

type SceneContextMapper struct{}

func NewSceneContextMapper() *SceneContextMapper {
	return &SceneContextMapper{}
}

func (m *SceneContextMapper) ToEntity(s *model.SceneContext) *entity.SceneContext {
	if s == nil {
		return nil
	}

	var present []uuid.UUID
	if len(s.PresentCharacters) > 0 {
		_ = json.Unmarshal(s.PresentCharacters, &present)
	}
	var recentEvents []string
	if len(s.RecentEvents) > 0 {
		_ = json.Unmarshal(s.RecentEvents, &recentEvents)
	}

	return &entity.SceneContext{
		SessionId:         s.SessionId,
		Location:          s.Location,
		Time:              s.Time,
		PresentCharacters: present,
		Mood:              s.Mood,
		MoodIntensity:     s.MoodIntensity,
		RecentEvents:      recentEvents,
		UpdatedAt:         s.UpdatedAt,
	}
}

func (m *SceneContextMapper) ToModel(s *entity.SceneContext) *model.SceneContext {
	if s == nil {
		return nil
	}

	return &model.SceneContext{
		SessionId:         s.SessionId,
		Location:          s.Location,
		Time:              s.Time,
		PresentCharacters: marshalJSON(s.PresentCharacters),
		Mood:              s.Mood,
		MoodIntensity:     s.MoodIntensity,
		RecentEvents:      marshalJSON(s.RecentEvents),
		UpdatedAt:         s.UpdatedAt,
	}
}
