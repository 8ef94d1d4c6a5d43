package mapper

import (
	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/internal/model"
)

type DialogueMessageMapper struct{}

func NewDialogueMessageMapper() *DialogueMessageMapper {
	return &DialogueMessageMapper{}
}

func (m *DialogueMessageMapper) ToEntity(msg *model.DialogueMessage) *entity.DialogueMessage {
	if msg == nil {
		return nil
	}
	return &entity.DialogueMessage{
		Id:               msg.Id,
		SessionId:        msg.SessionId,
		Role:             msg.Role,
		Kind:             msg.Kind,
		CharacterId:      msg.CharacterId,
		Text:             msg.Text,
		Emotion:          msg.Emotion,
		EmotionIntensity: msg.EmotionIntensity,
		TurnIndex:        msg.TurnIndex,
		Embedding:        embeddingSlice(msg.Embedding),
		CreatedAt:        msg.CreatedAt,
		UpdatedAt:        updatedAtPtr(msg.UpdatedAt),
		DeletedAt:        deletedAtPtr(msg.DeletedAt),
		IsDeleted:        msg.DeletedAt.Valid,
	}
}

func (m *DialogueMessageMapper) ToModel(msg *entity.DialogueMessage) *model.DialogueMessage {
	if msg == nil {
		return nil
	}
	return &model.DialogueMessage{
		Id:               msg.Id,
		SessionId:        msg.SessionId,
		Role:             msg.Role,
		Kind:             msg.Kind,
		CharacterId:      msg.CharacterId,
		Text:             msg.Text,
		Emotion:          msg.Emotion,
		EmotionIntensity: msg.EmotionIntensity,
		TurnIndex:        msg.TurnIndex,
		Embedding:        embeddingValue(msg.Embedding),
		CreatedAt:        msg.CreatedAt,
		UpdatedAt:        updatedAtValue(msg.UpdatedAt),
		DeletedAt:        deletedAtValue(msg.DeletedAt, msg.IsDeleted),
	}
}

func (m *DialogueMessageMapper) ToEntities(messages []*model.DialogueMessage) []*entity.DialogueMessage {
	entities := make([]*entity.DialogueMessage, len(messages))
	for i, msg := range messages {
		entities[i] = m.ToEntity(msg)
	}
	return entities
}

func (m *DialogueMessageMapper) ToModels(messages []*entity.DialogueMessage) []*model.DialogueMessage {
	models := make([]*model.DialogueMessage, len(messages))
	for i, msg := range messages {
		models[i] = m.ToModel(msg)
	}
	return models
}
