package dto

import (
	"ai-roleplay-be/pkg/narrative/turnstream"

	"github.com/google/uuid"
)

type ExchangeRequest struct {
	SessionId uuid.UUID
	Message   string `json:"message" validate:"required"`
}

// TurnPayload is one extracted narrative turn as sent to the client, both in
// the websocket stream and in the final response.
type TurnPayload struct {
	Kind        string     `json:"kind"`
	CharacterId *uuid.UUID `json:"character_id,omitempty"`
	Character   string     `json:"character,omitempty"`
	Text        string     `json:"text"`
	Emotion     string     `json:"emotion,omitempty"`
	Intensity   float64    `json:"intensity,omitempty"`
}

func TurnPayloadFrom(t turnstream.Turn) TurnPayload {
	p := TurnPayload{
		Kind:        string(t.Kind),
		CharacterId: t.CharacterId,
		Character:   t.Character,
		Text:        t.Text,
	}
	if t.Emotion != nil {
		p.Emotion = string(t.Emotion.Primary)
		p.Intensity = t.Emotion.Intensity
	}
	return p
}

type ScenePayload struct {
	Location          string      `json:"location,omitempty"`
	Time              string      `json:"time,omitempty"`
	PresentCharacters []uuid.UUID `json:"present_characters,omitempty"`
	Mood              string      `json:"mood,omitempty"`
	MoodIntensity     float64     `json:"mood_intensity,omitempty"`
	RecentEvents      []string    `json:"recent_events,omitempty"`
}

type ExchangeResponse struct {
	SessionId uuid.UUID     `json:"session_id"`
	TurnCount int           `json:"turn_count"`
	Turns     []TurnPayload `json:"turns"`
	Scene     *ScenePayload `json:"scene,omitempty"`

	// Degraded marks a malformed terminal buffer that was folded into a
	// single narrator turn instead of dropping the exchange.
	Degraded bool `json:"degraded,omitempty"`
}

// PublishLifecycleMessage schedules the background memory maintenance run
// that follows a completed exchange.
type PublishLifecycleMessage struct {
	UserId       uuid.UUID   `json:"user_id"`
	WorkId       uuid.UUID   `json:"work_id"`
	CharacterIds []uuid.UUID `json:"character_ids"`
	TurnCount    int         `json:"turn_count"`
}
