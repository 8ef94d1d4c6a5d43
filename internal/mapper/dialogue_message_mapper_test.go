package mapper

import (
	"testing"
	"time"

	"ai-roleplay-be/internal/entity"

	"github.com/google/uuid"
)

func TestDialogueMessageMapperWithoutEmbedding(t *testing.T) {
	m := NewDialogueMessageMapper()

	// Greetings and degraded turns are stored without an embedding; the
	// column must be NULL so the insert succeeds.
	characterId := uuid.New()
	msg := &entity.DialogueMessage{
		Id:          uuid.New(),
		SessionId:   uuid.New(),
		Role:        "assistant",
		Kind:        "dialogue",
		CharacterId: &characterId,
		Text:        "Hello there.",
		CreatedAt:   time.Now(),
	}

	model := m.ToModel(msg)
	if model.Embedding != nil {
		t.Fatalf("message without embedding mapped to %v, want nil (NULL column)", model.Embedding)
	}

	back := m.ToEntity(model)
	if back.Embedding != nil {
		t.Errorf("round trip produced embedding %v, want nil", back.Embedding)
	}
	if back.Text != msg.Text {
		t.Errorf("text round trip = %q, want %q", back.Text, msg.Text)
	}
}

func TestDialogueMessageMapperEmbeddingRoundTrip(t *testing.T) {
	m := NewDialogueMessageMapper()

	msg := &entity.DialogueMessage{
		Id:        uuid.New(),
		SessionId: uuid.New(),
		Role:      "user",
		Kind:      "dialogue",
		Text:      "What happened at the shrine?",
		Embedding: []float32{0.4, 0.5},
		CreatedAt: time.Now(),
	}

	model := m.ToModel(msg)
	if model.Embedding == nil {
		t.Fatal("embedding dropped during mapping")
	}

	back := m.ToEntity(model)
	if len(back.Embedding) != 2 || back.Embedding[0] != 0.4 || back.Embedding[1] != 0.5 {
		t.Errorf("embedding round trip = %v, want [0.4 0.5]", back.Embedding)
	}
}
