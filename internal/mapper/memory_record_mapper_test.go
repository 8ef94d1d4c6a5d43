package mapper

import (
	"testing"
	"time"

	"ai-roleplay-be/internal/entity"

	"github.com/google/uuid"
)

func TestMemoryRecordMapperKeywordOnlyEmbedding(t *testing.T) {
	m := NewMemoryRecordMapper()

	// A record created while the embedding provider was down carries no
	// embedding; it must map to a NULL column, not a zero-dimension vector.
	rec := &entity.MemoryRecord{
		Id:             uuid.New(),
		UserId:         uuid.New(),
		CharacterId:    uuid.New(),
		WorkId:         uuid.New(),
		Interpretation: "the visitor kept their promise",
		MemoryType:     entity.MemoryEvent,
		Importance:     0.7,
		Strength:       1.0,
		Keywords:       []string{"promise", "visitor"},
		CreatedAt:      time.Now(),
	}

	model := m.ToModel(rec)
	if model.Embedding != nil {
		t.Fatalf("keyword-only record mapped to embedding %v, want nil (NULL column)", model.Embedding)
	}

	back := m.ToEntity(model)
	if back.Embedding != nil {
		t.Errorf("round trip produced embedding %v, want nil", back.Embedding)
	}
	if len(back.Keywords) != 2 {
		t.Errorf("keywords lost in round trip: %v", back.Keywords)
	}
}

func TestMemoryRecordMapperEmbeddingRoundTrip(t *testing.T) {
	m := NewMemoryRecordMapper()

	rec := &entity.MemoryRecord{
		Id:             uuid.New(),
		UserId:         uuid.New(),
		CharacterId:    uuid.New(),
		WorkId:         uuid.New(),
		Interpretation: "a shared lantern night",
		MemoryType:     entity.MemoryEvent,
		Importance:     0.5,
		Strength:       1.0,
		Embedding:      []float32{0.1, 0.2, 0.3},
		CreatedAt:      time.Now(),
	}

	model := m.ToModel(rec)
	if model.Embedding == nil {
		t.Fatal("embedding dropped during mapping")
	}

	back := m.ToEntity(model)
	if len(back.Embedding) != 3 {
		t.Fatalf("embedding round trip length = %d, want 3", len(back.Embedding))
	}
	for i, v := range rec.Embedding {
		if back.Embedding[i] != v {
			t.Errorf("embedding[%d] = %v, want %v", i, back.Embedding[i], v)
		}
	}
}
