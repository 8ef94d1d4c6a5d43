package mapper

import (
	"encoding/json"
	"time"

	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/internal/model"
	"ai-roleplay-be/pkg/narrative/relationship"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WorkMapper struct{}

func NewWorkMapper() *WorkMapper {
	return &WorkMapper{}
}

func (m *WorkMapper) ToEntity(w *model.Work) *entity.Work {
	if w == nil {
		return nil
	}

	var cfg *relationship.Config
	if len(w.RelationshipConfig) > 0 {
		var parsed relationship.Config
		// A corrupt config column falls back to the legacy default rather
		// than surfacing an error into the reading path.
		if err := json.Unmarshal(w.RelationshipConfig, &parsed); err == nil && len(parsed.Axes) > 0 {
			cfg = &parsed
		}
	}

	return &entity.Work{
		Id:                 w.Id,
		Title:              w.Title,
		Description:        w.Description,
		AuthorId:           w.AuthorId,
		RelationshipConfig: cfg,
		CreatedAt:          w.CreatedAt,
		UpdatedAt:          updatedAtPtr(w.UpdatedAt),
		DeletedAt:          deletedAtPtr(w.DeletedAt),
		IsDeleted:          w.DeletedAt.Valid,
	}
}

func (m *WorkMapper) ToModel(w *entity.Work) *model.Work {
	if w == nil {
		return nil
	}

	var cfg datatypes.JSON
	if w.RelationshipConfig != nil {
		if raw, err := json.Marshal(w.RelationshipConfig); err == nil {
			cfg = raw
		}
	}

	return &model.Work{
		Id:                 w.Id,
		Title:              w.Title,
		Description:        w.Description,
		AuthorId:           w.AuthorId,
		RelationshipConfig: cfg,
		CreatedAt:          w.CreatedAt,
		UpdatedAt:          updatedAtValue(w.UpdatedAt),
		DeletedAt:          deletedAtValue(w.DeletedAt, w.IsDeleted),
	}
}

func (m *WorkMapper) ToEntities(works []*model.Work) []*entity.Work {
	entities := make([]*entity.Work, len(works))
	for i, w := range works {
		entities[i] = m.ToEntity(w)
	}
	return entities
}

// Shared helpers for the soft-delete and updated-at columns

// embeddingValue maps an absent embedding to nil so the column stays NULL.
// pgvector rejects the zero-dimension vector a non-nil empty slice would
// produce for a vector(768) column.
func embeddingValue(v []float32) *pgvector.Vector {
	if len(v) == 0 {
		return nil
	}
	vec := pgvector.NewVector(v)
	return &vec
}

func embeddingSlice(v *pgvector.Vector) []float32 {
	if v == nil {
		return nil
	}
	return v.Slice()
}

func updatedAtPtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	out := t
	return &out
}

func updatedAtValue(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func deletedAtPtr(d gorm.DeletedAt) *time.Time {
	if !d.Valid {
		return nil
	}
	out := d.Time
	return &out
}

func deletedAtValue(t *time.Time, isDeleted bool) gorm.DeletedAt {
	if t != nil {
		return gorm.DeletedAt{Time: *t, Valid: true}
	}
	if isDeleted {
		return gorm.DeletedAt{Time: time.Now(), Valid: true}
	}
	return gorm.DeletedAt{}
}
