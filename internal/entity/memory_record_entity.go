package entity

import (
	"time"

	"github.com/google/uuid"
)

type MemoryType string

const (
	MemoryFact       MemoryType = "fact"
	MemoryEmotional  MemoryType = "emotional"
	MemoryRelational MemoryType = "relational"
	MemoryEvent      MemoryType = "event"
)

// MemoryRecord is one remembered event for a (user, character, work) triple.
// Importance is fixed at creation and reflects narrative salience; Strength
// decays over turns and reflects recall likelihood.
type MemoryRecord struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	CharacterId uuid.UUID
	WorkId      uuid.UUID

	OriginalEvent string
	// Interpretation is the character's subjective reading of the event.
	// It must exist even when OriginalEvent is absent.
	Interpretation string
	MemoryType     MemoryType

	Importance float64
	Strength   float64
	Keywords   []string
	Embedding  []float32

	MentionedCount  int
	Promoted        bool
	LastTouchedTurn int

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// ClampScores forces importance and strength back into [0,1]. Every mutation
// path runs through this so the invariant holds after decay, consolidation
// and manual edits alike.
func (m *MemoryRecord) ClampScores() {
	m.Importance = clamp01(m.Importance)
	m.Strength = clamp01(m.Strength)
}

// Touch records a retrieval mention at the given turn
func (m *MemoryRecord) Touch(turn int) {
	m.MentionedCount++
	if turn > m.LastTouchedTurn {
		m.LastTouchedTurn = turn
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
