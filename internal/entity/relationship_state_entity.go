package entity

import (
	"time"

	"ai-roleplay-be/pkg/narrative/relationship"
	"ai-roleplay-be/pkg/narrative/turnstream"

	"github.com/google/uuid"
)

// EmotionalEvent is one point of a relationship's emotional trajectory
type EmotionalEvent struct {
	Emotion   string  `json:"emotion"`
	Intensity float64 `json:"intensity"`
	Turn      int     `json:"turn"`
}

// RelationshipState is the durable relationship between a user and one
// character. Axis values are the only stored scoring data; the composite
// score and level are recomputed on every read so they can never go stale.
type RelationshipState struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	CharacterId uuid.UUID
	WorkId      uuid.UUID

	AxisValues        map[string]float64
	KnownFacts        []string
	SharedExperiences []string
	EmotionalHistory  []EmotionalEvent
	TotalTurns        int

	CreatedAt time.Time
	UpdatedAt *time.Time
}

const (
	maxSharedExperiences = 50
	maxEmotionalHistory  = 100
)

// NewRelationshipState seeds a fresh state from the work's axis defaults
func NewRelationshipState(userId, characterId, workId uuid.UUID, cfg relationship.Config) *RelationshipState {
	return &RelationshipState{
		Id:          uuid.New(),
		UserId:      userId,
		CharacterId: characterId,
		WorkId:      workId,
		AxisValues:  relationship.NewState(cfg).AxisValues,
		CreatedAt:   time.Now(),
	}
}

// ApplyDeltas folds axis deltas in, clamped to the configured range
func (r *RelationshipState) ApplyDeltas(deltas map[string]float64, cfg relationship.Config) {
	next := relationship.ApplyDelta(relationship.State{AxisValues: r.AxisValues}, deltas, cfg)
	r.AxisValues = next.AxisValues
}

// Evaluate derives the current composite score and level
func (r *RelationshipState) Evaluate(cfg relationship.Config) (float64, relationship.Level) {
	return relationship.Evaluate(relationship.State{AxisValues: r.AxisValues}, cfg)
}

// AddFact appends a fact, keeping KnownFacts an ordered set
func (r *RelationshipState) AddFact(fact string) {
	if fact == "" {
		return
	}
	for _, f := range r.KnownFacts {
		if f == fact {
			return
		}
	}
	r.KnownFacts = append(r.KnownFacts, fact)
}

// AddExperience appends a shared experience, bounded to the most recent ones
func (r *RelationshipState) AddExperience(experience string) {
	if experience == "" {
		return
	}
	r.SharedExperiences = append(r.SharedExperiences, experience)
	if len(r.SharedExperiences) > maxSharedExperiences {
		r.SharedExperiences = r.SharedExperiences[len(r.SharedExperiences)-maxSharedExperiences:]
	}
}

// RecordEmotion appends an emotional event at the given turn
func (r *RelationshipState) RecordEmotion(emotion turnstream.EmotionState, turn int) {
	r.EmotionalHistory = append(r.EmotionalHistory, EmotionalEvent{
		Emotion:   string(emotion.Primary),
		Intensity: clamp01(emotion.Intensity),
		Turn:      turn,
	})
	if len(r.EmotionalHistory) > maxEmotionalHistory {
		r.EmotionalHistory = r.EmotionalHistory[len(r.EmotionalHistory)-maxEmotionalHistory:]
	}
}
