package memorylife

import (
	"strings"
	"time"

	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/pkg/narrative/turnstream"

	"github.com/google/uuid"
)

// CreateInput describes one candidate memory extracted from an exchange
type CreateInput struct {
	UserId      uuid.UUID
	CharacterId uuid.UUID
	WorkId      uuid.UUID

	Turn  turnstream.Turn
	Facts []string

	// Flagged lets the caller force creation for turns it knows matter
	// (e.g. an explicit scene event reported by the model).
	Flagged bool

	CurrentTurn int
}

// HasNarrativeWeight decides whether a dialogue turn is worth remembering:
// emotionally charged, fact-carrying, or explicitly flagged by the caller.
func HasNarrativeWeight(in CreateInput) bool {
	if in.Flagged || len(in.Facts) > 0 {
		return true
	}
	if in.Turn.Emotion != nil && in.Turn.Emotion.Primary != turnstream.EmotionNeutral && in.Turn.Emotion.Intensity >= 0.4 {
		return true
	}
	return false
}

// NewRecord builds a MemoryRecord for a turn that carries narrative weight.
// Strength always starts at 1.0; importance is seeded from emotion intensity
// and fact salience. The embedding is filled by the caller — an embedding
// failure degrades to a keyword-only record, it never blocks creation.
func NewRecord(in CreateInput) *entity.MemoryRecord {
	record := &entity.MemoryRecord{
		Id:              uuid.New(),
		UserId:          in.UserId,
		CharacterId:     in.CharacterId,
		WorkId:          in.WorkId,
		OriginalEvent:   in.Turn.Text,
		Interpretation:  interpret(in),
		MemoryType:      classify(in),
		Importance:      seedImportance(in),
		Strength:        1.0,
		Keywords:        extractKeywords(in),
		LastTouchedTurn: in.CurrentTurn,
		CreatedAt:       time.Now(),
	}
	record.ClampScores()
	return record
}

func classify(in CreateInput) entity.MemoryType {
	if len(in.Facts) > 0 {
		return entity.MemoryFact
	}
	if in.Turn.Emotion != nil && in.Turn.Emotion.Intensity >= 0.7 {
		return entity.MemoryEmotional
	}
	return entity.MemoryEvent
}

func seedImportance(in CreateInput) float64 {
	importance := 0.3
	if in.Turn.Emotion != nil {
		importance += in.Turn.Emotion.Intensity * 0.4
	}
	if len(in.Facts) > 0 {
		importance += 0.2
	}
	if in.Flagged {
		importance += 0.1
	}
	return importance
}

// interpret produces the character's subjective reading of the event. The
// interpretation must exist even when the original text is empty.
func interpret(in CreateInput) string {
	var parts []string
	if in.Turn.Emotion != nil && in.Turn.Emotion.Primary != turnstream.EmotionNeutral {
		parts = append(parts, "felt "+string(in.Turn.Emotion.Primary))
	}
	if text := strings.TrimSpace(in.Turn.Text); text != "" {
		parts = append(parts, text)
	}
	for _, fact := range in.Facts {
		parts = append(parts, "learned: "+fact)
	}
	if len(parts) == 0 {
		return "an unremarkable moment passed"
	}
	return strings.Join(parts, "; ")
}

var stopwords = map[string]bool{
	"the": true, "and": true, "that": true, "with": true, "this": true,
	"for": true, "was": true, "are": true, "you": true, "your": true,
	"but": true, "not": true, "have": true, "had": true, "has": true,
	"she": true, "him": true, "her": true, "his": true, "they": true,
}

// extractKeywords pulls simple lowercase keywords from the turn text and
// facts. Crude, but enough for keyword-overlap consolidation and the
// keyword-only degraded path when embeddings are unavailable.
func extractKeywords(in CreateInput) []string {
	seen := make(map[string]bool)
	var keywords []string

	add := func(text string) {
		for _, word := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
		}) {
			if len(word) < 4 || stopwords[word] || seen[word] {
				continue
			}
			seen[word] = true
			keywords = append(keywords, word)
		}
	}

	add(in.Turn.Text)
	for _, fact := range in.Facts {
		add(fact)
	}
	return keywords
}
