package turnstream

import (
	"strings"

	"github.com/google/uuid"
)

// TurnKind represents the kind of narrative turn
type TurnKind string

const (
	KindNarrator TurnKind = "narrator"
	KindDialogue TurnKind = "dialogue"
	KindSystem   TurnKind = "system"
)

// Emotion is the closed set of emotions the model may report.
// Unknown values from the model are mapped to EmotionNeutral at the parse
// boundary instead of propagating raw strings.
type Emotion string

const (
	EmotionNeutral   Emotion = "neutral"
	EmotionJoy       Emotion = "joy"
	EmotionSadness   Emotion = "sadness"
	EmotionAnger     Emotion = "anger"
	EmotionFear      Emotion = "fear"
	EmotionSurprise  Emotion = "surprise"
	EmotionAffection Emotion = "affection"
	EmotionShame     Emotion = "shame"
)

var knownEmotions = map[Emotion]bool{
	EmotionNeutral:   true,
	EmotionJoy:       true,
	EmotionSadness:   true,
	EmotionAnger:     true,
	EmotionFear:      true,
	EmotionSurprise:  true,
	EmotionAffection: true,
	EmotionShame:     true,
}

// ParseEmotion maps a raw model emotion string to the closed enum.
// Unknown or empty values become EmotionNeutral.
func ParseEmotion(raw string) Emotion {
	e := Emotion(strings.ToLower(strings.TrimSpace(raw)))
	if knownEmotions[e] {
		return e
	}
	return EmotionNeutral
}

// EmotionState pairs an emotion with its intensity (0..1)
type EmotionState struct {
	Primary   Emotion `json:"primary"`
	Intensity float64 `json:"intensity"`
}

// CharacterRef identifies a character known to the session, used to resolve
// the model's free-text "character" field into an ID.
type CharacterRef struct {
	Id   uuid.UUID
	Name string
}

// Turn is one discrete unit of streamed narrative output. Turns are transient:
// they are forwarded to the UI and fed into the memory engine, never persisted
// as-is.
type Turn struct {
	Kind        TurnKind      `json:"kind"`
	CharacterId *uuid.UUID    `json:"character_id,omitempty"`
	Character   string        `json:"character,omitempty"`
	Text        string        `json:"text"`
	Emotion     *EmotionState `json:"emotion,omitempty"`
}

// SceneUpdate is the optional "scene" object the model appends to a complete
// response. Only read on the final parse, never mid-stream.
type SceneUpdate struct {
	Location          string   `json:"location,omitempty"`
	Time              string   `json:"time,omitempty"`
	PresentCharacters []string `json:"present_characters,omitempty"`
	Mood              string   `json:"mood,omitempty"`
	MoodIntensity     float64  `json:"mood_intensity,omitempty"`
	Events            []string `json:"events,omitempty"`
}
