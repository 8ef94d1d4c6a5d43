package turnstream

import (
	"encoding/json"
	"strings"
)

// ExtractResult contains the turns completed since the previous call
type ExtractResult struct {
	NewTurns         []Turn
	TotalObjectCount int
}

// rawTurn is the wire shape of one element of the model's "turns" array
type rawTurn struct {
	Type      string   `json:"type"`
	Character string   `json:"character"`
	Content   string   `json:"content"`
	Emotion   string   `json:"emotion"`
	Intensity *float64 `json:"intensity"`
}

// rawResponse is the wire shape of the complete model response
type rawResponse struct {
	Turns []rawTurn    `json:"turns"`
	Scene *SceneUpdate `json:"scene"`
}

// ExtractNewTurns scans a monotonically growing stream buffer for structurally
// complete turn objects inside the top-level "turns" array and returns the ones
// not yet emitted. The buffer may stop mid-string, mid-object or mid-array;
// absence of new complete turns is a valid, silent result.
//
// The function is pure: callers own previouslyEmitted between calls, so it can
// be invoked repeatedly with ever-longer buffers without re-emitting a turn.
func ExtractNewTurns(buffer string, previouslyEmitted int, known []CharacterRef) ExtractResult {
	result := ExtractResult{}

	arrayStart := findTurnsArray(buffer)
	if arrayStart < 0 {
		return result
	}

	depth := 0
	inString := false
	escaped := false
	objectStart := -1

	for i := arrayStart; i < len(buffer); i++ {
		ch := buffer[i]

		if inString {
			// Absorb two-character escapes so an escaped quote or brace
			// inside content never affects depth or string state.
			if escaped {
				escaped = false
				continue
			}
			switch ch {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				objectStart = i
			}
			depth++
		case '}':
			depth--
			if depth == 0 && objectStart >= 0 {
				candidate := buffer[objectStart : i+1]
				var raw rawTurn
				if err := json.Unmarshal([]byte(candidate), &raw); err != nil {
					// Balanced braces but still unparseable: treat as
					// incomplete and wait for more buffer.
					return result
				}
				result.TotalObjectCount++
				if result.TotalObjectCount > previouslyEmitted {
					result.NewTurns = append(result.NewTurns, decodeTurn(raw, known))
				}
				objectStart = -1
			}
		case ']':
			if depth == 0 {
				// turns array closed; anything after it is scene payload
				return result
			}
		}
	}

	return result
}

// FinalResult is the outcome of parsing a terminated stream buffer
type FinalResult struct {
	Turns []Turn
	Scene *SceneUpdate

	// Degraded is set when the finished buffer never resolved to valid JSON
	// and the whole text was folded into a single narrator turn.
	Degraded bool
}

// FinalizeBuffer parses the complete buffer once the stream has ended. A buffer
// that still fails to parse is recovered by treating the entire text as one
// narrator turn rather than losing the exchange.
func FinalizeBuffer(buffer string, known []CharacterRef) FinalResult {
	var raw rawResponse
	if err := json.Unmarshal([]byte(buffer), &raw); err == nil && raw.Turns != nil {
		turns := make([]Turn, 0, len(raw.Turns))
		for _, rt := range raw.Turns {
			turns = append(turns, decodeTurn(rt, known))
		}
		return FinalResult{Turns: turns, Scene: raw.Scene}
	}

	text := strings.TrimSpace(buffer)
	if text == "" {
		return FinalResult{Degraded: true}
	}
	return FinalResult{
		Turns:    []Turn{{Kind: KindNarrator, Text: text}},
		Degraded: true,
	}
}

// findTurnsArray locates the opening bracket of the "turns" array, returning
// the index just past '[' or -1 if the stream has not reached it yet.
func findTurnsArray(buffer string) int {
	keyIdx := strings.Index(buffer, `"turns"`)
	if keyIdx < 0 {
		return -1
	}
	rest := buffer[keyIdx+len(`"turns"`):]
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '[':
			return keyIdx + len(`"turns"`) + i + 1
		case ':', ' ', '\t', '\n', '\r':
			continue
		default:
			return -1
		}
	}
	return -1
}

func decodeTurn(raw rawTurn, known []CharacterRef) Turn {
	turn := Turn{
		Kind:      decodeKind(raw),
		Character: raw.Character,
		Text:      raw.Content,
	}

	if raw.Character != "" {
		if ref, ok := MatchCharacter(raw.Character, known); ok {
			id := ref.Id
			turn.CharacterId = &id
		}
	}

	if raw.Emotion != "" || raw.Intensity != nil {
		intensity := 0.5
		if raw.Intensity != nil {
			intensity = clamp01(*raw.Intensity)
		}
		turn.Emotion = &EmotionState{
			Primary:   ParseEmotion(raw.Emotion),
			Intensity: intensity,
		}
	}

	return turn
}

func decodeKind(raw rawTurn) TurnKind {
	switch strings.ToLower(raw.Type) {
	case "dialogue":
		return KindDialogue
	case "system":
		return KindSystem
	case "narrator", "narration":
		return KindNarrator
	}
	// Models occasionally omit the type on dialogue turns
	if raw.Character != "" {
		return KindDialogue
	}
	return KindNarrator
}

// MatchCharacter resolves a model-reported character name against the known
// character list. Matching is case-insensitive, exact match first, then
// substring in either direction. No match leaves the turn unattributed.
func MatchCharacter(name string, known []CharacterRef) (CharacterRef, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return CharacterRef{}, false
	}

	for _, ref := range known {
		if strings.ToLower(ref.Name) == needle {
			return ref, true
		}
	}
	for _, ref := range known {
		haystack := strings.ToLower(ref.Name)
		if strings.Contains(haystack, needle) || strings.Contains(needle, haystack) {
			return ref, true
		}
	}
	return CharacterRef{}, false
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
