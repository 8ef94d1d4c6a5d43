package turnstream

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestExtractNewTurnsStreaming(t *testing.T) {
	full := `{"turns": [` +
		`{"type":"narrator","content":"The rain kept falling."},` +
		`{"type":"dialogue","character":"Alice","content":"You came back.","emotion":"surprise","intensity":0.8},` +
		`{"type":"dialogue","character":"Bren","content":"I always do.","emotion":"affection","intensity":0.6}` +
		`], "scene": {"location":"harbor","mood":"tense"}}`

	known := []CharacterRef{
		{Id: uuid.New(), Name: "Alice"},
		{Id: uuid.New(), Name: "Bren"},
	}

	// Feed every prefix length and accumulate; result must equal a single
	// parse of the full buffer.
	emitted := 0
	var collected []Turn
	for end := 1; end <= len(full); end++ {
		res := ExtractNewTurns(full[:end], emitted, known)
		collected = append(collected, res.NewTurns...)
		if res.TotalObjectCount > emitted {
			emitted = res.TotalObjectCount
		}
	}

	if len(collected) != 3 {
		t.Fatalf("collected %d turns, want 3", len(collected))
	}
	if collected[0].Kind != KindNarrator || collected[0].Text != "The rain kept falling." {
		t.Errorf("turn 0 = %+v", collected[0])
	}
	if collected[1].Character != "Alice" || collected[1].CharacterId == nil {
		t.Errorf("turn 1 not attributed: %+v", collected[1])
	}
	if collected[1].Emotion == nil || collected[1].Emotion.Primary != EmotionSurprise {
		t.Errorf("turn 1 emotion = %+v", collected[1].Emotion)
	}
	if collected[2].Text != "I always do." {
		t.Errorf("turn 2 text = %q", collected[2].Text)
	}
}

func TestExtractNewTurnsThreeChunkScenario(t *testing.T) {
	chunk1 := `{"turns": [{"type":"narrator","content":"A`
	chunk2 := chunk1 + `B","emotion":"neutral"}]}`

	res := ExtractNewTurns(chunk1, 0, nil)
	if len(res.NewTurns) != 0 || res.TotalObjectCount != 0 {
		t.Fatalf("incomplete chunk emitted turns: %+v", res)
	}

	res = ExtractNewTurns(chunk2, 0, nil)
	if len(res.NewTurns) != 1 {
		t.Fatalf("want exactly one turn, got %d", len(res.NewTurns))
	}
	if res.NewTurns[0].Text != "AB" {
		t.Errorf("content = %q, want %q", res.NewTurns[0].Text, "AB")
	}

	// Nothing more arrives; re-calling with the same buffer and the updated
	// counter must not re-emit.
	res = ExtractNewTurns(chunk2, 1, nil)
	if len(res.NewTurns) != 0 {
		t.Errorf("re-emitted already-counted turn")
	}
}

func TestExtractNewTurnsEscapesAndBraces(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"embedded braces", `He drew {a map} on the table`},
		{"escaped quotes", `She said \"run\" and ran`},
		{"escaped backslash", `a\\b`},
		{"brace after escaped quote", `\"{\" is not structure`},
		{"newline escape", `line one\nline two`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buffer := `{"turns": [{"type":"narrator","content":"` + tt.content + `"}]}`

			res := ExtractNewTurns(buffer, 0, nil)
			if len(res.NewTurns) != 1 {
				t.Fatalf("got %d turns, want 1", len(res.NewTurns))
			}

			// The emitted text must match what a plain JSON decode yields.
			var want struct {
				Turns []struct {
					Content string `json:"content"`
				} `json:"turns"`
			}
			if err := json.Unmarshal([]byte(buffer), &want); err != nil {
				t.Fatalf("reference decode failed: %v", err)
			}
			if res.NewTurns[0].Text != want.Turns[0].Content {
				t.Errorf("text = %q, want %q", res.NewTurns[0].Text, want.Turns[0].Content)
			}

			// Streaming prefix-wise must also emit exactly once, never a
			// corrupted partial.
			emitted := 0
			count := 0
			for end := 1; end <= len(buffer); end++ {
				r := ExtractNewTurns(buffer[:end], emitted, nil)
				count += len(r.NewTurns)
				if r.TotalObjectCount > emitted {
					emitted = r.TotalObjectCount
				}
			}
			if count != 1 {
				t.Errorf("streaming emitted %d turns, want 1", count)
			}
		})
	}
}

func TestExtractNewTurnsCompleteObjectsWithoutArrayClose(t *testing.T) {
	// Array never closes, trailing comma present: the complete object must
	// still be emitted.
	buffer := `{"turns": [{"type":"narrator","content":"done"},`
	res := ExtractNewTurns(buffer, 0, nil)
	if len(res.NewTurns) != 1 || res.TotalObjectCount != 1 {
		t.Fatalf("got %+v, want one complete turn", res)
	}
}

func TestExtractNewTurnsNoTurnsKeyYet(t *testing.T) {
	for _, buffer := range []string{"", "{", `{"tur`, `{"turns"`, `{"turns": `} {
		res := ExtractNewTurns(buffer, 0, nil)
		if len(res.NewTurns) != 0 {
			t.Errorf("buffer %q emitted turns", buffer)
		}
	}
}

func TestMatchCharacter(t *testing.T) {
	alice := CharacterRef{Id: uuid.New(), Name: "Alice"}
	bren := CharacterRef{Id: uuid.New(), Name: "Bren Ashford"}
	known := []CharacterRef{alice, bren}

	tests := []struct {
		name   string
		wantId uuid.UUID
		wantOk bool
	}{
		{"alice", alice.Id, true},
		{"ALICE", alice.Id, true},
		{"Bren", bren.Id, true},
		{"bren ashford", bren.Id, true},
		{"Mysterious Stranger", uuid.Nil, false},
		{"", uuid.Nil, false},
	}

	for _, tt := range tests {
		ref, ok := MatchCharacter(tt.name, known)
		if ok != tt.wantOk {
			t.Errorf("MatchCharacter(%q) ok = %v, want %v", tt.name, ok, tt.wantOk)
			continue
		}
		if ok && ref.Id != tt.wantId {
			t.Errorf("MatchCharacter(%q) = %s, want %s", tt.name, ref.Id, tt.wantId)
		}
	}
}

func TestParseEmotionUnknownFallsBackToNeutral(t *testing.T) {
	tests := []struct {
		raw  string
		want Emotion
	}{
		{"joy", EmotionJoy},
		{"JOY", EmotionJoy},
		{" anger ", EmotionAnger},
		{"melancholic-yearning", EmotionNeutral},
		{"", EmotionNeutral},
	}
	for _, tt := range tests {
		if got := ParseEmotion(tt.raw); got != tt.want {
			t.Errorf("ParseEmotion(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestFinalizeBuffer(t *testing.T) {
	t.Run("valid buffer with scene", func(t *testing.T) {
		buffer := `{"turns": [{"type":"narrator","content":"End."}], "scene": {"location":"docks","mood":"calm","present_characters":["Alice"]}}`
		res := FinalizeBuffer(buffer, nil)
		if res.Degraded {
			t.Fatal("valid buffer reported degraded")
		}
		if len(res.Turns) != 1 || res.Turns[0].Text != "End." {
			t.Errorf("turns = %+v", res.Turns)
		}
		if res.Scene == nil || res.Scene.Location != "docks" {
			t.Errorf("scene = %+v", res.Scene)
		}
	})

	t.Run("malformed terminal buffer becomes narrator turn", func(t *testing.T) {
		res := FinalizeBuffer("The model just wrote prose with no JSON at all.", nil)
		if !res.Degraded {
			t.Fatal("want degraded result")
		}
		if len(res.Turns) != 1 || res.Turns[0].Kind != KindNarrator {
			t.Fatalf("turns = %+v", res.Turns)
		}
	})

	t.Run("empty buffer", func(t *testing.T) {
		res := FinalizeBuffer("   ", nil)
		if !res.Degraded || len(res.Turns) != 0 {
			t.Errorf("res = %+v", res)
		}
	})
}

func TestExtractIntensityClamped(t *testing.T) {
	buffer := `{"turns": [{"type":"dialogue","character":"A","content":"x","emotion":"joy","intensity":1.7}]}`
	res := ExtractNewTurns(buffer, 0, nil)
	if len(res.NewTurns) != 1 || res.NewTurns[0].Emotion == nil {
		t.Fatalf("res = %+v", res)
	}
	if got := res.NewTurns[0].Emotion.Intensity; got != 1.0 {
		t.Errorf("intensity = %v, want clamped 1.0", got)
	}
}
