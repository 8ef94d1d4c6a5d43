package contextasm

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/pkg/narrative/memorylife"
	"ai-roleplay-be/pkg/narrative/relationship"
	"ai-roleplay-be/pkg/narrative/turnstream"

	"github.com/google/uuid"
)

func turnEmotion(name string, intensity float64) turnstream.EmotionState {
	return turnstream.EmotionState{Primary: turnstream.Emotion(name), Intensity: intensity}
}

func msg(text string, embedding []float32) *entity.DialogueMessage {
	return &entity.DialogueMessage{
		Id:        uuid.New(),
		Text:      text,
		Embedding: embedding,
	}
}

func TestSelectHistoryRecencyWindow(t *testing.T) {
	params := HistoryParams{RecentWindow: 3, ExtraCount: 0, TokenBudget: 10000, CharsPerToken: 4}

	var messages []*entity.DialogueMessage
	for _, text := range []string{"one", "two", "three", "four", "five"} {
		messages = append(messages, msg(text, nil))
	}

	got := SelectHistory(messages, nil, params)
	if len(got) != 3 {
		t.Fatalf("selected %d, want 3", len(got))
	}
	for i, want := range []string{"three", "four", "five"} {
		if got[i].Text != want {
			t.Errorf("history[%d] = %q, want %q", i, got[i].Text, want)
		}
	}
}

func TestSelectHistorySimilarityExtrasChronological(t *testing.T) {
	params := HistoryParams{RecentWindow: 2, ExtraCount: 2, TokenBudget: 10000, CharsPerToken: 4}
	query := []float32{1, 0}

	relevantOld := msg("the lighthouse pact", []float32{1, 0})
	irrelevantOld := msg("weather small talk", []float32{0, 1})
	relevantMid := msg("back to the lighthouse", []float32{0.9, 0.1})
	recent1 := msg("recent a", nil)
	recent2 := msg("recent b", nil)

	messages := []*entity.DialogueMessage{relevantOld, irrelevantOld, relevantMid, recent1, recent2}
	got := SelectHistory(messages, query, params)

	if len(got) != 4 {
		t.Fatalf("selected %d, want 4", len(got))
	}
	// Chronological order must be preserved across the splice.
	want := []string{"the lighthouse pact", "back to the lighthouse", "recent a", "recent b"}
	for i := range want {
		if got[i].Text != want[i] {
			t.Errorf("history[%d] = %q, want %q", i, got[i].Text, want[i])
		}
	}
}

func TestSelectHistoryTokenBudgetStopsOlderContent(t *testing.T) {
	long := strings.Repeat("x", 400) // ~100 tokens
	params := HistoryParams{RecentWindow: 1, ExtraCount: 5, TokenBudget: 120, CharsPerToken: 4}
	query := []float32{1}

	older1 := msg(long, []float32{1})
	older2 := msg(long, []float32{1})
	recent := msg(strings.Repeat("y", 40), nil)

	got := SelectHistory([]*entity.DialogueMessage{older1, older2, recent}, query, params)

	// Budget fits the recency window plus one older message only.
	if len(got) != 2 {
		t.Fatalf("selected %d, want 2", len(got))
	}
	if got[len(got)-1].Text != recent.Text {
		t.Error("recency window was cut by the budget")
	}
}

func TestSelectLorebookGates(t *testing.T) {
	alice := uuid.New()
	minIntimacy := 40.0
	minTurns := 20
	entries := []*entity.LorebookEntry{
		{Id: uuid.New(), Title: "open", Keywords: []string{"harbor"}, Priority: 2},
		{Id: uuid.New(), Title: "wrong keyword", Keywords: []string{"desert"}, Priority: 1},
		{Id: uuid.New(), Title: "intimacy gated", Keywords: []string{"harbor"}, Priority: 1, MinIntimacy: &minIntimacy},
		{Id: uuid.New(), Title: "turn gated", Keywords: []string{"harbor"}, Priority: 3, MinTurns: &minTurns},
		{Id: uuid.New(), Title: "needs alice", Keywords: []string{"harbor"}, Priority: 0, RequiredCharacterId: &alice},
	}

	tests := []struct {
		name string
		in   LorebookGateInput
		want []string
	}{
		{
			"only keyword match, everything else gated",
			LorebookGateInput{RecentText: "we met at the HARBOR", CompositeScore: 10, TurnCount: 5},
			[]string{"open"},
		},
		{
			"all gates open",
			LorebookGateInput{RecentText: "the harbor again", CompositeScore: 50, TurnCount: 30, PresentCharacters: []uuid.UUID{alice}},
			[]string{"needs alice", "intimacy gated", "open", "turn gated"},
		},
		{
			"no keyword in window",
			LorebookGateInput{RecentText: "nothing relevant", CompositeScore: 99, TurnCount: 99},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectLorebook(entries, tt.in, LorebookParams{MaxEntries: 10})
			if len(got) != len(tt.want) {
				t.Fatalf("selected %d entries, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i].Title != tt.want[i] {
					t.Errorf("entry[%d] = %q, want %q (priority order)", i, got[i].Title, tt.want[i])
				}
			}
		})
	}
}

func TestSelectLorebookCap(t *testing.T) {
	var entries []*entity.LorebookEntry
	for i := 0; i < 8; i++ {
		entries = append(entries, &entity.LorebookEntry{
			Id: uuid.New(), Keywords: []string{"sea"}, Priority: i,
		})
	}
	got := SelectLorebook(entries, LorebookGateInput{RecentText: "the sea"}, LorebookParams{MaxEntries: 3})
	if len(got) != 3 {
		t.Errorf("selected %d, want capped 3", len(got))
	}
}

type stubMemories struct {
	failFor uuid.UUID
	records map[uuid.UUID][]memorylife.ScoredRecord
}

func (s *stubMemories) TopMemories(_ context.Context, _, characterId, _ uuid.UUID, _ []float32, _ string) ([]memorylife.ScoredRecord, error) {
	if characterId == s.failFor {
		return nil, errors.New("vector store down")
	}
	return s.records[characterId], nil
}

type stubRelationships struct {
	states map[uuid.UUID]*entity.RelationshipState
}

func (s *stubRelationships) Relationship(_ context.Context, _, characterId, _ uuid.UUID) (*entity.RelationshipState, error) {
	return s.states[characterId], nil
}

func TestAssemblerDegradesFailedBranch(t *testing.T) {
	work := &entity.Work{Id: uuid.New()}
	alice := &entity.Character{Id: uuid.New(), Name: "Alice"}
	bren := &entity.Character{Id: uuid.New(), Name: "Bren"}

	cfg := relationship.DefaultConfig()
	aliceState := entity.NewRelationshipState(uuid.New(), alice.Id, work.Id, cfg)
	aliceState.AddFact("afraid of deep water")

	memories := &stubMemories{
		failFor: bren.Id,
		records: map[uuid.UUID][]memorylife.ScoredRecord{
			alice.Id: {{Record: &entity.MemoryRecord{Interpretation: "the rescue at the pier"}, Score: 0.9}},
		},
	}
	relationships := &stubRelationships{states: map[uuid.UUID]*entity.RelationshipState{
		alice.Id: aliceState,
	}}

	assembler := NewAssembler(memories, relationships, log.New(io.Discard, "", 0))
	result := assembler.Build(context.Background(), BuildInput{
		UserId:            uuid.New(),
		Work:              work,
		PresentCharacters: []*entity.Character{alice, bren},
		UserMessage:       "hello",
	})

	if len(result.MemoryDigests) != 2 {
		t.Fatalf("digests = %d, want one per present character", len(result.MemoryDigests))
	}
	if !strings.Contains(result.MemoryDigests[alice.Id], "the rescue at the pier") {
		t.Errorf("alice digest missing memory: %q", result.MemoryDigests[alice.Id])
	}
	if !strings.Contains(result.MemoryDigests[alice.Id], "afraid of deep water") {
		t.Errorf("alice digest missing known fact: %q", result.MemoryDigests[alice.Id])
	}
	// Bren's branch failed: digest exists but degrades to the bare header.
	if strings.Contains(result.MemoryDigests[bren.Id], "Memories that surface now") {
		t.Errorf("failed branch should have no memories: %q", result.MemoryDigests[bren.Id])
	}
}

func TestBuildMemoryDigestLevelAndTrajectory(t *testing.T) {
	cfg := relationship.DefaultConfig()
	character := &entity.Character{Id: uuid.New(), Name: "Alice"}
	state := entity.NewRelationshipState(uuid.New(), character.Id, uuid.New(), cfg)
	state.ApplyDeltas(map[string]float64{relationship.AxisTrust: 80, relationship.AxisAffection: 80, relationship.AxisFamiliarity: 70, relationship.AxisRespect: 60}, cfg)
	state.RecordEmotion(turnEmotion("joy", 0.8), 1)
	state.RecordEmotion(turnEmotion("fear", 0.6), 2)

	digest := BuildMemoryDigest(character, state, cfg, nil)
	if !strings.Contains(digest, "Relationship:") {
		t.Errorf("digest missing level line: %q", digest)
	}
	if !strings.Contains(digest, "joy") || !strings.Contains(digest, "fear") {
		t.Errorf("digest missing emotional trajectory: %q", digest)
	}
}
