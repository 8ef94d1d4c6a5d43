package memorylife

import (
	"testing"
	"time"

	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/pkg/narrative/turnstream"

	"github.com/google/uuid"
)

func record(opts func(*entity.MemoryRecord)) *entity.MemoryRecord {
	rec := &entity.MemoryRecord{
		Id:             uuid.New(),
		Interpretation: "something happened",
		MemoryType:     entity.MemoryEvent,
		Importance:     0.5,
		Strength:       1.0,
		CreatedAt:      time.Now(),
	}
	if opts != nil {
		opts(rec)
	}
	return rec
}

func TestDecayNeverNegative(t *testing.T) {
	p := DefaultPolicy()
	rec := record(func(r *entity.MemoryRecord) {
		r.Strength = 0.01
		r.Importance = 0.1
		r.LastTouchedTurn = 0
	})

	DecayPass([]*entity.MemoryRecord{rec}, 100, p)
	if rec.Strength != 0 {
		t.Errorf("strength = %v, want floored at 0", rec.Strength)
	}

	// A dead memory stays dead: another pass must not change it.
	changed := DecayPass([]*entity.MemoryRecord{rec}, 200, p)
	if len(changed) != 0 {
		t.Error("decay touched a record already at zero strength")
	}
}

func TestDecayImportanceSlowsLoss(t *testing.T) {
	p := DefaultPolicy()
	weak := record(func(r *entity.MemoryRecord) { r.Importance = 0.1 })
	vital := record(func(r *entity.MemoryRecord) { r.Importance = 0.9 })

	DecayPass([]*entity.MemoryRecord{weak, vital}, 10, p)
	if vital.Strength <= weak.Strength {
		t.Errorf("high importance should decay slower: vital=%v weak=%v", vital.Strength, weak.Strength)
	}
}

func TestDecaySkipsPromoted(t *testing.T) {
	rec := record(func(r *entity.MemoryRecord) { r.Promoted = true })
	changed := DecayPass([]*entity.MemoryRecord{rec}, 50, DefaultPolicy())
	if len(changed) != 0 || rec.Strength != 1.0 {
		t.Errorf("promoted record decayed: %v", rec.Strength)
	}
}

func TestConsolidatePreservesKeywordUnionAndMax(t *testing.T) {
	p := DefaultPolicy()
	a := record(func(r *entity.MemoryRecord) {
		r.Keywords = []string{"storm", "harbor", "rescue"}
		r.Importance = 0.4
		r.Strength = 0.3
		r.MentionedCount = 2
		r.Interpretation = "saved from the storm"
	})
	b := record(func(r *entity.MemoryRecord) {
		r.Keywords = []string{"storm", "harbor", "promise"}
		r.Importance = 0.8
		r.Strength = 0.6
		r.MentionedCount = 3
		r.Interpretation = "made a promise at the harbor"
		r.CreatedAt = a.CreatedAt.Add(time.Minute)
	})

	res := ConsolidatePass([]*entity.MemoryRecord{a, b}, p)
	if len(res.Merged) != 1 || len(res.Absorbed) != 1 {
		t.Fatalf("merged=%d absorbed=%d, want 1/1", len(res.Merged), len(res.Absorbed))
	}
	m := res.Merged[0]

	want := map[string]bool{"storm": true, "harbor": true, "rescue": true, "promise": true}
	if len(m.Keywords) != len(want) {
		t.Errorf("keywords = %v, want union of both sets", m.Keywords)
	}
	for _, k := range m.Keywords {
		if !want[k] {
			t.Errorf("unexpected keyword %q", k)
		}
	}
	if m.Importance != 0.8 || m.Strength != 0.6 {
		t.Errorf("importance=%v strength=%v, want max of group", m.Importance, m.Strength)
	}
	if m.MentionedCount != 5 {
		t.Errorf("mentionedCount = %d, want summed 5", m.MentionedCount)
	}
}

func TestConsolidateOrderIndependent(t *testing.T) {
	p := DefaultPolicy()
	build := func() (*entity.MemoryRecord, *entity.MemoryRecord) {
		base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		a := record(func(r *entity.MemoryRecord) {
			r.Id = uuid.MustParse("11111111-1111-1111-1111-111111111111")
			r.Keywords = []string{"duel", "cliff"}
			r.CreatedAt = base
		})
		b := record(func(r *entity.MemoryRecord) {
			r.Id = uuid.MustParse("22222222-2222-2222-2222-222222222222")
			r.Keywords = []string{"duel", "cliff", "dawn"}
			r.CreatedAt = base.Add(time.Hour)
		})
		return a, b
	}

	a1, b1 := build()
	a2, b2 := build()
	forward := ConsolidatePass([]*entity.MemoryRecord{a1, b1}, p)
	backward := ConsolidatePass([]*entity.MemoryRecord{b2, a2}, p)

	if forward.Merged[0].Id != backward.Merged[0].Id {
		t.Error("merge target depends on input order")
	}
	if len(forward.Merged[0].Keywords) != len(backward.Merged[0].Keywords) {
		t.Error("keyword union depends on input order")
	}
}

func TestConsolidateLeavesUnrelatedAlone(t *testing.T) {
	a := record(func(r *entity.MemoryRecord) { r.Keywords = []string{"dragon"} })
	b := record(func(r *entity.MemoryRecord) { r.Keywords = []string{"tavern"} })
	res := ConsolidatePass([]*entity.MemoryRecord{a, b}, DefaultPolicy())
	if len(res.Merged) != 0 || len(res.Absorbed) != 0 {
		t.Errorf("unrelated records were merged: %+v", res)
	}
}

func TestPromoteThresholds(t *testing.T) {
	p := DefaultPolicy()
	byMentions := record(func(r *entity.MemoryRecord) { r.MentionedCount = p.PromoteMentions })
	byImportance := record(func(r *entity.MemoryRecord) { r.Importance = p.PromoteImportance })
	neither := record(nil)

	promoted := PromotePass([]*entity.MemoryRecord{byMentions, byImportance, neither}, p)
	if len(promoted) != 2 {
		t.Fatalf("promoted %d, want 2", len(promoted))
	}
	if neither.Promoted {
		t.Error("record below both thresholds was promoted")
	}
}

func TestPruneScenarioAfter25Turns(t *testing.T) {
	// A low-importance memory untouched for 25 turns dies; its promoted
	// sibling survives even below the floor.
	p := DefaultPolicy()
	lowly := record(func(r *entity.MemoryRecord) {
		r.Importance = 0.1
		r.LastTouchedTurn = 0
	})
	pivotal := record(func(r *entity.MemoryRecord) {
		r.MentionedCount = p.PromoteMentions + 1
		r.Strength = 0.05
		r.LastTouchedTurn = 0
	})

	records := []*entity.MemoryRecord{lowly, pivotal}
	for turn := 1; turn <= 25; turn++ {
		for _, pass := range p.DuePasses(turn) {
			switch pass {
			case PassDecay:
				DecayPass(records, turn, p)
			case PassPromote:
				PromotePass(records, p)
			case PassPrune:
				doomed := PrunePass(records, p)
				for _, d := range doomed {
					for i, r := range records {
						if r.Id == d.Id {
							records = append(records[:i], records[i+1:]...)
							break
						}
					}
				}
			}
		}
	}

	if len(records) != 1 || records[0].Id != pivotal.Id {
		t.Fatalf("surviving records = %d, want only the promoted one", len(records))
	}
}

func TestDuePasses(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		turn int
		want []Pass
	}{
		{0, nil},
		{3, nil},
		{5, []Pass{PassDecay}},
		{10, []Pass{PassDecay, PassConsolidate, PassPromote}},
		{25, []Pass{PassDecay, PassPrune}},
		{50, []Pass{PassDecay, PassConsolidate, PassPromote, PassPrune}},
	}
	for _, tt := range tests {
		got := p.DuePasses(tt.turn)
		if len(got) != len(tt.want) {
			t.Errorf("DuePasses(%d) = %v, want %v", tt.turn, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("DuePasses(%d)[%d] = %v, want %v", tt.turn, i, got[i], tt.want[i])
			}
		}
	}
}

func TestRankBlendsAndCapsTopK(t *testing.T) {
	p := DefaultPolicy()
	p.TopK = 2

	query := []float32{1, 0, 0}
	similar := record(func(r *entity.MemoryRecord) {
		r.Embedding = []float32{1, 0.05, 0}
		r.Importance = 0.5
	})
	distant := record(func(r *entity.MemoryRecord) {
		r.Embedding = []float32{0, 1, 0}
		r.Importance = 0.5
	})
	tooTrivial := record(func(r *entity.MemoryRecord) {
		r.Embedding = []float32{1, 0, 0}
		r.Importance = p.ImportanceFloor - 0.1
	})
	promoted := record(func(r *entity.MemoryRecord) {
		r.Embedding = []float32{0, 0.9, 0.1}
		r.Importance = 0.5
		r.Promoted = true
	})

	ranked := Rank([]*entity.MemoryRecord{distant, tooTrivial, promoted, similar}, query, "", p)
	if len(ranked) != 2 {
		t.Fatalf("ranked %d, want top-2", len(ranked))
	}
	if ranked[0].Record.Id != similar.Id {
		t.Errorf("top record should be the most similar one")
	}
	for _, s := range ranked {
		if s.Record.Id == tooTrivial.Id {
			t.Error("record below importance floor was returned")
		}
	}
}

func TestRankKeywordFallback(t *testing.T) {
	p := DefaultPolicy()
	hit := record(func(r *entity.MemoryRecord) { r.Keywords = []string{"lighthouse"} })
	miss := record(func(r *entity.MemoryRecord) { r.Keywords = []string{"desert"} })

	ranked := Rank([]*entity.MemoryRecord{miss, hit}, nil, "meet me at the lighthouse", p)
	if len(ranked) == 0 || ranked[0].Record.Id != hit.Id {
		t.Error("keyword fallback did not rank the matching record first")
	}
}

func TestHasNarrativeWeight(t *testing.T) {
	tests := []struct {
		name string
		in   CreateInput
		want bool
	}{
		{"flagged", CreateInput{Flagged: true}, true},
		{"carries fact", CreateInput{Facts: []string{"afraid of the sea"}}, true},
		{"charged emotion", CreateInput{Turn: turnstream.Turn{
			Emotion: &turnstream.EmotionState{Primary: turnstream.EmotionFear, Intensity: 0.8},
		}}, true},
		{"neutral emotion", CreateInput{Turn: turnstream.Turn{
			Emotion: &turnstream.EmotionState{Primary: turnstream.EmotionNeutral, Intensity: 0.9},
		}}, false},
		{"faint emotion", CreateInput{Turn: turnstream.Turn{
			Emotion: &turnstream.EmotionState{Primary: turnstream.EmotionJoy, Intensity: 0.1},
		}}, false},
		{"plain turn", CreateInput{Turn: turnstream.Turn{Text: "hello"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasNarrativeWeight(tt.in); got != tt.want {
				t.Errorf("HasNarrativeWeight = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewRecordInterpretationAlwaysPresent(t *testing.T) {
	rec := NewRecord(CreateInput{Flagged: true})
	if rec.Interpretation == "" {
		t.Error("interpretation must exist even without an original event")
	}
	if rec.Strength != 1.0 {
		t.Errorf("strength = %v, want 1.0 at creation", rec.Strength)
	}
}
