package relationship

import (
	"testing"
)

func TestApplyDeltaClampsToRange(t *testing.T) {
	cfg := DefaultConfig()
	state := NewState(cfg)

	state = ApplyDelta(state, map[string]float64{AxisTrust: 500}, cfg)
	if got := state.AxisValues[AxisTrust]; got != 100 {
		t.Errorf("trust = %v, want clamped 100", got)
	}

	state = ApplyDelta(state, map[string]float64{AxisTrust: -500}, cfg)
	if got := state.AxisValues[AxisTrust]; got != 0 {
		t.Errorf("trust = %v, want clamped 0", got)
	}
}

func TestApplyDeltaIgnoresUnknownAxes(t *testing.T) {
	cfg := Config{
		Axes:    []Axis{{Key: "loyalty", DefaultValue: 20}},
		Levels:  []Level{{Key: "base", MinScore: 0}},
		MinAxis: 0,
		MaxAxis: 100,
	}
	state := NewState(cfg)

	// Stale legacy keys from a migrated work must be dropped, not error.
	state = ApplyDelta(state, map[string]float64{"trust": 5, "loyalty": 10}, cfg)
	if _, ok := state.AxisValues["trust"]; ok {
		t.Error("unknown axis leaked into state")
	}
	if got := state.AxisValues["loyalty"]; got != 30 {
		t.Errorf("loyalty = %v, want 30", got)
	}
}

func TestCompositeScoreEqualWeighting(t *testing.T) {
	cfg := Config{
		Axes: []Axis{
			{Key: "a"}, {Key: "b"},
		},
		Levels:  []Level{{Key: "base"}},
		MinAxis: 0,
		MaxAxis: 100,
	}
	state := State{AxisValues: map[string]float64{"a": 40, "b": 60}}
	if got := CompositeScore(state, cfg); got != 50 {
		t.Errorf("composite = %v, want 50", got)
	}
}

func TestCompositeScoreNegativeAxisInverts(t *testing.T) {
	cfg := Config{
		Axes: []Axis{
			{Key: "trust"},
			{Key: "rivalry", Negative: true},
		},
		Levels:  []Level{{Key: "base"}},
		MinAxis: 0,
		MaxAxis: 100,
	}
	low := State{AxisValues: map[string]float64{"trust": 50, "rivalry": 0}}
	high := State{AxisValues: map[string]float64{"trust": 50, "rivalry": 80}}
	if CompositeScore(high, cfg) >= CompositeScore(low, cfg) {
		t.Error("rising rivalry should lower the composite score")
	}
}

func TestCompositeScoreCustomWeights(t *testing.T) {
	cfg := Config{
		Axes:    []Axis{{Key: "a"}, {Key: "b"}},
		Levels:  []Level{{Key: "base"}},
		Weights: map[string]float64{"a": 3, "b": 1},
		MinAxis: 0,
		MaxAxis: 100,
	}
	state := State{AxisValues: map[string]float64{"a": 100, "b": 0}}
	if got := CompositeScore(state, cfg); got != 75 {
		t.Errorf("composite = %v, want 75", got)
	}
}

func TestResolveLevelPicksHighestSatisfied(t *testing.T) {
	levels := []Level{
		{Key: "stranger", MinScore: 0},
		{Key: "friend", MinScore: 30},
		{Key: "confidant", MinScore: 60, Gates: map[string]float64{"trust": 70}},
	}

	tests := []struct {
		name      string
		composite float64
		trust     float64
		want      string
	}{
		{"below everything", 10, 0, "stranger"},
		{"mid score", 45, 0, "friend"},
		{"score ok but gate blocks", 80, 50, "friend"},
		{"score and gate ok", 80, 75, "confidant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveLevel(tt.composite, map[string]float64{"trust": tt.trust}, levels)
			if got.Key != tt.want {
				t.Errorf("level = %q, want %q", got.Key, tt.want)
			}
		})
	}
}

func TestResolveLevelMonotonic(t *testing.T) {
	levels := DefaultConfig().Levels
	order := func(key string) int {
		for i, l := range levels {
			if l.Key == key {
				return i
			}
		}
		return -1
	}

	// Raising a gated axis while holding everything else fixed must never
	// lower the resolved level.
	axisValues := map[string]float64{
		AxisTrust: 0, AxisAffection: 60, AxisRespect: 60, AxisRivalry: 0, AxisFamiliarity: 60,
	}
	prev := -1
	for trust := 0.0; trust <= 100; trust += 5 {
		axisValues[AxisTrust] = trust
		composite := CompositeScore(State{AxisValues: axisValues}, DefaultConfig())
		lvl := ResolveLevel(composite, axisValues, levels)
		if idx := order(lvl.Key); idx < prev {
			t.Fatalf("level regressed to %q at trust=%v", lvl.Key, trust)
		} else {
			prev = idx
		}
	}
}

func TestResolveLevelFallsBackToLowest(t *testing.T) {
	levels := []Level{
		{Key: "floor", MinScore: 20},
		{Key: "up", MinScore: 50},
	}
	got := ResolveLevel(5, nil, levels)
	if got.Key != "floor" {
		t.Errorf("level = %q, want fallback to lowest-ordered", got.Key)
	}
}

func TestLegacyDefaultDeltaScenario(t *testing.T) {
	// A work with no custom axes must behave exactly like the built-in
	// five-axis baseline.
	workCfg := Config{}.Normalize()
	baseline := DefaultConfig()

	fresh := NewState(workCfg)
	deltas := map[string]float64{AxisTrust: 5}

	viaWork := ApplyDelta(fresh, deltas, workCfg)
	viaBaseline := ApplyDelta(NewState(baseline), deltas, baseline)

	for key, want := range viaBaseline.AxisValues {
		if got := viaWork.AxisValues[key]; got != want {
			t.Errorf("axis %s = %v, want %v", key, got, want)
		}
	}

	_, lvlWork := Evaluate(viaWork, workCfg)
	_, lvlBase := Evaluate(viaBaseline, baseline)
	if lvlWork.Key != lvlBase.Key {
		t.Errorf("level = %q, want baseline %q", lvlWork.Key, lvlBase.Key)
	}
}

func TestNormalizeInvalidWeights(t *testing.T) {
	cfg := Config{
		Axes:    []Axis{{Key: "a"}, {Key: "b"}},
		Levels:  []Level{{Key: "base"}},
		Weights: map[string]float64{"a": 0, "b": -1},
	}.Normalize()

	for _, key := range []string{"a", "b"} {
		if cfg.Weights[key] != 1 {
			t.Errorf("weight %s = %v, want equal weighting fallback", key, cfg.Weights[key])
		}
	}
}
