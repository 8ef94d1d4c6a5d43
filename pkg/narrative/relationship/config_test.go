package relationship

import (
	"testing"
)

func TestDeltasForEmotionScalesWithIntensity(t *testing.T) {
	cfg := DefaultConfig()

	full := cfg.DeltasForEmotion("anger", 1.0)
	if got := full[AxisRivalry]; got != 2 {
		t.Errorf("rivalry at full intensity = %v, want 2", got)
	}
	if got := full[AxisTrust]; got != -1 {
		t.Errorf("trust at full intensity = %v, want -1", got)
	}

	half := cfg.DeltasForEmotion("anger", 0)
	if got := half[AxisRivalry]; got != 1 {
		t.Errorf("rivalry at zero intensity = %v, want half weight 1", got)
	}
}

func TestDeltasForEmotionClampsIntensity(t *testing.T) {
	cfg := DefaultConfig()

	over := cfg.DeltasForEmotion("joy", 7.5)
	capped := cfg.DeltasForEmotion("joy", 1.0)
	if over[AxisAffection] != capped[AxisAffection] {
		t.Errorf("intensity above 1 must clamp: got %v, want %v", over[AxisAffection], capped[AxisAffection])
	}
}

func TestDeltasForEmotionUnknownEmotion(t *testing.T) {
	cfg := DefaultConfig()
	if deltas := cfg.DeltasForEmotion("ennui", 0.5); deltas != nil {
		t.Errorf("unknown emotion produced deltas: %v", deltas)
	}
}

func TestDeltasForEmotionFallsBackToDefaults(t *testing.T) {
	// A custom config with no delta rules still moves axes on emotion.
	cfg := Config{
		Axes:    []Axis{{Key: AxisFamiliarity}},
		Levels:  []Level{{Key: "base"}},
		MinAxis: 0,
		MaxAxis: 100,
	}

	deltas := cfg.DeltasForEmotion("neutral", 1.0)
	if got := deltas[AxisFamiliarity]; got != 1 {
		t.Errorf("familiarity = %v, want default rule 1", got)
	}
}

func TestDeltasForEmotionCustomRules(t *testing.T) {
	cfg := Config{
		Axes:    []Axis{{Key: "loyalty"}},
		Levels:  []Level{{Key: "base"}},
		MinAxis: 0,
		MaxAxis: 100,
		DeltaRules: map[string]map[string]float64{
			"joy": {"loyalty": 4},
		},
	}

	if got := cfg.DeltasForEmotion("joy", 1.0)["loyalty"]; got != 4 {
		t.Errorf("loyalty = %v, want 4", got)
	}
	// Custom rules replace the defaults entirely
	if deltas := cfg.DeltasForEmotion("anger", 1.0); deltas != nil {
		t.Errorf("anger should have no rule under custom rules, got %v", deltas)
	}
}
