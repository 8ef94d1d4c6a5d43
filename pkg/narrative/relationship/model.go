package relationship

// State is the scoring slice of a user↔character relationship. The level is
// never stored: it is derived from the current axis values on every evaluation
// so it can never drift out of sync.
type State struct {
	AxisValues map[string]float64
}

// NewState builds a fresh state seeded with the config's axis defaults
func NewState(cfg Config) State {
	cfg = cfg.Normalize()
	return State{AxisValues: cfg.DefaultValues()}
}

// ApplyDelta returns a new state with deltas folded in. Every touched axis is
// clamped into the configured range. Unknown axis keys (stale legacy keys on a
// migrated work, or plain model drift) are ignored rather than erroring.
func ApplyDelta(state State, deltas map[string]float64, cfg Config) State {
	cfg = cfg.Normalize()

	next := State{AxisValues: make(map[string]float64, len(cfg.Axes))}
	for _, a := range cfg.Axes {
		v, ok := state.AxisValues[a.Key]
		if !ok {
			v = clampRange(a.DefaultValue, cfg.MinAxis, cfg.MaxAxis)
		}
		if d, ok := deltas[a.Key]; ok {
			v += d
		}
		next.AxisValues[a.Key] = clampRange(v, cfg.MinAxis, cfg.MaxAxis)
	}
	return next
}

// CompositeScore computes the weighted aggregate of all axis values:
// Σ weight[axis] * value[axis] / Σ weight[axis]. Negative axes contribute
// inverted (max - value) so a rising rivalry pulls the composite down.
func CompositeScore(state State, cfg Config) float64 {
	cfg = cfg.Normalize()

	var sum, totalWeight float64
	for _, a := range cfg.Axes {
		w, ok := cfg.Weights[a.Key]
		if !ok || w <= 0 {
			w = 1
		}
		v := clampRange(state.AxisValues[a.Key], cfg.MinAxis, cfg.MaxAxis)
		if a.Negative {
			v = cfg.MaxAxis - v
		}
		sum += w * v
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0
	}
	return sum / totalWeight
}

// ResolveLevel returns the highest-ordered level whose composite threshold and
// per-axis gates are all satisfied. When nothing qualifies it falls back to
// the lowest-ordered level.
func ResolveLevel(composite float64, axisValues map[string]float64, levels []Level) Level {
	if len(levels) == 0 {
		return Level{}
	}

	best := levels[0]
	for _, lvl := range levels {
		if composite < lvl.MinScore {
			continue
		}
		if !gatesSatisfied(lvl, axisValues) {
			continue
		}
		best = lvl
	}
	return best
}

// Evaluate derives the composite score and current level in one pass
func Evaluate(state State, cfg Config) (float64, Level) {
	cfg = cfg.Normalize()
	composite := CompositeScore(state, cfg)
	return composite, ResolveLevel(composite, state.AxisValues, cfg.Levels)
}

func gatesSatisfied(lvl Level, axisValues map[string]float64) bool {
	for key, threshold := range lvl.Gates {
		if axisValues[key] < threshold {
			return false
		}
	}
	return true
}
