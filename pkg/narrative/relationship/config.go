package relationship

// Axis is a named scalar dimension of a relationship (e.g. trust)
type Axis struct {
	Key          string  `json:"key"`
	Label        string  `json:"label"`
	Description  string  `json:"description,omitempty"`
	DefaultValue float64 `json:"default_value"`

	// Negative marks axes that work against the relationship (e.g. rivalry):
	// they contribute inverted to the composite score.
	Negative bool `json:"negative,omitempty"`
}

// Level is a relationship tier. Levels are ordered in the config slice; the
// engine always selects the highest one whose conditions hold.
type Level struct {
	Key      string             `json:"key"`
	Label    string             `json:"label"`
	MinScore float64            `json:"min_score"`
	Gates    map[string]float64 `json:"gates,omitempty"`
}

// Config is the per-work axis/level scheme. Works that define none fall back
// to the legacy five-axis scheme so deployed content stays compatible.
type Config struct {
	Axes    []Axis             `json:"axes"`
	Levels  []Level            `json:"levels"`
	Weights map[string]float64 `json:"weights,omitempty"`
	MinAxis float64            `json:"min_axis"`
	MaxAxis float64            `json:"max_axis"`

	// DeltaRules maps a reported emotion to the axis deltas one occurrence
	// applies, before intensity scaling. Empty means the built-in rules.
	DeltaRules map[string]map[string]float64 `json:"delta_rules,omitempty"`
}

// Legacy axis keys, kept stable because deployed works reference them
const (
	AxisTrust       = "trust"
	AxisAffection   = "affection"
	AxisRespect     = "respect"
	AxisRivalry     = "rivalry"
	AxisFamiliarity = "familiarity"
)

// DefaultConfig returns the built-in five-axis scheme used when a work defines
// no custom axes or levels.
func DefaultConfig() Config {
	return Config{
		Axes: []Axis{
			{Key: AxisTrust, Label: "Trust", DefaultValue: 10},
			{Key: AxisAffection, Label: "Affection", DefaultValue: 10},
			{Key: AxisRespect, Label: "Respect", DefaultValue: 10},
			{Key: AxisRivalry, Label: "Rivalry", DefaultValue: 0, Negative: true},
			{Key: AxisFamiliarity, Label: "Familiarity", DefaultValue: 0},
		},
		Levels: []Level{
			{Key: "stranger", Label: "Stranger", MinScore: 0},
			{Key: "acquaintance", Label: "Acquaintance", MinScore: 15},
			{Key: "friend", Label: "Friend", MinScore: 30},
			{Key: "close_friend", Label: "Close Friend", MinScore: 50, Gates: map[string]float64{AxisTrust: 45}},
			{Key: "confidant", Label: "Confidant", MinScore: 70, Gates: map[string]float64{AxisTrust: 60, AxisAffection: 55}},
			{Key: "inseparable", Label: "Inseparable", MinScore: 85, Gates: map[string]float64{AxisTrust: 75, AxisAffection: 70, AxisFamiliarity: 60}},
		},
		MinAxis:    0,
		MaxAxis:    100,
		DeltaRules: DefaultDeltaRules(),
	}
}

// DefaultDeltaRules maps each built-in emotion to the axis movement one
// occurrence causes. Neutral still nudges familiarity: any interaction makes
// the characters more familiar with each other.
func DefaultDeltaRules() map[string]map[string]float64 {
	return map[string]map[string]float64{
		"neutral":   {AxisFamiliarity: 1},
		"joy":       {AxisAffection: 2, AxisTrust: 1, AxisFamiliarity: 1},
		"sadness":   {AxisAffection: 1, AxisFamiliarity: 1},
		"anger":     {AxisRivalry: 2, AxisTrust: -1, AxisFamiliarity: 1},
		"fear":      {AxisTrust: -2, AxisFamiliarity: 1},
		"surprise":  {AxisFamiliarity: 2},
		"affection": {AxisAffection: 3, AxisTrust: 1, AxisFamiliarity: 1},
		"shame":     {AxisRespect: -1, AxisFamiliarity: 1},
	}
}

// DeltasForEmotion resolves the axis deltas an emotion occurrence applies,
// scaled by intensity. Unknown emotions and unknown axis keys produce nothing;
// ApplyDelta drops stale keys anyway.
func (c Config) DeltasForEmotion(emotion string, intensity float64) map[string]float64 {
	rules := c.DeltaRules
	if len(rules) == 0 {
		rules = DefaultDeltaRules()
	}
	rule, ok := rules[emotion]
	if !ok {
		return nil
	}

	// Half weight at zero intensity, full weight at one
	scale := 0.5 + clampRange(intensity, 0, 1)*0.5

	deltas := make(map[string]float64, len(rule))
	for axis, d := range rule {
		deltas[axis] = d * scale
	}
	return deltas
}

// Normalize fills in the pieces an invalid or partial work config is missing.
// Empty axes or levels fall back to the legacy scheme; missing weights mean
// equal weighting. Configuration problems never reject a turn.
func (c Config) Normalize() Config {
	def := DefaultConfig()
	if len(c.Axes) == 0 {
		c.Axes = def.Axes
	}
	if len(c.Levels) == 0 {
		c.Levels = def.Levels
	}
	if c.MaxAxis <= c.MinAxis {
		c.MinAxis = def.MinAxis
		c.MaxAxis = def.MaxAxis
	}

	total := 0.0
	for _, a := range c.Axes {
		if w, ok := c.Weights[a.Key]; ok && w > 0 {
			total += w
		}
	}
	if total <= 0 {
		weights := make(map[string]float64, len(c.Axes))
		for _, a := range c.Axes {
			weights[a.Key] = 1
		}
		c.Weights = weights
	}
	return c
}

// HasAxis reports whether key is one of the configured axes
func (c Config) HasAxis(key string) bool {
	for _, a := range c.Axes {
		if a.Key == key {
			return true
		}
	}
	return false
}

func (c Config) axis(key string) (Axis, bool) {
	for _, a := range c.Axes {
		if a.Key == key {
			return a, true
		}
	}
	return Axis{}, false
}

// DefaultValues returns the starting axis map for a fresh relationship
func (c Config) DefaultValues() map[string]float64 {
	values := make(map[string]float64, len(c.Axes))
	for _, a := range c.Axes {
		values[a.Key] = clampRange(a.DefaultValue, c.MinAxis, c.MaxAxis)
	}
	return values
}

func clampRange(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
