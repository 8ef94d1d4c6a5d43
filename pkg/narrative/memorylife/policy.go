package memorylife

// Pass identifies one lifecycle maintenance pass
type Pass string

const (
	PassDecay       Pass = "decay"
	PassConsolidate Pass = "consolidate"
	PassPromote     Pass = "promote"
	PassPrune       Pass = "prune"
)

// Policy bundles every tunable of the memory lifecycle. Intervals are in
// turns, not wall-clock, so scheduling stays deterministic.
type Policy struct {
	DecayInterval       int
	ConsolidateInterval int
	PromoteInterval     int
	PruneInterval       int

	// DecayRate is the per-untouched-turn strength loss before the
	// importance discount is applied.
	DecayRate float64

	// Consolidation grouping
	SimilarityThreshold float64
	KeywordOverlapMin   int

	// Promotion thresholds
	PromoteMentions   int
	PromoteImportance float64

	// Pruning
	PruneFloor float64

	// Retrieval
	ImportanceFloor float64
	TopK            int
	PromotedBonus   float64
}

func DefaultPolicy() Policy {
	return Policy{
		DecayInterval:       5,
		ConsolidateInterval: 10,
		PromoteInterval:     10,
		PruneInterval:       25,
		DecayRate:           0.02,
		SimilarityThreshold: 0.85,
		KeywordOverlapMin:   2,
		PromoteMentions:     3,
		PromoteImportance:   0.85,
		PruneFloor:          0.15,
		ImportanceFloor:     0.2,
		TopK:                5,
		PromotedBonus:       0.2,
	}
}

// DuePasses returns the passes whose turn interval divides the given turn
// count. Order matters: decay before consolidation before promotion before
// pruning, so a single trigger turn applies them in a stable sequence.
func (p Policy) DuePasses(turn int) []Pass {
	if turn <= 0 {
		return nil
	}
	var due []Pass
	if p.DecayInterval > 0 && turn%p.DecayInterval == 0 {
		due = append(due, PassDecay)
	}
	if p.ConsolidateInterval > 0 && turn%p.ConsolidateInterval == 0 {
		due = append(due, PassConsolidate)
	}
	if p.PromoteInterval > 0 && turn%p.PromoteInterval == 0 {
		due = append(due, PassPromote)
	}
	if p.PruneInterval > 0 && turn%p.PruneInterval == 0 {
		due = append(due, PassPrune)
	}
	return due
}
