package memorylife

import (
	"sort"
	"strings"
	"time"

	"ai-roleplay-be/internal/entity"
)

// ConsolidateResult describes the outcome of a consolidation pass: merged
// records to upsert and the absorbed source records to delete.
type ConsolidateResult struct {
	Merged   []*entity.MemoryRecord
	Absorbed []*entity.MemoryRecord
}

// ConsolidatePass groups records whose embeddings are similar above the
// policy threshold, or whose keyword sets overlap enough, and merges each
// group into a single record. The merge keeps the union of keywords, the max
// of importance and strength, and the summed mention count; grouping and
// merging are order-independent because records are sorted by creation time
// (then id) before processing.
func ConsolidatePass(records []*entity.MemoryRecord, p Policy) ConsolidateResult {
	if len(records) < 2 {
		return ConsolidateResult{}
	}

	sorted := make([]*entity.MemoryRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].Id.String() < sorted[j].Id.String()
	})

	// Union-find over record indices
	parent := make([]int, len(sorted))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(i, j int) {
		ri, rj := find(i), find(j)
		if ri != rj {
			if ri < rj {
				parent[rj] = ri
			} else {
				parent[ri] = rj
			}
		}
	}

	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if related(sorted[i], sorted[j], p) {
				union(i, j)
			}
		}
	}

	groups := make(map[int][]*entity.MemoryRecord)
	for i, rec := range sorted {
		root := find(i)
		groups[root] = append(groups[root], rec)
	}

	var roots []int
	for root, group := range groups {
		if len(group) > 1 {
			roots = append(roots, root)
		}
	}
	sort.Ints(roots)

	result := ConsolidateResult{}
	for _, root := range roots {
		group := groups[root]
		result.Merged = append(result.Merged, mergeGroup(group))
		result.Absorbed = append(result.Absorbed, group[1:]...)
	}
	return result
}

func related(a, b *entity.MemoryRecord, p Policy) bool {
	if len(a.Embedding) > 0 && len(b.Embedding) > 0 {
		if CosineSimilarity(a.Embedding, b.Embedding) >= p.SimilarityThreshold {
			return true
		}
	}
	return keywordOverlap(a.Keywords, b.Keywords) >= p.KeywordOverlapMin
}

func keywordOverlap(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, k := range a {
		set[strings.ToLower(k)] = true
	}
	count := 0
	for _, k := range b {
		if set[strings.ToLower(k)] {
			count++
		}
	}
	return count
}

// mergeGroup folds a similarity group into its oldest member. No keyword
// present in any source record may be lost.
func mergeGroup(group []*entity.MemoryRecord) *entity.MemoryRecord {
	base := group[0]
	merged := *base

	seen := make(map[string]bool)
	var keywords []string
	var interpretations []string
	mentioned := 0

	for _, rec := range group {
		if rec.Importance > merged.Importance {
			merged.Importance = rec.Importance
			merged.Embedding = rec.Embedding
		}
		if rec.Strength > merged.Strength {
			merged.Strength = rec.Strength
		}
		if rec.LastTouchedTurn > merged.LastTouchedTurn {
			merged.LastTouchedTurn = rec.LastTouchedTurn
		}
		if rec.Promoted {
			merged.Promoted = true
		}
		mentioned += rec.MentionedCount

		for _, k := range rec.Keywords {
			key := strings.ToLower(k)
			if !seen[key] {
				seen[key] = true
				keywords = append(keywords, k)
			}
		}
		if interp := strings.TrimSpace(rec.Interpretation); interp != "" && !containsString(interpretations, interp) {
			interpretations = append(interpretations, interp)
		}
	}

	merged.Keywords = keywords
	merged.MentionedCount = mentioned
	merged.Interpretation = strings.Join(interpretations, "; ")
	if merged.Interpretation == "" {
		merged.Interpretation = base.Interpretation
	}
	now := time.Now()
	merged.UpdatedAt = &now
	merged.ClampScores()
	return &merged
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
