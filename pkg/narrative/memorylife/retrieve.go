package memorylife

import (
	"math"
	"sort"
	"strings"

	"ai-roleplay-be/internal/entity"
)

// ScoredRecord pairs a memory with its blended retrieval score
type ScoredRecord struct {
	Record *entity.MemoryRecord
	Score  float64
}

// Blend weights for retrieval ranking. Similarity dominates; importance and
// strength break ties between equally relevant memories.
const (
	similarityWeight = 0.6
	importanceWeight = 0.25
	strengthWeight   = 0.15
)

// Rank orders a character's memories against a query embedding, blending
// cosine similarity, importance and strength, filtered by the importance
// floor and capped at the policy's top-K. Promoted records get a flat bonus.
// With no query embedding (embedding provider down) the ranking degrades to
// keyword matching against the query text, then importance and strength.
func Rank(records []*entity.MemoryRecord, queryEmbedding []float32, queryText string, p Policy) []ScoredRecord {
	scored := make([]ScoredRecord, 0, len(records))

	for _, rec := range records {
		if rec.Importance < p.ImportanceFloor {
			continue
		}

		var similarity float64
		switch {
		case len(queryEmbedding) > 0 && len(rec.Embedding) > 0:
			similarity = CosineSimilarity(rec.Embedding, queryEmbedding)
		case queryText != "":
			similarity = keywordSimilarity(rec.Keywords, queryText)
		}

		score := similarityWeight*similarity +
			importanceWeight*rec.Importance +
			strengthWeight*rec.Strength
		if rec.Promoted {
			score += p.PromotedBonus
		}

		scored = append(scored, ScoredRecord{Record: rec, Score: score})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Record.Id.String() < scored[j].Record.Id.String()
	})

	if p.TopK > 0 && len(scored) > p.TopK {
		scored = scored[:p.TopK]
	}
	return scored
}

// CosineSimilarity computes the cosine of the angle between two embedding
// vectors. Mismatched or empty vectors score zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func keywordSimilarity(keywords []string, queryText string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	lower := strings.ToLower(queryText)
	hits := 0
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			hits++
		}
	}
	return float64(hits) / float64(len(keywords))
}
