package memorylife

import (
	"ai-roleplay-be/internal/entity"
)

// PromotePass marks records whose mention count or importance crossed the
// policy thresholds. Promoted memories are exempt from ordinary decay,
// survive pruning and are prioritized during retrieval. Returns the newly
// promoted records.
func PromotePass(records []*entity.MemoryRecord, p Policy) []*entity.MemoryRecord {
	var promoted []*entity.MemoryRecord
	for _, rec := range records {
		if rec.Promoted {
			continue
		}
		if rec.MentionedCount >= p.PromoteMentions || rec.Importance >= p.PromoteImportance {
			rec.Promoted = true
			promoted = append(promoted, rec)
		}
	}
	return promoted
}
