package memorylife

import (
	"ai-roleplay-be/internal/entity"
)

// PrunePass returns the records to delete: strength below the policy floor
// and not promoted. Promoted memories survive regardless of strength.
func PrunePass(records []*entity.MemoryRecord, p Policy) []*entity.MemoryRecord {
	var doomed []*entity.MemoryRecord
	for _, rec := range records {
		if rec.Promoted {
			continue
		}
		if rec.Strength < p.PruneFloor {
			doomed = append(doomed, rec)
		}
	}
	return doomed
}
