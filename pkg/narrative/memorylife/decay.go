package memorylife

import (
	"ai-roleplay-be/internal/entity"
)

// DecayPass weakens every non-promoted record as turns pass without a
// mention. Higher importance decays slower. Strength is floored at zero and
// decay never resurrects a dead memory. Returns the records whose strength
// actually changed so the caller can persist only those.
func DecayPass(records []*entity.MemoryRecord, currentTurn int, p Policy) []*entity.MemoryRecord {
	var changed []*entity.MemoryRecord
	for _, rec := range records {
		if rec.Promoted {
			continue
		}
		turnsSince := currentTurn - rec.LastTouchedTurn
		if turnsSince <= 0 {
			continue
		}

		loss := p.DecayRate * float64(turnsSince) * (1 - rec.Importance*0.5)
		if loss <= 0 || rec.Strength == 0 {
			continue
		}

		rec.Strength -= loss
		if rec.Strength < 0 {
			rec.Strength = 0
		}
		rec.ClampScores()
		changed = append(changed, rec)
	}
	return changed
}
