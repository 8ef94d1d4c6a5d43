package contextasm

import (
	"sort"
	"strings"

	"ai-roleplay-be/internal/entity"

	"github.com/google/uuid"
)

// LorebookParams caps how many lore entries reach the prompt
type LorebookParams struct {
	MaxEntries int
}

func DefaultLorebookParams() LorebookParams {
	return LorebookParams{MaxEntries: 5}
}

// LorebookGateInput is the session state the entry gates are checked against
type LorebookGateInput struct {
	RecentText        string
	CompositeScore    float64
	TurnCount         int
	PresentCharacters []uuid.UUID
}

// SelectLorebook returns the entries whose keyword trigger fires in the
// recent text window and whose intimacy, turn-count and required-character
// gates are all open, sorted by ascending priority and capped.
func SelectLorebook(entries []*entity.LorebookEntry, in LorebookGateInput, params LorebookParams) []*entity.LorebookEntry {
	recentLower := strings.ToLower(in.RecentText)

	var selected []*entity.LorebookEntry
	for _, e := range entries {
		if !keywordTriggered(e.Keywords, recentLower) {
			continue
		}
		if e.MinIntimacy != nil && in.CompositeScore < *e.MinIntimacy {
			continue
		}
		if e.MinTurns != nil && in.TurnCount < *e.MinTurns {
			continue
		}
		if e.RequiredCharacterId != nil && !containsId(in.PresentCharacters, *e.RequiredCharacterId) {
			continue
		}
		selected = append(selected, e)
	}

	sort.Slice(selected, func(i, j int) bool {
		if selected[i].Priority != selected[j].Priority {
			return selected[i].Priority < selected[j].Priority
		}
		return selected[i].Id.String() < selected[j].Id.String()
	})

	if params.MaxEntries > 0 && len(selected) > params.MaxEntries {
		selected = selected[:params.MaxEntries]
	}
	return selected
}

func keywordTriggered(keywords []string, recentLower string) bool {
	for _, k := range keywords {
		if k == "" {
			continue
		}
		if strings.Contains(recentLower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

func containsId(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
