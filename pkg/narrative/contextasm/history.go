package contextasm

import (
	"sort"

	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/pkg/narrative/memorylife"
)

// HistoryParams controls how much prior dialogue is pulled into the prompt
type HistoryParams struct {
	// RecentWindow messages are always included verbatim.
	RecentWindow int
	// ExtraCount is the cap on similarity-selected older messages.
	ExtraCount int
	// TokenBudget bounds the whole history, estimated at CharsPerToken
	// characters per token. Not exact tokenization, by intent.
	TokenBudget   int
	CharsPerToken int
}

func DefaultHistoryParams() HistoryParams {
	return HistoryParams{
		RecentWindow:  10,
		ExtraCount:    6,
		TokenBudget:   2000,
		CharsPerToken: 4,
	}
}

// SelectHistory picks the messages for the next prompt: the most recent
// window verbatim, then older messages ranked by embedding similarity to the
// new user message, capped by count and by the estimated token budget. The
// returned slice is in chronological order.
func SelectHistory(messages []*entity.DialogueMessage, queryEmbedding []float32, params HistoryParams) []*entity.DialogueMessage {
	if len(messages) == 0 {
		return nil
	}

	windowStart := len(messages) - params.RecentWindow
	if windowStart < 0 {
		windowStart = 0
	}
	recent := messages[windowStart:]

	budget := params.TokenBudget
	if params.CharsPerToken <= 0 {
		params.CharsPerToken = 4
	}
	spend := func(m *entity.DialogueMessage) int {
		return len(m.Text)/params.CharsPerToken + 1
	}

	// The recency window is guaranteed: it spends budget but is never cut.
	for _, m := range recent {
		budget -= spend(m)
	}

	if windowStart == 0 || params.ExtraCount <= 0 || len(queryEmbedding) == 0 {
		return recent
	}

	older := messages[:windowStart]
	type scoredMsg struct {
		msg   *entity.DialogueMessage
		score float64
		index int
	}
	scored := make([]scoredMsg, 0, len(older))
	for i, m := range older {
		if len(m.Embedding) == 0 {
			continue
		}
		scored = append(scored, scoredMsg{
			msg:   m,
			score: memorylife.CosineSimilarity(m.Embedding, queryEmbedding),
			index: i,
		})
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].index > scored[j].index
	})

	var picked []scoredMsg
	for _, s := range scored {
		if len(picked) >= params.ExtraCount {
			break
		}
		cost := spend(s.msg)
		if budget-cost < 0 {
			break
		}
		budget -= cost
		picked = append(picked, s)
	}

	// Reassemble chronologically: picked older messages first, then the
	// recency window.
	sort.Slice(picked, func(i, j int) bool { return picked[i].index < picked[j].index })
	selected := make([]*entity.DialogueMessage, 0, len(picked)+len(recent))
	for _, s := range picked {
		selected = append(selected, s.msg)
	}
	return append(selected, recent...)
}
