package contextasm

import (
	"fmt"
	"sort"
	"strings"

	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/pkg/narrative/memorylife"
	"ai-roleplay-be/pkg/narrative/relationship"
)

// BuildMemoryDigest synthesizes one character's prompt-ready narrative digest
// from their top-ranked memories and the current relationship state.
func BuildMemoryDigest(
	character *entity.Character,
	state *entity.RelationshipState,
	cfg relationship.Config,
	memories []memorylife.ScoredRecord,
) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s]\n", character.Name)

	if state != nil {
		composite, level := state.Evaluate(cfg)
		fmt.Fprintf(&b, "Relationship: %s (score %.0f)\n", level.Label, composite)

		if highlights := axisHighlights(state.AxisValues, cfg); highlights != "" {
			fmt.Fprintf(&b, "Standing: %s\n", highlights)
		}
		if len(state.KnownFacts) > 0 {
			fmt.Fprintf(&b, "Knows about the user: %s\n", strings.Join(tail(state.KnownFacts, 8), "; "))
		}
		if len(state.SharedExperiences) > 0 {
			fmt.Fprintf(&b, "Shared history: %s\n", strings.Join(tail(state.SharedExperiences, 5), "; "))
		}
		if trajectory := emotionalTrajectory(state.EmotionalHistory); trajectory != "" {
			fmt.Fprintf(&b, "Recent feelings: %s\n", trajectory)
		}
	}

	if len(memories) > 0 {
		b.WriteString("Memories that surface now:\n")
		for _, m := range memories {
			fmt.Fprintf(&b, "- %s\n", m.Record.Interpretation)
		}
	}

	return b.String()
}

// axisHighlights names the strongest axes so the prompt stays short
func axisHighlights(values map[string]float64, cfg relationship.Config) string {
	type axisValue struct {
		label string
		value float64
	}
	var list []axisValue
	for _, axis := range cfg.Axes {
		v, ok := values[axis.Key]
		if !ok {
			continue
		}
		label := axis.Label
		if label == "" {
			label = axis.Key
		}
		list = append(list, axisValue{label: label, value: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].value != list[j].value {
			return list[i].value > list[j].value
		}
		return list[i].label < list[j].label
	})
	if len(list) > 3 {
		list = list[:3]
	}

	parts := make([]string, 0, len(list))
	for _, av := range list {
		parts = append(parts, fmt.Sprintf("%s %.0f", av.label, av.value))
	}
	return strings.Join(parts, ", ")
}

func emotionalTrajectory(history []entity.EmotionalEvent) string {
	recent := history
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	parts := make([]string, 0, len(recent))
	for _, e := range recent {
		parts = append(parts, e.Emotion)
	}
	return strings.Join(parts, " → ")
}

func tail(list []string, n int) []string {
	if len(list) <= n {
		return list
	}
	return list[len(list)-n:]
}
