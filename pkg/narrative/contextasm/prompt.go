package contextasm

import (
	"fmt"
	"strings"

	"ai-roleplay-be/internal/entity"
)

const responseContract = `Respond ONLY with a JSON object of the form:
{"turns": [{"type": "narrator|dialogue|system", "character": "<name>", "content": "...", "emotion": "<emotion>", "intensity": 0.0}], "scene": {"location": "...", "time": "...", "present_characters": ["..."], "mood": "...", "mood_intensity": 0.0, "events": ["..."]}}
Emit narrator turns for exposition and one dialogue turn per character line. Report only emotions the character actually shows.`

// BuildSystemPrompt renders the assembled context into the system message for
// the next model call.
func BuildSystemPrompt(work *entity.Work, characters []*entity.Character, pc *PromptContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are the narrator and every character of %q. Stay in character at all times.\n\n", work.Title)
	if work.Description != "" {
		b.WriteString(work.Description)
		b.WriteString("\n\n")
	}

	if len(characters) > 0 {
		b.WriteString("## Characters\n")
		for _, c := range characters {
			fmt.Fprintf(&b, "### %s\n", c.Name)
			if c.Persona != "" {
				b.WriteString(c.Persona)
				b.WriteByte('\n')
			}
			if c.Traits != "" {
				fmt.Fprintf(&b, "Traits: %s\n", c.Traits)
			}
			if c.Scenario != "" {
				fmt.Fprintf(&b, "Scenario: %s\n", c.Scenario)
			}
		}
		b.WriteByte('\n')
	}

	if len(pc.Lorebook) > 0 {
		b.WriteString("## World knowledge\n")
		for _, e := range pc.Lorebook {
			fmt.Fprintf(&b, "- %s: %s\n", e.Title, e.Content)
		}
		b.WriteByte('\n')
	}

	if len(pc.MemoryDigests) > 0 {
		b.WriteString("## What the characters remember\n")
		// Iterate characters, not the map, for stable prompt order
		for _, c := range characters {
			digest, ok := pc.MemoryDigests[c.Id]
			if !ok || digest == "" {
				continue
			}
			b.WriteString(digest)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	if scene := pc.Scene; scene != nil {
		b.WriteString("## Current scene\n")
		if scene.Location != "" {
			fmt.Fprintf(&b, "Location: %s\n", scene.Location)
		}
		if scene.Time != "" {
			fmt.Fprintf(&b, "Time: %s\n", scene.Time)
		}
		if scene.Mood != "" {
			fmt.Fprintf(&b, "Mood: %s (%.1f)\n", scene.Mood, scene.MoodIntensity)
		}
		if len(scene.RecentEvents) > 0 {
			fmt.Fprintf(&b, "Recent events: %s\n", strings.Join(scene.RecentEvents, "; "))
		}
		b.WriteByte('\n')
	}

	b.WriteString(responseContract)
	return b.String()
}
