package contextasm

import (
	"strings"
	"testing"

	"ai-roleplay-be/internal/entity"

	"github.com/google/uuid"
)

func TestBuildSystemPromptSections(t *testing.T) {
	work := &entity.Work{
		Id:          uuid.New(),
		Title:       "Lanterns of Hoshimachi",
		Description: "A coastal town of wishes and paper lanterns.",
	}
	aoi := &entity.Character{
		Id:      uuid.New(),
		Name:    "Aoi",
		Persona: "A cheerful lantern maker's apprentice.",
		Traits:  "cheerful, curious",
	}
	kaito := &entity.Character{
		Id:   uuid.New(),
		Name: "Kaito",
	}
	characters := []*entity.Character{aoi, kaito}

	pc := &PromptContext{
		Lorebook: []*entity.LorebookEntry{
			{Title: "The Festival", Content: "Lanterns are released each summer."},
		},
		MemoryDigests: map[uuid.UUID]string{
			aoi.Id: "Aoi remembers the visitor asked about the shrine.",
		},
		Scene: &entity.SceneContext{
			Location:     "the harbor",
			Mood:         "calm",
			RecentEvents: []string{"a lantern drifted out to sea"},
		},
	}

	prompt := BuildSystemPrompt(work, characters, pc)

	for _, want := range []string{
		"Lanterns of Hoshimachi",
		"## Characters",
		"### Aoi",
		"Traits: cheerful, curious",
		"### Kaito",
		"## World knowledge",
		"The Festival",
		"## What the characters remember",
		"asked about the shrine",
		"## Current scene",
		"Location: the harbor",
		`"turns":`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildSystemPromptOmitsEmptySections(t *testing.T) {
	work := &entity.Work{Id: uuid.New(), Title: "Bare Work"}
	prompt := BuildSystemPrompt(work, nil, &PromptContext{})

	for _, section := range []string{"## Characters", "## World knowledge", "## Current scene"} {
		if strings.Contains(prompt, section) {
			t.Errorf("prompt contains empty section %q", section)
		}
	}
	if !strings.Contains(prompt, "Respond ONLY with a JSON object") {
		t.Error("prompt missing response contract")
	}
}

func TestBuildSystemPromptDigestOrderFollowsCharacters(t *testing.T) {
	work := &entity.Work{Id: uuid.New(), Title: "Order Work"}
	first := &entity.Character{Id: uuid.New(), Name: "First"}
	second := &entity.Character{Id: uuid.New(), Name: "Second"}

	pc := &PromptContext{
		MemoryDigests: map[uuid.UUID]string{
			second.Id: "digest-second",
			first.Id:  "digest-first",
		},
	}

	prompt := BuildSystemPrompt(work, []*entity.Character{first, second}, pc)

	i := strings.Index(prompt, "digest-first")
	j := strings.Index(prompt, "digest-second")
	if i < 0 || j < 0 || i > j {
		t.Errorf("digests out of character order: first at %d, second at %d", i, j)
	}
}
