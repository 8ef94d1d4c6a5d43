package contextasm

import (
	"context"
	"log"
	"strings"
	"sync"

	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/pkg/narrative/memorylife"
	"ai-roleplay-be/pkg/narrative/relationship"

	"github.com/google/uuid"
)

// MemorySource retrieves one character's top-ranked memories for a query
type MemorySource interface {
	TopMemories(ctx context.Context, userId, characterId, workId uuid.UUID, queryEmbedding []float32, queryText string) ([]memorylife.ScoredRecord, error)
}

// RelationshipSource loads the relationship state for one character
type RelationshipSource interface {
	Relationship(ctx context.Context, userId, characterId, workId uuid.UUID) (*entity.RelationshipState, error)
}

// BuildInput carries everything one assembly pass needs
type BuildInput struct {
	UserId uuid.UUID
	Work   *entity.Work

	// PresentCharacters are the characters currently in the scene; one
	// digest is built per character.
	PresentCharacters []*entity.Character

	// Messages is the full session history in chronological order.
	Messages []*entity.DialogueMessage

	Lorebook []*entity.LorebookEntry
	Scene    *entity.SceneContext

	UserMessage    string
	QueryEmbedding []float32
	TurnCount      int
}

// PromptContext is the assembled context for the next model call
type PromptContext struct {
	History       []*entity.DialogueMessage
	Lorebook      []*entity.LorebookEntry
	MemoryDigests map[uuid.UUID]string
	Scene         *entity.SceneContext
}

// Assembler builds the prompt context for an exchange. Per-character memory
// retrieval fans out concurrently; a failed branch degrades that character's
// digest to empty instead of failing the assembly.
type Assembler struct {
	memories      MemorySource
	relationships RelationshipSource
	history       HistoryParams
	lorebook      LorebookParams
	logger        *log.Logger
}

func NewAssembler(memories MemorySource, relationships RelationshipSource, logger *log.Logger) *Assembler {
	return &Assembler{
		memories:      memories,
		relationships: relationships,
		history:       DefaultHistoryParams(),
		lorebook:      DefaultLorebookParams(),
		logger:        logger,
	}
}

func (a *Assembler) Build(ctx context.Context, in BuildInput) *PromptContext {
	cfg := in.Work.EffectiveRelationshipConfig()

	history := SelectHistory(in.Messages, in.QueryEmbedding, a.history)

	recentText := recentTextWindow(history, in.UserMessage)
	composite := a.sessionComposite(ctx, in, cfg)

	var presentIds []uuid.UUID
	for _, c := range in.PresentCharacters {
		presentIds = append(presentIds, c.Id)
	}

	lorebook := SelectLorebook(in.Lorebook, LorebookGateInput{
		RecentText:        recentText,
		CompositeScore:    composite,
		TurnCount:         in.TurnCount,
		PresentCharacters: presentIds,
	}, a.lorebook)

	digests := a.buildDigests(ctx, in, cfg)

	return &PromptContext{
		History:       history,
		Lorebook:      lorebook,
		MemoryDigests: digests,
		Scene:         in.Scene,
	}
}

// buildDigests fans out one goroutine per present character and joins.
// Retrieval branches are independent, so one character failing only costs
// that character its digest.
func (a *Assembler) buildDigests(ctx context.Context, in BuildInput, cfg relationship.Config) map[uuid.UUID]string {
	digests := make(map[uuid.UUID]string, len(in.PresentCharacters))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, character := range in.PresentCharacters {
		wg.Add(1)
		go func(character *entity.Character) {
			defer wg.Done()

			state, err := a.relationships.Relationship(ctx, in.UserId, character.Id, in.Work.Id)
			if err != nil {
				a.logger.Printf("[CONTEXT] relationship load failed for %s: %v", character.Name, err)
				state = nil
			}

			memories, err := a.memories.TopMemories(ctx, in.UserId, character.Id, in.Work.Id, in.QueryEmbedding, in.UserMessage)
			if err != nil {
				a.logger.Printf("[CONTEXT] memory retrieval failed for %s: %v", character.Name, err)
				memories = nil
			}

			digest := BuildMemoryDigest(character, state, cfg, memories)

			mu.Lock()
			digests[character.Id] = digest
			mu.Unlock()
		}(character)
	}
	wg.Wait()

	return digests
}

// sessionComposite evaluates the intimacy gate input. With multiple present
// characters the highest composite is used, so lore unlocked with any of
// them stays available.
func (a *Assembler) sessionComposite(ctx context.Context, in BuildInput, cfg relationship.Config) float64 {
	best := 0.0
	for _, character := range in.PresentCharacters {
		state, err := a.relationships.Relationship(ctx, in.UserId, character.Id, in.Work.Id)
		if err != nil || state == nil {
			continue
		}
		if composite, _ := state.Evaluate(cfg); composite > best {
			best = composite
		}
	}
	return best
}

// recentTextWindow concatenates the text the lorebook keywords are checked
// against: the selected history plus the new user message.
func recentTextWindow(history []*entity.DialogueMessage, userMessage string) string {
	var b strings.Builder
	for _, m := range history {
		b.WriteString(m.Text)
		b.WriteByte('\n')
	}
	b.WriteString(userMessage)
	return b.String()
}
