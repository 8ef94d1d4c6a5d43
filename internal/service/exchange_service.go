package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-roleplay-be/internal/dto"
	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/internal/pkg/logger"
	"ai-roleplay-be/internal/pkg/serverutils"
	"ai-roleplay-be/internal/repository/memory"
	"ai-roleplay-be/internal/repository/specification"
	"ai-roleplay-be/internal/repository/unitofwork"
	"ai-roleplay-be/pkg/embedding"
	"ai-roleplay-be/pkg/events"
	"ai-roleplay-be/pkg/llm"
	natspkg "ai-roleplay-be/pkg/nats"
	"ai-roleplay-be/pkg/narrative/contextasm"
	"ai-roleplay-be/pkg/narrative/memorylife"
	"ai-roleplay-be/pkg/narrative/relationship"
	"ai-roleplay-be/pkg/narrative/turnstream"

	"github.com/google/uuid"
)

// TurnStreamer delivers extracted turns to the user's connected clients while
// the model is still responding.
type TurnStreamer interface {
	StreamTurn(userId, sessionId uuid.UUID, index int, turn dto.TurnPayload)
	StreamDone(userId, sessionId uuid.UUID, degraded bool)
}

type IExchangeService interface {
	Exchange(ctx context.Context, userId uuid.UUID, req *dto.ExchangeRequest) (*dto.ExchangeResponse, error)
}

type exchangeService struct {
	uowFactory        unitofwork.RepositoryFactory
	assembler         *contextasm.Assembler
	llmProvider       llm.LLMProvider
	embeddingProvider embedding.EmbeddingProvider
	publisherService  IPublisherService
	eventPublisher    *natspkg.Publisher
	sceneCache        *memory.SceneCache
	streamer          TurnStreamer
	locks             *memorylife.KeyedMutex
	logger            logger.ILogger
}

func NewExchangeService(
	uowFactory unitofwork.RepositoryFactory,
	assembler *contextasm.Assembler,
	llmProvider llm.LLMProvider,
	embeddingProvider embedding.EmbeddingProvider,
	publisherService IPublisherService,
	eventPublisher *natspkg.Publisher,
	sceneCache *memory.SceneCache,
	streamer TurnStreamer,
	locks *memorylife.KeyedMutex,
	log logger.ILogger,
) IExchangeService {
	return &exchangeService{
		uowFactory:        uowFactory,
		assembler:         assembler,
		llmProvider:       llmProvider,
		embeddingProvider: embeddingProvider,
		publisherService:  publisherService,
		eventPublisher:    eventPublisher,
		sceneCache:        sceneCache,
		streamer:          streamer,
		locks:             locks,
		logger:            log,
	}
}

// Exchange runs one full user exchange: assemble context, stream the model
// call while extracting turns, then fold the finished response back into
// dialogue history, memories, relationships and the scene.
func (s *exchangeService) Exchange(ctx context.Context, userId uuid.UUID, req *dto.ExchangeRequest) (*dto.ExchangeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.RoleplaySessionRepository().FindOne(ctx, specification.ByID{ID: req.SessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, serverutils.ErrNotFound
	}
	if session.UserId != userId {
		return nil, serverutils.ErrForbidden
	}

	work, err := uow.WorkRepository().FindOne(ctx, specification.ByID{ID: session.WorkId})
	if err != nil {
		return nil, err
	}
	if work == nil {
		return nil, serverutils.ErrNotFound
	}

	characters, err := uow.CharacterRepository().FindByWorkId(ctx, work.Id)
	if err != nil {
		return nil, err
	}

	scene := s.loadScene(ctx, uow, session.Id)
	present := presentCharacters(characters, scene)

	messages, err := uow.DialogueMessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: session.Id},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	queryEmbedding := s.embed(req.Message, "RETRIEVAL_QUERY")

	promptCtx := s.assembler.Build(ctx, contextasm.BuildInput{
		UserId:            userId,
		Work:              work,
		PresentCharacters: present,
		Messages:          messages,
		Lorebook:          s.loadLorebook(ctx, uow, work.Id),
		Scene:             scene,
		UserMessage:       req.Message,
		QueryEmbedding:    queryEmbedding,
		TurnCount:         session.TurnCount,
	})

	known := characterRefs(characters)

	full, err := s.streamModelCall(ctx, userId, session.Id, work, characters, promptCtx, req.Message, known)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	final := turnstream.FinalizeBuffer(full, known)
	s.streamer.StreamDone(userId, session.Id, final.Degraded)
	if final.Degraded {
		s.logger.Warn("Exchange", "Terminal buffer was malformed, degraded to narrator turn", map[string]interface{}{
			"session_id": session.Id,
		})
	}

	turnCount, err := uow.RoleplaySessionRepository().IncrementTurnCount(ctx, session.Id, 1)
	if err != nil {
		return nil, err
	}

	if err := s.persistMessages(ctx, uow, session.Id, req.Message, queryEmbedding, final.Turns, turnCount); err != nil {
		return nil, err
	}

	sceneRes := s.applySceneUpdate(ctx, uow, scene, final.Scene, characters, session.Id)

	s.foldIntoMemory(ctx, uow, userId, work, final, turnCount, sceneRes)

	s.publishLifecycle(ctx, userId, work.Id, present, turnCount)
	s.publishCompleted(ctx, session, userId, work.Id, turnCount)

	res := &dto.ExchangeResponse{
		SessionId: session.Id,
		TurnCount: turnCount,
		Degraded:  final.Degraded,
	}
	for _, t := range final.Turns {
		res.Turns = append(res.Turns, dto.TurnPayloadFrom(t))
	}
	if sceneRes != nil {
		res.Scene = &dto.ScenePayload{
			Location:          sceneRes.Location,
			Time:              sceneRes.Time,
			PresentCharacters: sceneRes.PresentCharacters,
			Mood:              sceneRes.Mood,
			MoodIntensity:     sceneRes.MoodIntensity,
			RecentEvents:      sceneRes.RecentEvents,
		}
	}
	return res, nil
}

// streamModelCall issues the model call, extracting and forwarding turns from
// the growing buffer after every chunk. Providers without streaming support
// fall back to one blocking call whose turns are forwarded in a single batch.
func (s *exchangeService) streamModelCall(
	ctx context.Context,
	userId, sessionId uuid.UUID,
	work *entity.Work,
	characters []*entity.Character,
	promptCtx *contextasm.PromptContext,
	userMessage string,
	known []turnstream.CharacterRef,
) (string, error) {
	history := []llm.Message{
		{Role: "system", Content: contextasm.BuildSystemPrompt(work, characters, promptCtx)},
	}
	for _, m := range promptCtx.History {
		role := m.Role
		if role != "user" {
			role = "assistant"
		}
		history = append(history, llm.Message{Role: role, Content: m.Text})
	}
	history = append(history, llm.Message{Role: "user", Content: userMessage})

	streaming, ok := s.llmProvider.(llm.StreamingProvider)
	if !ok {
		full, err := s.llmProvider.Chat(ctx, history)
		if err != nil {
			return "", err
		}
		for i, t := range turnstream.ExtractNewTurns(full, 0, known).NewTurns {
			s.streamer.StreamTurn(userId, sessionId, i, dto.TurnPayloadFrom(t))
		}
		return full, nil
	}

	var buffer string
	emitted := 0
	return streaming.ChatStream(ctx, history, func(chunk string) error {
		buffer += chunk
		result := turnstream.ExtractNewTurns(buffer, emitted, known)
		for _, t := range result.NewTurns {
			s.streamer.StreamTurn(userId, sessionId, emitted, dto.TurnPayloadFrom(t))
			emitted++
		}
		return nil
	})
}

func (s *exchangeService) persistMessages(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	sessionId uuid.UUID,
	userMessage string,
	userEmbedding []float32,
	turns []turnstream.Turn,
	turnCount int,
) error {
	batch := []*entity.DialogueMessage{{
		Id:        uuid.New(),
		SessionId: sessionId,
		Role:      "user",
		Text:      userMessage,
		Embedding: userEmbedding,
		TurnIndex: turnCount,
		CreatedAt: time.Now(),
	}}

	for _, t := range turns {
		msg := &entity.DialogueMessage{
			Id:          uuid.New(),
			SessionId:   sessionId,
			Role:        "assistant",
			Kind:        string(t.Kind),
			CharacterId: t.CharacterId,
			Text:        t.Text,
			Embedding:   s.embed(t.Text, "RETRIEVAL_DOCUMENT"),
			TurnIndex:   turnCount,
			CreatedAt:   time.Now(),
		}
		if t.Emotion != nil {
			msg.Emotion = string(t.Emotion.Primary)
			msg.EmotionIntensity = t.Emotion.Intensity
		}
		batch = append(batch, msg)
	}

	return uow.DialogueMessageRepository().CreateBulk(ctx, batch)
}

// foldIntoMemory applies the finished exchange to every involved character:
// relationship deltas, emotional history, shared experiences and new memory
// records. Per-character failures are logged and skipped so one character
// never blocks the others.
func (s *exchangeService) foldIntoMemory(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	userId uuid.UUID,
	work *entity.Work,
	final turnstream.FinalResult,
	turnCount int,
	scene *entity.SceneContext,
) {
	cfg := work.EffectiveRelationshipConfig()

	byCharacter := make(map[uuid.UUID][]turnstream.Turn)
	for _, t := range final.Turns {
		if t.CharacterId == nil {
			continue
		}
		byCharacter[*t.CharacterId] = append(byCharacter[*t.CharacterId], t)
	}

	var sceneEvents []string
	if final.Scene != nil {
		sceneEvents = final.Scene.Events
	}

	for characterId, turns := range byCharacter {
		if err := s.foldCharacter(ctx, uow, userId, characterId, work.Id, cfg, turns, sceneEvents, turnCount); err != nil {
			s.logger.Error("Exchange", "Failed to fold exchange into character memory", map[string]interface{}{
				"character_id": characterId,
				"error":        err.Error(),
			})
		}
	}
}

func (s *exchangeService) foldCharacter(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	userId, characterId, workId uuid.UUID,
	cfg relationship.Config,
	turns []turnstream.Turn,
	sceneEvents []string,
	turnCount int,
) error {
	unlock := s.locks.Lock(userId, characterId, workId)
	defer unlock()

	stateRepo := uow.RelationshipStateRepository()
	state, err := stateRepo.FindByTriple(ctx, userId, characterId, workId)
	if err != nil {
		return err
	}
	created := false
	if state == nil {
		state = entity.NewRelationshipState(userId, characterId, workId, cfg)
		created = true
	}

	_, before := state.Evaluate(cfg)

	var records []*entity.MemoryRecord
	for _, t := range turns {
		if t.Emotion != nil {
			deltas := cfg.DeltasForEmotion(string(t.Emotion.Primary), t.Emotion.Intensity)
			state.ApplyDeltas(deltas, cfg)
			state.RecordEmotion(*t.Emotion, turnCount)
		}

		in := memorylife.CreateInput{
			UserId:      userId,
			CharacterId: characterId,
			WorkId:      workId,
			Turn:        t,
			CurrentTurn: turnCount,
		}
		if !memorylife.HasNarrativeWeight(in) {
			continue
		}
		rec := memorylife.NewRecord(in)
		rec.Embedding = s.embed(rec.Interpretation, "RETRIEVAL_DOCUMENT")
		records = append(records, rec)
	}

	for _, event := range sceneEvents {
		state.AddExperience(event)
	}
	state.TotalTurns++

	if created {
		err = stateRepo.Create(ctx, state)
	} else {
		err = stateRepo.Update(ctx, state)
	}
	if err != nil {
		return err
	}

	_, after := state.Evaluate(cfg)
	if before.Key != after.Key {
		s.publishEvent(ctx, events.NewRelationshipLevelChangedEvent(userId, characterId, workId, before.Key, after.Key))
	}

	if len(records) > 0 {
		if err := uow.MemoryRecordRepository().CreateBulk(ctx, records); err != nil {
			return err
		}
	}
	return nil
}

// applySceneUpdate merges the model's scene report into the session's scene,
// writing through the cache. A missing report leaves the scene untouched.
func (s *exchangeService) applySceneUpdate(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	scene *entity.SceneContext,
	update *turnstream.SceneUpdate,
	characters []*entity.Character,
	sessionId uuid.UUID,
) *entity.SceneContext {
	if update == nil {
		return scene
	}
	if scene == nil {
		scene = &entity.SceneContext{SessionId: sessionId}
	}

	if update.Location != "" {
		scene.Location = update.Location
	}
	if update.Time != "" {
		scene.Time = update.Time
	}
	if update.Mood != "" {
		scene.Mood = update.Mood
		scene.MoodIntensity = update.MoodIntensity
	}
	if len(update.PresentCharacters) > 0 {
		known := characterRefs(characters)
		var ids []uuid.UUID
		for _, name := range update.PresentCharacters {
			if ref, ok := turnstream.MatchCharacter(name, known); ok {
				ids = append(ids, ref.Id)
			}
		}
		if len(ids) > 0 {
			scene.PresentCharacters = ids
		}
	}
	scene.AppendEvents(update.Events)
	scene.UpdatedAt = time.Now()

	if err := uow.SceneContextRepository().Upsert(ctx, scene); err != nil {
		s.logger.Error("Exchange", "Failed to persist scene update", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return scene
	}
	s.sceneCache.Save(scene)
	return scene
}

func (s *exchangeService) loadScene(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) *entity.SceneContext {
	if scene, ok := s.sceneCache.Get(sessionId); ok {
		return scene
	}
	scene, err := uow.SceneContextRepository().FindBySessionId(ctx, sessionId)
	if err != nil {
		s.logger.Warn("Exchange", "Scene load failed, continuing without scene", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return nil
	}
	if scene != nil {
		s.sceneCache.Save(scene)
	}
	return scene
}

func (s *exchangeService) loadLorebook(ctx context.Context, uow unitofwork.UnitOfWork, workId uuid.UUID) []*entity.LorebookEntry {
	entries, err := uow.LorebookRepository().FindByWorkId(ctx, workId)
	if err != nil {
		s.logger.Warn("Exchange", "Lorebook load failed, continuing without lore", map[string]interface{}{
			"work_id": workId,
			"error":   err.Error(),
		})
		return nil
	}
	return entries
}

// embed generates an embedding, degrading to nil on failure. Embedding
// unavailability must never block an exchange or a memory write.
func (s *exchangeService) embed(text, taskType string) []float32 {
	if text == "" {
		return nil
	}
	res, err := s.embeddingProvider.Generate(text, taskType)
	if err != nil {
		s.logger.Warn("Exchange", "Embedding generation failed, degrading to keyword-only", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return res.Embedding.Values
}

func (s *exchangeService) publishLifecycle(ctx context.Context, userId, workId uuid.UUID, present []*entity.Character, turnCount int) {
	msg := dto.PublishLifecycleMessage{
		UserId:    userId,
		WorkId:    workId,
		TurnCount: turnCount,
	}
	for _, c := range present {
		msg.CharacterIds = append(msg.CharacterIds, c.Id)
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Error("Exchange", "Failed to schedule lifecycle run", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *exchangeService) publishCompleted(ctx context.Context, session *entity.RoleplaySession, userId, workId uuid.UUID, turnCount int) {
	s.publishEvent(ctx, events.NewExchangeCompletedEvent(session.Id, userId, workId, turnCount))
}

// publishEvent is fire-and-forget; outward events are auxiliary
func (s *exchangeService) publishEvent(ctx context.Context, evt events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("Exchange", "Failed to publish event", map[string]interface{}{
			"type":  evt.EventType(),
			"error": err.Error(),
		})
	}
}

// presentCharacters resolves who is in the scene; an empty or missing scene
// means everyone is.
func presentCharacters(characters []*entity.Character, scene *entity.SceneContext) []*entity.Character {
	if scene == nil || len(scene.PresentCharacters) == 0 {
		return characters
	}
	present := make(map[uuid.UUID]bool, len(scene.PresentCharacters))
	for _, id := range scene.PresentCharacters {
		present[id] = true
	}
	var filtered []*entity.Character
	for _, c := range characters {
		if present[c.Id] {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		return characters
	}
	return filtered
}

func characterRefs(characters []*entity.Character) []turnstream.CharacterRef {
	refs := make([]turnstream.CharacterRef, len(characters))
	for i, c := range characters {
		refs[i] = turnstream.CharacterRef{Id: c.Id, Name: c.Name}
	}
	return refs
}
