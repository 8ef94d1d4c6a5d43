package service

import (
	"context"

	"ai-roleplay-be/internal/dto"
	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/internal/pkg/logger"
	"ai-roleplay-be/internal/repository/specification"
	"ai-roleplay-be/internal/repository/unitofwork"
	"ai-roleplay-be/pkg/narrative/memorylife"

	"github.com/google/uuid"
)

// IRetrievalService feeds the context assembler: top-ranked memories and the
// relationship state per character. It also serves relationship snapshots to
// the API.
type IRetrievalService interface {
	TopMemories(ctx context.Context, userId, characterId, workId uuid.UUID, queryEmbedding []float32, queryText string) ([]memorylife.ScoredRecord, error)
	Relationship(ctx context.Context, userId, characterId, workId uuid.UUID) (*entity.RelationshipState, error)
	RelationshipSnapshot(ctx context.Context, userId, characterId, workId uuid.UUID) (*dto.RelationshipSnapshotResponse, error)
}

type retrievalService struct {
	uowFactory unitofwork.RepositoryFactory
	policy     memorylife.Policy
	logger     logger.ILogger
}

func NewRetrievalService(
	uowFactory unitofwork.RepositoryFactory,
	policy memorylife.Policy,
	log logger.ILogger,
) IRetrievalService {
	return &retrievalService{
		uowFactory: uowFactory,
		policy:     policy,
		logger:     log,
	}
}

// TopMemories ranks one character's memories against the query. With an
// embedding, pgvector pre-filters candidates in the database and the blend
// ranking runs over that shortlist; without one (embedding provider down) the
// whole triple is loaded and ranked by keyword overlap.
func (s *retrievalService) TopMemories(ctx context.Context, userId, characterId, workId uuid.UUID, queryEmbedding []float32, queryText string) ([]memorylife.ScoredRecord, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.MemoryRecordRepository()

	var candidates []*entity.MemoryRecord
	if len(queryEmbedding) > 0 {
		// Oversample so the blend ranking has room to reorder
		scored, err := repo.SearchSimilar(ctx, userId, characterId, workId, queryEmbedding, s.policy.TopK*3, s.policy.ImportanceFloor)
		if err != nil {
			return nil, err
		}
		for _, sr := range scored {
			candidates = append(candidates, sr.Record)
		}
	} else {
		all, err := repo.FindAll(ctx, specification.ByMemoryTriple{
			UserID:      userId,
			CharacterID: characterId,
			WorkID:      workId,
		})
		if err != nil {
			return nil, err
		}
		candidates = all
	}

	ranked := memorylife.Rank(candidates, queryEmbedding, queryText, s.policy)

	s.touchRetrieved(ctx, uow, ranked)

	return ranked, nil
}

// touchRetrieved bumps mention counters on the memories that surfaced.
// Best-effort: a failed write costs a mention, not the exchange. The write
// is an id-scoped UPDATE so a retrieval racing a consolidate or prune pass
// cannot re-insert a record the pass just deleted.
func (s *retrievalService) touchRetrieved(ctx context.Context, uow unitofwork.UnitOfWork, ranked []memorylife.ScoredRecord) {
	if len(ranked) == 0 {
		return
	}
	ids := make([]uuid.UUID, 0, len(ranked))
	for _, sr := range ranked {
		sr.Record.Touch(sr.Record.LastTouchedTurn)
		ids = append(ids, sr.Record.Id)
	}
	if err := uow.MemoryRecordRepository().TouchMentions(ctx, ids); err != nil {
		s.logger.Warn("Retrieval", "Failed to persist mention counters", map[string]interface{}{
			"error": err.Error(),
			"count": len(ids),
		})
	}
}

func (s *retrievalService) Relationship(ctx context.Context, userId, characterId, workId uuid.UUID) (*entity.RelationshipState, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.RelationshipStateRepository().FindByTriple(ctx, userId, characterId, workId)
}

func (s *retrievalService) RelationshipSnapshot(ctx context.Context, userId, characterId, workId uuid.UUID) (*dto.RelationshipSnapshotResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	work, err := uow.WorkRepository().FindOne(ctx, specification.ByID{ID: workId})
	if err != nil {
		return nil, err
	}
	cfg := work.EffectiveRelationshipConfig()

	state, err := uow.RelationshipStateRepository().FindByTriple(ctx, userId, characterId, workId)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = entity.NewRelationshipState(userId, characterId, workId, cfg)
	}

	composite, level := state.Evaluate(cfg)
	return &dto.RelationshipSnapshotResponse{
		CharacterId:    characterId,
		AxisValues:     state.AxisValues,
		CompositeScore: composite,
		LevelKey:       level.Key,
		LevelLabel:     level.Label,
		KnownFacts:     state.KnownFacts,
		TotalTurns:     state.TotalTurns,
	}, nil
}
