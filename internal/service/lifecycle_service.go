package service

import (
	"context"
	"encoding/json"

	"ai-roleplay-be/internal/dto"
	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/internal/pkg/logger"
	"ai-roleplay-be/internal/repository/specification"
	"ai-roleplay-be/internal/repository/unitofwork"
	"ai-roleplay-be/pkg/events"
	natspkg "ai-roleplay-be/pkg/nats"
	"ai-roleplay-be/pkg/narrative/memorylife"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type ILifecycleService interface {
	Consume(ctx context.Context) error
}

// lifecycleService runs memory maintenance in the background, driven by the
// turn counter of completed exchanges. Passes run per character so one
// character's failure never blocks another's maintenance.
type lifecycleService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	policy         memorylife.Policy
	locks          *memorylife.KeyedMutex
	eventPublisher *natspkg.Publisher
	logger         logger.ILogger
}

func NewLifecycleService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	policy memorylife.Policy,
	locks *memorylife.KeyedMutex,
	eventPublisher *natspkg.Publisher,
	log logger.ILogger,
) ILifecycleService {
	return &lifecycleService{
		pubSub:         pubSub,
		topicName:      topicName,
		uowFactory:     uowFactory,
		policy:         policy,
		locks:          locks,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (ls *lifecycleService) Consume(ctx context.Context) error {
	messages, err := ls.pubSub.Subscribe(ctx, ls.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ls.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (ls *lifecycleService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishLifecycleMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		ls.logger.Error("Lifecycle", "Failed to unmarshal message, dropping", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // poison message, retrying cannot help
		return
	}

	due := ls.policy.DuePasses(payload.TurnCount)
	if len(due) == 0 {
		msg.Ack()
		return
	}

	ls.logger.Info("Lifecycle", "Running maintenance passes", map[string]interface{}{
		"turn_count": payload.TurnCount,
		"passes":     due,
		"characters": len(payload.CharacterIds),
	})

	failed := 0
	for _, characterId := range payload.CharacterIds {
		if err := ls.runCharacter(ctx, payload.UserId, characterId, payload.WorkId, payload.TurnCount, due); err != nil {
			ls.logger.Error("Lifecycle", "Maintenance failed for character", map[string]interface{}{
				"character_id": characterId,
				"error":        err.Error(),
			})
			failed++
		}
	}

	if failed > 0 {
		msg.Nack() // database errors are retriable
		return
	}
	msg.Ack()
}

// runCharacter applies the due passes to one character triple under its lock.
// Records are re-fetched before every pass so each pass sees the previous
// pass's writes.
func (ls *lifecycleService) runCharacter(ctx context.Context, userId, characterId, workId uuid.UUID, turnCount int, due []memorylife.Pass) error {
	unlock := ls.locks.Lock(userId, characterId, workId)
	defer unlock()

	uow := ls.uowFactory.NewUnitOfWork(ctx)

	for _, pass := range due {
		records, err := ls.fetchRecords(ctx, uow, userId, characterId, workId)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}

		switch pass {
		case memorylife.PassDecay:
			err = ls.runDecay(ctx, uow, records, turnCount)
		case memorylife.PassConsolidate:
			err = ls.runConsolidate(ctx, uow, records)
		case memorylife.PassPromote:
			err = ls.runPromote(ctx, uow, records, userId, characterId, workId)
		case memorylife.PassPrune:
			err = ls.runPrune(ctx, uow, records)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (ls *lifecycleService) fetchRecords(ctx context.Context, uow unitofwork.UnitOfWork, userId, characterId, workId uuid.UUID) ([]*entity.MemoryRecord, error) {
	return uow.MemoryRecordRepository().FindAll(ctx, specification.ByMemoryTriple{
		UserID:      userId,
		CharacterID: characterId,
		WorkID:      workId,
	})
}

func (ls *lifecycleService) runDecay(ctx context.Context, uow unitofwork.UnitOfWork, records []*entity.MemoryRecord, turnCount int) error {
	changed := memorylife.DecayPass(records, turnCount, ls.policy)
	if len(changed) == 0 {
		return nil
	}
	return uow.MemoryRecordRepository().Save(ctx, changed)
}

func (ls *lifecycleService) runConsolidate(ctx context.Context, uow unitofwork.UnitOfWork, records []*entity.MemoryRecord) error {
	result := memorylife.ConsolidatePass(records, ls.policy)
	if len(result.Merged) == 0 {
		return nil
	}

	repo := uow.MemoryRecordRepository()
	if err := repo.Save(ctx, result.Merged); err != nil {
		return err
	}

	ids := make([]uuid.UUID, len(result.Absorbed))
	for i, rec := range result.Absorbed {
		ids[i] = rec.Id
	}
	return repo.DeleteByIds(ctx, ids)
}

func (ls *lifecycleService) runPromote(ctx context.Context, uow unitofwork.UnitOfWork, records []*entity.MemoryRecord, userId, characterId, workId uuid.UUID) error {
	promoted := memorylife.PromotePass(records, ls.policy)
	if len(promoted) == 0 {
		return nil
	}
	if err := uow.MemoryRecordRepository().Save(ctx, promoted); err != nil {
		return err
	}

	if ls.eventPublisher != nil {
		for _, rec := range promoted {
			if err := ls.eventPublisher.Publish(ctx, events.NewMemoryPromotedEvent(userId, characterId, workId, rec.Id)); err != nil {
				ls.logger.Warn("Lifecycle", "Failed to publish promotion event", map[string]interface{}{
					"memory_id": rec.Id,
					"error":     err.Error(),
				})
			}
		}
	}
	return nil
}

func (ls *lifecycleService) runPrune(ctx context.Context, uow unitofwork.UnitOfWork, records []*entity.MemoryRecord) error {
	doomed := memorylife.PrunePass(records, ls.policy)
	if len(doomed) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(doomed))
	for i, rec := range doomed {
		ids[i] = rec.Id
	}
	return uow.MemoryRecordRepository().DeleteByIds(ctx, ids)
}
