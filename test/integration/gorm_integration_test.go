package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/internal/repository/specification"
	"ai-roleplay-be/internal/repository/unitofwork"
	"ai-roleplay-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.WorkRepository())
	assert.NotNil(t, uow.MemoryRecordRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check Dialogue Message Repository", func(t *testing.T) {
		count, err := uow.DialogueMessageRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Dialogue message count: %d", count)
	})

	t.Run("Check Transactional Session Setup", func(t *testing.T) {
		ctx := context.Background()

		work := &entity.Work{
			Id:        uuid.New(),
			Title:     "Integration Work " + uuid.New().String(),
			AuthorId:  uuid.New(),
			CreatedAt: time.Now(),
		}
		err := uow.WorkRepository().Create(ctx, work)
		assert.NoError(t, err)

		character := &entity.Character{
			Id:        uuid.New(),
			WorkId:    work.Id,
			Name:      "Integration Character",
			Greeting:  "Hello there.",
			CreatedAt: time.Now(),
		}
		err = uow.CharacterRepository().Create(ctx, character)
		assert.NoError(t, err)

		// Transaction Test
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		session := &entity.RoleplaySession{
			Id:        uuid.New(),
			UserId:    uuid.New(),
			WorkId:    work.Id,
			Title:     work.Title,
			CreatedAt: time.Now(),
		}
		err = uow.RoleplaySessionRepository().Create(ctx, session)
		assert.NoError(t, err)

		characterId := character.Id
		messages := []*entity.DialogueMessage{{
			Id:          uuid.New(),
			SessionId:   session.Id,
			Role:        "assistant",
			Kind:        "dialogue",
			CharacterId: &characterId,
			Text:        character.Greeting,
			CreatedAt:   time.Now(),
		}}
		err = uow.DialogueMessageRepository().CreateBulk(ctx, messages)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		// Verify the turn counter round trip against the committed row
		turnCount, err := uow.RoleplaySessionRepository().IncrementTurnCount(ctx, session.Id, 1)
		assert.NoError(t, err)
		assert.Equal(t, 1, turnCount)

		history, err := uow.DialogueMessageRepository().FindAll(ctx,
			specification.BySessionID{SessionID: session.Id},
		)
		assert.NoError(t, err)
		assert.Len(t, history, 1)

		t.Log("Successfully created Session with greeting in Transaction")
	})

	t.Run("Check Keyword Only Memory Persistence", func(t *testing.T) {
		ctx := context.Background()
		repo := uow.MemoryRecordRepository()

		// No embedding: the column must persist as NULL, not fail the insert
		record := &entity.MemoryRecord{
			Id:             uuid.New(),
			UserId:         uuid.New(),
			CharacterId:    uuid.New(),
			WorkId:         uuid.New(),
			Interpretation: "keyword only memory",
			MemoryType:     entity.MemoryEvent,
			Importance:     0.6,
			Strength:       1.0,
			Keywords:       []string{"keyword", "only"},
			CreatedAt:      time.Now(),
		}
		err := repo.Create(ctx, record)
		assert.NoError(t, err)

		stored, err := repo.FindOne(ctx, specification.ByID{ID: record.Id})
		assert.NoError(t, err)
		if assert.NotNil(t, stored) {
			assert.Nil(t, stored.Embedding)
			assert.Equal(t, []string{"keyword", "only"}, stored.Keywords)
		}

		// Touch bumps the counter in place
		err = repo.TouchMentions(ctx, []uuid.UUID{record.Id})
		assert.NoError(t, err)

		stored, err = repo.FindOne(ctx, specification.ByID{ID: record.Id})
		assert.NoError(t, err)
		if assert.NotNil(t, stored) {
			assert.Equal(t, 1, stored.MentionedCount)
		}

		// Touch after delete is a no-op: the record must not come back
		err = repo.DeleteByIds(ctx, []uuid.UUID{record.Id})
		assert.NoError(t, err)

		err = repo.TouchMentions(ctx, []uuid.UUID{record.Id})
		assert.NoError(t, err)

		stored, err = repo.FindOne(ctx, specification.ByID{ID: record.Id})
		assert.NoError(t, err)
		assert.Nil(t, stored)
	})
}
