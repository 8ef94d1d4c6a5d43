package unitofwork

import (
	"context"

	"ai-roleplay-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	WorkRepository() contract.WorkRepository
	CharacterRepository() contract.CharacterRepository
	RoleplaySessionRepository() contract.RoleplaySessionRepository
	DialogueMessageRepository() contract.DialogueMessageRepository

	MemoryRecordRepository() contract.MemoryRecordRepository
	RelationshipStateRepository() contract.RelationshipStateRepository
	LorebookRepository() contract.LorebookRepository
	SceneContextRepository() contract.SceneContextRepository
}
