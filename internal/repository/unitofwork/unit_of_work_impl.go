package unitofwork

import (
	"context"
	"fmt"

	"ai-roleplay-be/internal/repository/contract"
	"ai-roleplay-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) WorkRepository() contract.WorkRepository {
	return implementation.NewWorkRepository(u.getDB())
}

func (u *UnitOfWorkImpl) CharacterRepository() contract.CharacterRepository {
	return implementation.NewCharacterRepository(u.getDB())
}

func (u *UnitOfWorkImpl) RoleplaySessionRepository() contract.RoleplaySessionRepository {
	return implementation.NewRoleplaySessionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) DialogueMessageRepository() contract.DialogueMessageRepository {
	return implementation.NewDialogueMessageRepository(u.getDB())
}

func (u *UnitOfWorkImpl) MemoryRecordRepository() contract.MemoryRecordRepository {
	return implementation.NewMemoryRecordRepository(u.getDB())
}

func (u *UnitOfWorkImpl) RelationshipStateRepository() contract.RelationshipStateRepository {
	return implementation.NewRelationshipStateRepository(u.getDB())
}

func (u *UnitOfWorkImpl) LorebookRepository() contract.LorebookRepository {
	return implementation.NewLorebookRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SceneContextRepository() contract.SceneContextRepository {
	return implementation.NewSceneContextRepository(u.getDB())
}
