package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByUserID struct {
	UserID uuid.UUID
}

func (s ByUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

type ByWorkID struct {
	WorkID uuid.UUID
}

func (s ByWorkID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("work_id = ?", s.WorkID)
}

type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

type ByCharacterID struct {
	CharacterID uuid.UUID
}

func (s ByCharacterID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("character_id = ?", s.CharacterID)
}

// ByMemoryTriple scopes memory and relationship queries to one
// (user, character, work) triple.
type ByMemoryTriple struct {
	UserID      uuid.UUID
	CharacterID uuid.UUID
	WorkID      uuid.UUID
}

func (s ByMemoryTriple) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ? AND character_id = ? AND work_id = ?", s.UserID, s.CharacterID, s.WorkID)
}

type PromotedOnly struct{}

func (s PromotedOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("promoted = true")
}
