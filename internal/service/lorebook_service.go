package service

import (
	"context"
	"time"

	"ai-roleplay-be/internal/dto"
	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/internal/pkg/serverutils"
	"ai-roleplay-be/internal/repository/specification"
	"ai-roleplay-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type ILorebookService interface {
	Create(ctx context.Context, authorId uuid.UUID, req *dto.CreateLorebookEntryRequest) (*dto.LorebookEntryResponse, error)
	Update(ctx context.Context, authorId uuid.UUID, req *dto.UpdateLorebookEntryRequest) (*dto.LorebookEntryResponse, error)
	Delete(ctx context.Context, authorId uuid.UUID, id uuid.UUID) error
	ListByWork(ctx context.Context, workId uuid.UUID) ([]*dto.LorebookEntryResponse, error)
}

type lorebookService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewLorebookService(uowFactory unitofwork.RepositoryFactory) ILorebookService {
	return &lorebookService{
		uowFactory: uowFactory,
	}
}

func (s *lorebookService) Create(ctx context.Context, authorId uuid.UUID, req *dto.CreateLorebookEntryRequest) (*dto.LorebookEntryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := s.verifyAuthor(ctx, uow, req.WorkId, authorId); err != nil {
		return nil, err
	}

	entry := entity.LorebookEntry{
		Id:                  uuid.New(),
		WorkId:              req.WorkId,
		Title:               req.Title,
		Content:             req.Content,
		Keywords:            req.Keywords,
		Priority:            req.Priority,
		MinIntimacy:         req.MinIntimacy,
		MinTurns:            req.MinTurns,
		RequiredCharacterId: req.RequiredCharacterId,
		CreatedAt:           time.Now(),
	}
	if err := uow.LorebookRepository().Create(ctx, &entry); err != nil {
		return nil, err
	}
	return toLorebookResponse(&entry), nil
}

func (s *lorebookService) Update(ctx context.Context, authorId uuid.UUID, req *dto.UpdateLorebookEntryRequest) (*dto.LorebookEntryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	entry, err := uow.LorebookRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, serverutils.ErrNotFound
	}
	if err := s.verifyAuthor(ctx, uow, entry.WorkId, authorId); err != nil {
		return nil, err
	}

	entry.Title = req.Title
	entry.Content = req.Content
	entry.Keywords = req.Keywords
	entry.Priority = req.Priority
	entry.MinIntimacy = req.MinIntimacy
	entry.MinTurns = req.MinTurns
	entry.RequiredCharacterId = req.RequiredCharacterId

	if err := uow.LorebookRepository().Update(ctx, entry); err != nil {
		return nil, err
	}
	return toLorebookResponse(entry), nil
}

func (s *lorebookService) Delete(ctx context.Context, authorId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	entry, err := uow.LorebookRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if entry == nil {
		return serverutils.ErrNotFound
	}
	if err := s.verifyAuthor(ctx, uow, entry.WorkId, authorId); err != nil {
		return err
	}
	return uow.LorebookRepository().Delete(ctx, id)
}

func (s *lorebookService) ListByWork(ctx context.Context, workId uuid.UUID) ([]*dto.LorebookEntryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	entries, err := uow.LorebookRepository().FindByWorkId(ctx, workId)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.LorebookEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = toLorebookResponse(e)
	}
	return res, nil
}

func (s *lorebookService) verifyAuthor(ctx context.Context, uow unitofwork.UnitOfWork, workId, authorId uuid.UUID) error {
	work, err := uow.WorkRepository().FindOne(ctx, specification.ByID{ID: workId})
	if err != nil {
		return err
	}
	if work == nil {
		return serverutils.ErrNotFound
	}
	if work.AuthorId != authorId {
		return serverutils.ErrForbidden
	}
	return nil
}

func toLorebookResponse(e *entity.LorebookEntry) *dto.LorebookEntryResponse {
	return &dto.LorebookEntryResponse{
		Id:                  e.Id,
		WorkId:              e.WorkId,
		Title:               e.Title,
		Content:             e.Content,
		Keywords:            e.Keywords,
		Priority:            e.Priority,
		MinIntimacy:         e.MinIntimacy,
		MinTurns:            e.MinTurns,
		RequiredCharacterId: e.RequiredCharacterId,
	}
}
