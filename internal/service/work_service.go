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

type IWorkService interface {
	Create(ctx context.Context, authorId uuid.UUID, req *dto.CreateWorkRequest) (*dto.CreateWorkResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowWorkResponse, error)
	UpdateRelationshipConfig(ctx context.Context, authorId uuid.UUID, req *dto.UpdateRelationshipConfigRequest) error
	CreateCharacter(ctx context.Context, authorId uuid.UUID, req *dto.CreateCharacterRequest) (*dto.CharacterResponse, error)
}

type workService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewWorkService(uowFactory unitofwork.RepositoryFactory) IWorkService {
	return &workService{
		uowFactory: uowFactory,
	}
}

func (s *workService) Create(ctx context.Context, authorId uuid.UUID, req *dto.CreateWorkRequest) (*dto.CreateWorkResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	work := entity.Work{
		Id:                 uuid.New(),
		Title:              req.Title,
		Description:        req.Description,
		AuthorId:           authorId,
		RelationshipConfig: req.RelationshipConfig,
		CreatedAt:          time.Now(),
	}

	if err := uow.WorkRepository().Create(ctx, &work); err != nil {
		return nil, err
	}
	return &dto.CreateWorkResponse{Id: work.Id}, nil
}

func (s *workService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowWorkResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	work, err := uow.WorkRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if work == nil {
		return nil, serverutils.ErrNotFound
	}

	characters, err := uow.CharacterRepository().FindByWorkId(ctx, id)
	if err != nil {
		return nil, err
	}

	res := &dto.ShowWorkResponse{
		Id:                 work.Id,
		Title:              work.Title,
		Description:        work.Description,
		RelationshipConfig: work.RelationshipConfig,
		CreatedAt:          work.CreatedAt,
		UpdatedAt:          work.UpdatedAt,
	}
	for _, c := range characters {
		res.Characters = append(res.Characters, dto.CharacterResponse{
			Id:       c.Id,
			WorkId:   c.WorkId,
			Name:     c.Name,
			Persona:  c.Persona,
			Scenario: c.Scenario,
			Traits:   c.Traits,
			Greeting: c.Greeting,
		})
	}
	return res, nil
}

func (s *workService) UpdateRelationshipConfig(ctx context.Context, authorId uuid.UUID, req *dto.UpdateRelationshipConfigRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	work, err := uow.WorkRepository().FindOne(ctx, specification.ByID{ID: req.WorkId})
	if err != nil {
		return err
	}
	if work == nil {
		return serverutils.ErrNotFound
	}
	if work.AuthorId != authorId {
		return serverutils.ErrForbidden
	}

	// Normalize up front so a broken config degrades here, at authoring
	// time, instead of silently at play time.
	normalized := req.Config.Normalize()
	work.RelationshipConfig = &normalized

	return uow.WorkRepository().Update(ctx, work)
}

func (s *workService) CreateCharacter(ctx context.Context, authorId uuid.UUID, req *dto.CreateCharacterRequest) (*dto.CharacterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	work, err := uow.WorkRepository().FindOne(ctx, specification.ByID{ID: req.WorkId})
	if err != nil {
		return nil, err
	}
	if work == nil {
		return nil, serverutils.ErrNotFound
	}
	if work.AuthorId != authorId {
		return nil, serverutils.ErrForbidden
	}

	character := entity.Character{
		Id:        uuid.New(),
		WorkId:    req.WorkId,
		Name:      req.Name,
		Persona:   req.Persona,
		Scenario:  req.Scenario,
		Traits:    req.Traits,
		Greeting:  req.Greeting,
		CreatedAt: time.Now(),
	}
	if err := uow.CharacterRepository().Create(ctx, &character); err != nil {
		return nil, err
	}

	return &dto.CharacterResponse{
		Id:       character.Id,
		WorkId:   character.WorkId,
		Name:     character.Name,
		Persona:  character.Persona,
		Scenario: character.Scenario,
		Traits:   character.Traits,
		Greeting: character.Greeting,
	}, nil
}
