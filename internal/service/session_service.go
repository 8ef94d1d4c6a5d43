package service

import (
	"context"
	"time"

	"ai-roleplay-be/internal/dto"
	"ai-roleplay-be/internal/entity"
	"ai-roleplay-be/internal/pkg/serverutils"
	"ai-roleplay-be/internal/repository/memory"
	"ai-roleplay-be/internal/repository/specification"
	"ai-roleplay-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type ISessionService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error)
	History(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, limit, offset int) (*dto.SessionHistoryResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
}

type sessionService struct {
	uowFactory unitofwork.RepositoryFactory
	sceneCache *memory.SceneCache
}

func NewSessionService(uowFactory unitofwork.RepositoryFactory, sceneCache *memory.SceneCache) ISessionService {
	return &sessionService{
		uowFactory: uowFactory,
		sceneCache: sceneCache,
	}
}

// Create opens a session and seeds the history with the characters' greeting
// lines so the first exchange already has dialogue to build on.
func (s *sessionService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	work, err := uow.WorkRepository().FindOne(ctx, specification.ByID{ID: req.WorkId})
	if err != nil {
		return nil, err
	}
	if work == nil {
		return nil, serverutils.ErrNotFound
	}

	title := req.Title
	if title == "" {
		title = work.Title
	}

	session := entity.RoleplaySession{
		Id:        uuid.New(),
		UserId:    userId,
		WorkId:    req.WorkId,
		Title:     title,
		CreatedAt: time.Now(),
	}
	if err := uow.RoleplaySessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}

	characters, err := uow.CharacterRepository().FindByWorkId(ctx, req.WorkId)
	if err != nil {
		return nil, err
	}

	var greetings []*entity.DialogueMessage
	for _, c := range characters {
		if c.Greeting == "" {
			continue
		}
		characterId := c.Id
		greetings = append(greetings, &entity.DialogueMessage{
			Id:          uuid.New(),
			SessionId:   session.Id,
			Role:        "assistant",
			Kind:        "dialogue",
			CharacterId: &characterId,
			Text:        c.Greeting,
			CreatedAt:   time.Now(),
		})
	}
	if len(greetings) > 0 {
		if err := uow.DialogueMessageRepository().CreateBulk(ctx, greetings); err != nil {
			return nil, err
		}
	}

	return &dto.CreateSessionResponse{Id: session.Id}, nil
}

func (s *sessionService) List(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.RoleplaySessionRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.SessionResponse, len(sessions))
	for i, sess := range sessions {
		res[i] = &dto.SessionResponse{
			Id:        sess.Id,
			WorkId:    sess.WorkId,
			Title:     sess.Title,
			TurnCount: sess.TurnCount,
			CreatedAt: sess.CreatedAt,
			UpdatedAt: sess.UpdatedAt,
		}
	}
	return res, nil
}

func (s *sessionService) History(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, limit, offset int) (*dto.SessionHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.ownedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	specs := []specification.Specification{
		specification.BySessionID{SessionID: session.Id},
		specification.OrderBy{Field: "created_at"},
	}
	if limit > 0 {
		specs = append(specs, specification.Pagination{Limit: limit, Offset: offset})
	}

	messages, err := uow.DialogueMessageRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := &dto.SessionHistoryResponse{SessionId: session.Id}
	for _, m := range messages {
		res.Messages = append(res.Messages, dto.MessageResponse{
			Id:               m.Id,
			Role:             m.Role,
			Kind:             m.Kind,
			CharacterId:      m.CharacterId,
			Text:             m.Text,
			Emotion:          m.Emotion,
			EmotionIntensity: m.EmotionIntensity,
			TurnIndex:        m.TurnIndex,
			CreatedAt:        m.CreatedAt,
		})
	}
	return res, nil
}

func (s *sessionService) Delete(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.ownedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DialogueMessageRepository().DeleteBySessionId(ctx, session.Id); err != nil {
		return err
	}
	if err := uow.SceneContextRepository().DeleteBySessionId(ctx, session.Id); err != nil {
		return err
	}
	if err := uow.RoleplaySessionRepository().Delete(ctx, session.Id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.sceneCache.Delete(session.Id)
	return nil
}

func (s *sessionService) ownedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.RoleplaySession, error) {
	session, err := uow.RoleplaySessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, serverutils.ErrNotFound
	}
	if session.UserId != userId {
		return nil, serverutils.ErrForbidden
	}
	return session, nil
}
