package service

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

// SessionService - read side of the live session directory.
type SessionService interface {
	ListSessions(ctx context.Context) ([]entity.SessionSnapshot, error)
	GetSession(ctx context.Context, id entity.SessionID) (*entity.SessionSnapshot, error)
}

type sessionReader interface {
	List(ctx context.Context) ([]entity.SessionSnapshot, error)
	GetByID(ctx context.Context, id entity.SessionID) (*entity.SessionSnapshot, error)
}

type sessionService struct {
	sessionRepo sessionReader
}

func NewSessionService(sessionRepo sessionReader) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
	}
}

func (that *sessionService) ListSessions(ctx context.Context) ([]entity.SessionSnapshot, error) {
	sessions, err := that.sessionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve sessions from storage: %w", err)
	}

	return sessions, nil
}

func (that *sessionService) GetSession(ctx context.Context, id entity.SessionID) (*entity.SessionSnapshot, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve session from storage: %w", err)
	}

	return session, nil
}
