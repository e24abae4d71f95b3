package service

import (
	"context"
	"testing"

	"github.com/rocketscienceinc/tictactoe-server/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSessionReader struct {
	mock.Mock
}

func (that *mockSessionReader) List(ctx context.Context) ([]entity.SessionSnapshot, error) {
	args := that.Called(ctx)
	sessions, _ := args.Get(0).([]entity.SessionSnapshot)
	return sessions, args.Error(1)
}

func (that *mockSessionReader) GetByID(ctx context.Context, id entity.SessionID) (*entity.SessionSnapshot, error) {
	args := that.Called(ctx, id)
	session, _ := args.Get(0).(*entity.SessionSnapshot)
	return session, args.Error(1)
}

func TestSessionService_ListSessions(t *testing.T) {
	ctx := context.Background()

	// Given: a directory with two live sessions
	repo := &mockSessionReader{}
	repo.On("List", ctx).Return([]entity.SessionSnapshot{{ID: 0}, {ID: 1}}, nil)

	// When
	sessions, err := NewSessionService(repo).ListSessions(ctx)

	// Then
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestSessionService_GetSession(t *testing.T) {
	ctx := context.Background()

	// Given: a directory without session 5
	repo := &mockSessionReader{}
	repo.On("GetByID", ctx, entity.SessionID(5)).Return(nil, apperror.ErrSessionNotFound)

	// When
	session, err := NewSessionService(repo).GetSession(ctx, 5)

	// Then: the not found error survives the wrapping
	require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	assert.Nil(t, session)
}
