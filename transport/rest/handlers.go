package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rocketscienceinc/tictactoe-server/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

type sessionService interface {
	ListSessions(ctx context.Context) ([]entity.SessionSnapshot, error)
	GetSession(ctx context.Context, id entity.SessionID) (*entity.SessionSnapshot, error)
}

type handlers struct {
	logger    *slog.Logger
	sessions  sessionService
	constants entity.GameConstants
}

func newHandlers(logger *slog.Logger, sessions sessionService) *handlers {
	return &handlers{
		logger:    logger.With("component", "rest"),
		sessions:  sessions,
		constants: entity.NewGameConstants(),
	}
}

func (that *handlers) gameConstants(c *gin.Context) {
	c.JSON(http.StatusOK, that.constants)
}

func (that *handlers) listSessions(c *gin.Context) {
	log := that.logger.With("method", "listSessions")

	if that.sessions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live session directory is disabled"})
		return
	}

	sessions, err := that.sessions.ListSessions(c.Request.Context())
	if err != nil {
		log.Error("failed to list sessions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sessions"})

		return
	}

	c.JSON(http.StatusOK, sessions)
}

func (that *handlers) getSession(c *gin.Context) {
	log := that.logger.With("method", "getSession")

	if that.sessions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live session directory is disabled"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session id must be a non-negative integer"})
		return
	}

	session, err := that.sessions.GetSession(c.Request.Context(), entity.SessionID(id))
	if errors.Is(err, apperror.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	if err != nil {
		log.Error("failed to get session", "gameID", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get session"})

		return
	}

	c.JSON(http.StatusOK, session)
}
