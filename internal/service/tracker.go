package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-server/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

const trackerQueueSize = 1024

type sessionWriter interface {
	Save(ctx context.Context, snapshot entity.SessionSnapshot) error
	DeleteByID(ctx context.Context, id entity.SessionID) error
	DeleteAll(ctx context.Context) error
}

type trackerEvent struct {
	snapshot entity.SessionSnapshot
	ended    bool
}

// SessionTracker - mirrors in-progress sessions into the live session directory.
// SessionUpdated and SessionEnded never block; Run does the writes.
type SessionTracker struct {
	logger      *slog.Logger
	sessionRepo sessionWriter

	events chan trackerEvent
}

func NewSessionTracker(logger *slog.Logger, sessionRepo sessionWriter) *SessionTracker {
	return &SessionTracker{
		logger:      logger.With("component", "session-tracker"),
		sessionRepo: sessionRepo,

		events: make(chan trackerEvent, trackerQueueSize),
	}
}

func (that *SessionTracker) SessionUpdated(snapshot entity.SessionSnapshot) {
	that.push(trackerEvent{snapshot: snapshot})
}

func (that *SessionTracker) SessionEnded(id entity.SessionID) {
	that.push(trackerEvent{snapshot: entity.SessionSnapshot{ID: id}, ended: true})
}

// Run - clears entries left by an earlier process, then applies queued events until ctx is done.
func (that *SessionTracker) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")

	if err := that.sessionRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear stale sessions: %w", err)
	}

	log.Info("session tracker started")

	for {
		select {
		case <-ctx.Done():
			log.Info("session tracker stopped")
			return nil

		case ev := <-that.events:
			that.apply(ctx, ev)
		}
	}
}

func (that *SessionTracker) push(ev trackerEvent) {
	select {
	case that.events <- ev:
	default:
		that.logger.Warn("tracker queue is full, dropping event", "gameID", ev.snapshot.ID, "ended", ev.ended)
	}
}

func (that *SessionTracker) apply(ctx context.Context, ev trackerEvent) {
	log := that.logger.With("method", "apply", "gameID", ev.snapshot.ID)

	if ev.ended {
		err := that.sessionRepo.DeleteByID(ctx, ev.snapshot.ID)
		if err != nil && !errors.Is(err, apperror.ErrSessionNotFound) {
			log.Error("failed to remove session", "error", err)
		}

		return
	}

	if err := that.sessionRepo.Save(ctx, ev.snapshot); err != nil {
		log.Error("failed to save session", "error", err)
	}
}
