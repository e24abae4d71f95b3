package usecase

import (
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-server/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

// GameMetrics - counters the game core reports to.
type GameMetrics interface {
	SessionStarted()
	SessionCompleted(outcome string)
	MoveProcessed(accepted bool)
	WaitingChanged(waiting bool)
}

// SessionObserver - receives the live state of in-progress sessions. Calls must not block.
type SessionObserver interface {
	SessionUpdated(snapshot entity.SessionSnapshot)
	SessionEnded(id entity.SessionID)
}

// GameManager - owns the matchmaker, every running session and the table that maps a connection
// to its session. It is driven from a single goroutine and holds no locks.
type GameManager struct {
	logger   *slog.Logger
	outbox   Outbox
	metrics  GameMetrics
	observer SessionObserver

	matchmaker    *Matchmaker
	players       map[entity.ConnID]*entity.Player
	sessions      map[entity.SessionID]*GameSession
	nextSessionID entity.SessionID
}

func NewGameManager(logger *slog.Logger, outbox Outbox, metrics GameMetrics, observer SessionObserver) *GameManager {
	if metrics == nil {
		metrics = nopMetrics{}
	}

	if observer == nil {
		observer = nopObserver{}
	}

	return &GameManager{
		logger:   logger.With("component", "game-manager"),
		outbox:   outbox,
		metrics:  metrics,
		observer: observer,

		matchmaker: NewMatchmaker(),
		players:    make(map[entity.ConnID]*entity.Player),
		sessions:   make(map[entity.SessionID]*GameSession),
	}
}

// Connect - registers a new connection and pairs it with the waiting one, if any.
func (that *GameManager) Connect(conn entity.ConnID) {
	log := that.logger.With("method", "Connect", "conn", conn)

	that.players[conn] = entity.NewPlayer(conn)

	waiting, paired := that.matchmaker.Pair(conn)
	if !paired {
		that.metrics.WaitingChanged(true)
		log.Debug("player is waiting for an opponent")

		return
	}

	that.metrics.WaitingChanged(false)

	id := that.nextSessionID
	that.nextSessionID++

	that.players[waiting].Attach(id, entity.RoleX)
	that.players[conn].Attach(id, entity.RoleO)

	session := NewGameSession(that.logger, that.outbox, id, waiting, conn)
	that.sessions[id] = session

	that.metrics.SessionStarted()
	that.observer.SessionUpdated(session.Snapshot())
}

// Move - forwards a move of conn to its session. Returns apperror.ErrNotInGame when conn
// has not been paired yet; illegal moves are ignored without error.
func (that *GameManager) Move(conn entity.ConnID, position int) error {
	session, player, err := that.sessionOf(conn)
	if err != nil {
		return err
	}

	accepted := session.TryMove(player.Role, position)
	that.metrics.MoveProcessed(accepted)

	if !accepted {
		return nil
	}

	if session.IsComplete() {
		that.finish(session)
		return nil
	}

	that.observer.SessionUpdated(session.Snapshot())

	return nil
}

// Interrupt - handles a closed or failed connection: clears the waiting slot or ends its game.
func (that *GameManager) Interrupt(conn entity.ConnID) {
	log := that.logger.With("method", "Interrupt", "conn", conn)

	player, ok := that.players[conn]
	if !ok {
		return
	}

	delete(that.players, conn)

	if that.matchmaker.Remove(conn) {
		that.metrics.WaitingChanged(false)
		log.Debug("waiting player left")
	}

	if !player.InGame() {
		return
	}

	session, ok := that.sessions[player.SessionID]
	if !ok {
		return
	}

	if !session.IsComplete() {
		session.ProcessDisconnect(conn)
		that.finish(session)
	}

	if session.Release(conn) {
		delete(that.sessions, session.ID())
		log.Debug("session released", "gameID", session.ID())
	}
}

// waiting - returns the connection in the waiting slot.
func (that *GameManager) waiting() (entity.ConnID, bool) {
	return that.matchmaker.Waiting()
}

// session - looks up a session that still has a member attached.
func (that *GameManager) session(id entity.SessionID) (*GameSession, error) {
	session, ok := that.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", apperror.ErrSessionNotFound, id)
	}

	return session, nil
}

// player - looks up the record of a live connection.
func (that *GameManager) player(conn entity.ConnID) (*entity.Player, bool) {
	player, ok := that.players[conn]
	return player, ok
}

func (that *GameManager) sessionOf(conn entity.ConnID) (*GameSession, *entity.Player, error) {
	player, ok := that.players[conn]
	if !ok || !player.InGame() {
		return nil, nil, apperror.ErrNotInGame
	}

	session, ok := that.sessions[player.SessionID]
	if !ok {
		return nil, nil, apperror.ErrNotInGame
	}

	return session, player, nil
}

func (that *GameManager) finish(session *GameSession) {
	that.metrics.SessionCompleted(string(session.Outcome()))
	that.observer.SessionEnded(session.ID())
}

type nopMetrics struct{}

func (nopMetrics) SessionStarted()         {}
func (nopMetrics) SessionCompleted(string) {}
func (nopMetrics) MoveProcessed(bool)      {}
func (nopMetrics) WaitingChanged(bool)     {}

type nopObserver struct{}

func (nopObserver) SessionUpdated(entity.SessionSnapshot) {}
func (nopObserver) SessionEnded(entity.SessionID)         {}
