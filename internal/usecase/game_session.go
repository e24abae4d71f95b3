package usecase

import (
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
	"github.com/rocketscienceinc/tictactoe-server/internal/tictactoe"
)

type SessionState int

const (
	StateWaitingStart SessionState = iota
	StateInProgress
	StateComplete
)

type Outcome string

const (
	OutcomeNone   Outcome = ""
	OutcomeWin    Outcome = "win"
	OutcomeDraw   Outcome = "draw"
	OutcomeAbrupt Outcome = "abrupt"
)

// Outbox - delivers outbound frames to connections. Both calls are fire-and-forget.
type Outbox interface {
	Send(conn entity.ConnID, msg any)
	Close(conn entity.ConnID, code entity.CloseCode, reason any)
}

// GameSession - one game between two connections. It is not safe for concurrent use;
// callers serialize every call.
type GameSession struct {
	logger *slog.Logger
	outbox Outbox

	id        entity.SessionID
	players   [2]entity.ConnID
	released  [2]bool
	board     entity.Board
	nextTurn  entity.Role
	state     SessionState
	outcome   Outcome
	moves     int
	startedAt time.Time
}

// NewGameSession - creates a session and notifies both members that the game has started.
// The first connection plays x.
func NewGameSession(logger *slog.Logger, outbox Outbox, id entity.SessionID, x, o entity.ConnID) *GameSession {
	session := &GameSession{
		logger:    logger.With("gameID", id),
		outbox:    outbox,
		id:        id,
		players:   [2]entity.ConnID{x, o},
		nextTurn:  entity.RoleX,
		state:     StateWaitingStart,
		startedAt: time.Now(),
	}

	outbox.Send(x, entity.NewStartMessage(entity.RoleX, session.nextTurn))
	outbox.Send(o, entity.NewStartMessage(entity.RoleO, session.nextTurn))
	session.state = StateInProgress

	session.logger.Info("game started", "playerX", x, "playerO", o)

	return session
}

func (that *GameSession) ID() entity.SessionID {
	return that.id
}

func (that *GameSession) State() SessionState {
	return that.state
}

func (that *GameSession) IsComplete() bool {
	return that.state == StateComplete
}

func (that *GameSession) Outcome() Outcome {
	return that.outcome
}

func (that *GameSession) Board() entity.Board {
	return that.board
}

func (that *GameSession) NextTurn() entity.Role {
	return that.nextTurn
}

// RoleOf - returns the role a member plays, or RoleNone for strangers.
func (that *GameSession) RoleOf(conn entity.ConnID) entity.Role {
	switch conn {
	case that.players[0]:
		return entity.RoleX
	case that.players[1]:
		return entity.RoleO
	default:
		return entity.RoleNone
	}
}

// TryMove - applies the move when it is legal and reports whether it was accepted.
// Illegal moves and moves after completion are silently ignored.
func (that *GameSession) TryMove(role entity.Role, position int) bool {
	if that.state != StateInProgress {
		return false
	}

	if !tictactoe.IsValidMove(that.nextTurn, role, that.board, position) {
		return false
	}

	that.nextTurn = tictactoe.ApplyMove(&that.board, role, position)
	that.moves++

	msg := entity.NewMoveMessage(role, position, that.nextTurn)
	for _, conn := range that.players {
		that.outbox.Send(conn, msg)
	}

	// win is checked before fullness: a winning last move is never a draw
	if line, ok := tictactoe.WinningLine(that.board, role); ok {
		that.complete(OutcomeWin, entity.NewWinMessage(role, line))
	} else if tictactoe.IsFull(that.board) {
		that.complete(OutcomeDraw, entity.NewDrawMessage())
	}

	return true
}

// ProcessDisconnect - ends an in-progress game because conn went away; only the peer is told.
func (that *GameSession) ProcessDisconnect(conn entity.ConnID) {
	if that.state == StateComplete {
		return
	}

	that.state = StateComplete
	that.outcome = OutcomeAbrupt

	that.outbox.Close(that.peerOf(conn), entity.CloseAbruptEnd, entity.NewAbruptEndMessage())

	that.logger.Info("game ended abruptly", "disconnected", conn)
}

// Release - records that a member's transport is gone. Returns true once both are gone.
func (that *GameSession) Release(conn entity.ConnID) bool {
	for i, member := range that.players {
		if member == conn {
			that.released[i] = true
		}
	}

	return that.released[0] && that.released[1]
}

// Snapshot - returns the current state for the live session directory.
func (that *GameSession) Snapshot() entity.SessionSnapshot {
	return entity.SessionSnapshot{
		ID:        that.id,
		PlayerX:   that.players[0],
		PlayerO:   that.players[1],
		Board:     that.board,
		NextTurn:  that.nextTurn,
		Moves:     that.moves,
		StartedAt: that.startedAt,
	}
}

func (that *GameSession) complete(outcome Outcome, reason entity.CompleteMessage) {
	that.state = StateComplete
	that.outcome = outcome

	for _, conn := range that.players {
		that.outbox.Close(conn, entity.CloseNormal, reason)
	}

	that.logger.Info("game completed normally", "outcome", outcome, "moves", that.moves)
}

func (that *GameSession) peerOf(conn entity.ConnID) entity.ConnID {
	if that.players[0] == conn {
		return that.players[1]
	}
	return that.players[0]
}
