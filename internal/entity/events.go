package entity

import "time"

// GameEvent - value of the "evt" field of outbound messages.
type GameEvent string

const (
	EventStart     GameEvent = "game-start"
	EventMove      GameEvent = "move"
	EventComplete  GameEvent = "game-complete"
	EventAbruptEnd GameEvent = "game-abrupt-end"
)

// CloseCode - WebSocket close status codes used by the server (RFC 6455).
type CloseCode int

const (
	CloseNormal          CloseCode = 1000
	CloseGoingAway       CloseCode = 1001
	CloseUnsupportedData CloseCode = 1003
	ClosePolicyViolation CloseCode = 1008
	CloseAbruptEnd       CloseCode = 1011
)

type StartMessage struct {
	Evt      GameEvent `json:"evt"`
	Role     Role      `json:"role"`
	NextTurn Role      `json:"nextTurn"`
}

type MoveMessage struct {
	Evt      GameEvent `json:"evt"`
	Role     Role      `json:"role"`
	Move     int       `json:"move"`
	NextTurn Role      `json:"nextTurn"`
}

// CompleteMessage - terminal payload of a finished game. Nil fields encode a draw.
type CompleteMessage struct {
	Evt         GameEvent `json:"evt"`
	Winner      *Role     `json:"winner"`
	WinningLine *Bitboard `json:"winningLine"`
}

type AbruptEndMessage struct {
	Evt GameEvent `json:"evt"`
}

func NewStartMessage(role, nextTurn Role) StartMessage {
	return StartMessage{Evt: EventStart, Role: role, NextTurn: nextTurn}
}

func NewMoveMessage(role Role, move int, nextTurn Role) MoveMessage {
	return MoveMessage{Evt: EventMove, Role: role, Move: move, NextTurn: nextTurn}
}

func NewWinMessage(winner Role, line Bitboard) CompleteMessage {
	return CompleteMessage{Evt: EventComplete, Winner: &winner, WinningLine: &line}
}

func NewDrawMessage() CompleteMessage {
	return CompleteMessage{Evt: EventComplete}
}

func NewAbruptEndMessage() AbruptEndMessage {
	return AbruptEndMessage{Evt: EventAbruptEnd}
}

// GameConstants - enumeration served to clients so they never hardcode role and event names.
type GameConstants struct {
	TicTacToeRole map[string]Role      `json:"TicTacToeRole"`
	GameEvent     map[string]GameEvent `json:"GameEvent"`
}

func NewGameConstants() GameConstants {
	return GameConstants{
		TicTacToeRole: map[string]Role{
			"x": RoleX,
			"o": RoleO,
		},
		GameEvent: map[string]GameEvent{
			"start":     EventStart,
			"move":      EventMove,
			"complete":  EventComplete,
			"abruptEnd": EventAbruptEnd,
		},
	}
}

// SessionSnapshot - view of an in-progress session kept in the live session directory.
type SessionSnapshot struct {
	ID        SessionID `json:"id"`
	PlayerX   ConnID    `json:"player_x"`
	PlayerO   ConnID    `json:"player_o"`
	Board     Board     `json:"board"`
	NextTurn  Role      `json:"next_turn"`
	Moves     int       `json:"moves"`
	StartedAt time.Time `json:"started_at"`
}
