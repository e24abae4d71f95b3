package usecase

import (
	"math/bits"
	"testing"

	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	connX entity.ConnID = 10
	connO entity.ConnID = 20
)

type move struct {
	role     entity.Role
	position int
}

func newTestSession(t *testing.T) (*GameSession, *recordingOutbox) {
	t.Helper()

	outbox := &recordingOutbox{}
	session := NewGameSession(discardLogger(), outbox, 1, connX, connO)

	return session, outbox
}

func play(t *testing.T, session *GameSession, moves ...move) {
	t.Helper()

	for _, m := range moves {
		require.True(t, session.TryMove(m.role, m.position), "move %s:%d", m.role, m.position)
	}
}

func TestNewGameSession(t *testing.T) {
	// When: a session is created
	session, outbox := newTestSession(t)

	// Then: each member receives exactly one start message with its own role
	assert.Equal(t, []any{entity.NewStartMessage(entity.RoleX, entity.RoleX)}, outbox.sentTo(connX))
	assert.Equal(t, []any{entity.NewStartMessage(entity.RoleO, entity.RoleX)}, outbox.sentTo(connO))

	// Then: the game is in progress with x to move
	assert.Equal(t, StateInProgress, session.State())
	assert.Equal(t, entity.RoleX, session.NextTurn())
	assert.Equal(t, entity.RoleX, session.RoleOf(connX))
	assert.Equal(t, entity.RoleO, session.RoleOf(connO))
	assert.Equal(t, entity.RoleNone, session.RoleOf(99))
	assert.Empty(t, outbox.closed)
}

func TestGameSession_TryMove(t *testing.T) {
	t.Run("Alternating valid moves are all accepted", func(t *testing.T) {
		// Given: a new session
		session, outbox := newTestSession(t)
		outbox.reset()

		moves := []move{
			{entity.RoleX, 0}, {entity.RoleO, 3}, {entity.RoleX, 1}, {entity.RoleO, 4}, {entity.RoleX, 8}, {entity.RoleO, 2},
		}

		for i, m := range moves {
			before := session.Board()

			// When: the role holding the turn plays a free cell
			accepted := session.TryMove(m.role, m.position)

			// Then: the move is accepted and only the mover gains one bit
			require.True(t, accepted)

			after := session.Board()
			assert.Equal(t, bits.OnesCount16(uint16(before.Of(m.role)))+1, bits.OnesCount16(uint16(after.Of(m.role))))
			assert.Equal(t, before.Of(m.role.Other()), after.Of(m.role.Other()))
			assert.Zero(t, after.X&after.O)

			// Then: both members are told about the move, including the mover
			expected := entity.NewMoveMessage(m.role, m.position, m.role.Other())
			assert.Equal(t, expected, outbox.sentTo(connX)[i])
			assert.Equal(t, expected, outbox.sentTo(connO)[i])
		}

		assert.Equal(t, StateInProgress, session.State())
		assert.Empty(t, outbox.closed)
	})

	t.Run("Move out of turn is ignored", func(t *testing.T) {
		// Given: a session with x to move
		session, outbox := newTestSession(t)
		outbox.reset()
		before := session.Board()

		// When: o tries to move
		accepted := session.TryMove(entity.RoleO, 4)

		// Then: nothing changes and nothing is sent
		assert.False(t, accepted)
		assert.Equal(t, before, session.Board())
		assert.Equal(t, entity.RoleX, session.NextTurn())
		assert.Empty(t, outbox.sent)
	})

	t.Run("Occupied cell is ignored regardless of whose turn it is", func(t *testing.T) {
		// Given: x holds 0 and o holds 4
		session, outbox := newTestSession(t)
		play(t, session, move{entity.RoleX, 0}, move{entity.RoleO, 4})
		outbox.reset()
		before := session.Board()

		// When: x tries both occupied cells and o tries one out of turn
		assert.False(t, session.TryMove(entity.RoleX, 0))
		assert.False(t, session.TryMove(entity.RoleX, 4))
		assert.False(t, session.TryMove(entity.RoleO, 0))

		// Then: the board is untouched
		assert.Equal(t, before, session.Board())
		assert.Empty(t, outbox.sent)
	})

	t.Run("Position out of range is ignored", func(t *testing.T) {
		session, outbox := newTestSession(t)
		outbox.reset()

		assert.False(t, session.TryMove(entity.RoleX, -1))
		assert.False(t, session.TryMove(entity.RoleX, 9))
		assert.False(t, session.TryMove(entity.RoleX, entity.NoPosition))

		assert.Equal(t, entity.Board{}, session.Board())
		assert.Empty(t, outbox.sent)
	})

	t.Run("Row win is detected on the third move of x", func(t *testing.T) {
		// Given: x holds 0 and 1, o holds 3 and 4
		session, outbox := newTestSession(t)
		play(t, session, move{entity.RoleX, 0}, move{entity.RoleO, 3}, move{entity.RoleX, 1}, move{entity.RoleO, 4})

		// Then: the game is not over yet
		require.Equal(t, StateInProgress, session.State())
		require.Empty(t, outbox.closed)

		// When: x plays 2
		play(t, session, move{entity.RoleX, 2})

		// Then: the last move is broadcast and both members are closed with the win
		last := entity.NewMoveMessage(entity.RoleX, 2, entity.RoleO)
		assert.Equal(t, last, outbox.sentTo(connX)[len(outbox.sentTo(connX))-1])
		assert.Equal(t, last, outbox.sentTo(connO)[len(outbox.sentTo(connO))-1])

		win := entity.NewWinMessage(entity.RoleX, 0x07)
		assert.Equal(t, []closedConn{
			{conn: connX, code: entity.CloseNormal, reason: win},
			{conn: connO, code: entity.CloseNormal, reason: win},
		}, outbox.closed)

		assert.Equal(t, StateComplete, session.State())
		assert.Equal(t, OutcomeWin, session.Outcome())
	})

	t.Run("Full board without a line is a draw", func(t *testing.T) {
		// Given: a session
		session, outbox := newTestSession(t)

		// When: x:0,2,3,7,8 and o:1,4,5,6 are played
		play(t, session,
			move{entity.RoleX, 0}, move{entity.RoleO, 1}, move{entity.RoleX, 2},
			move{entity.RoleO, 4}, move{entity.RoleX, 3}, move{entity.RoleO, 5},
			move{entity.RoleX, 7}, move{entity.RoleO, 6}, move{entity.RoleX, 8},
		)

		// Then: both members are closed with a draw
		draw := entity.NewDrawMessage()
		assert.Equal(t, []closedConn{
			{conn: connX, code: entity.CloseNormal, reason: draw},
			{conn: connO, code: entity.CloseNormal, reason: draw},
		}, outbox.closed)
		assert.Equal(t, OutcomeDraw, session.Outcome())
		assert.Len(t, outbox.sentTo(connX), 10)
	})

	t.Run("Win on the last cell is a win, not a draw", func(t *testing.T) {
		// Given: a session
		session, outbox := newTestSession(t)

		// When: the ninth move completes the main diagonal for x
		play(t, session,
			move{entity.RoleX, 0}, move{entity.RoleO, 1}, move{entity.RoleX, 2},
			move{entity.RoleO, 3}, move{entity.RoleX, 4}, move{entity.RoleO, 5},
			move{entity.RoleX, 7}, move{entity.RoleO, 6}, move{entity.RoleX, 8},
		)

		// Then: the board is full but x wins with 0-4-8
		require.Equal(t, entity.FullBoard, session.Board().Occupied())
		assert.Equal(t, OutcomeWin, session.Outcome())
		require.Len(t, outbox.closed, 2)
		assert.Equal(t, entity.NewWinMessage(entity.RoleX, 0x111), outbox.closed[0].reason)
	})

	t.Run("Moves after completion are no-ops", func(t *testing.T) {
		// Given: x has won on the first row
		session, outbox := newTestSession(t)
		play(t, session,
			move{entity.RoleX, 0}, move{entity.RoleO, 3}, move{entity.RoleX, 1}, move{entity.RoleO, 4}, move{entity.RoleX, 2},
		)
		outbox.reset()
		before := session.Board()

		// When: both members keep sending moves
		assert.False(t, session.TryMove(entity.RoleO, 5))
		assert.False(t, session.TryMove(entity.RoleX, 6))

		// Then: nothing is sent, nothing is closed again and the board is frozen
		assert.Empty(t, outbox.sent)
		assert.Empty(t, outbox.closed)
		assert.Equal(t, before, session.Board())
	})
}

func TestGameSession_ProcessDisconnect(t *testing.T) {
	t.Run("Peer receives exactly one abrupt end", func(t *testing.T) {
		// Given: an in-progress session
		session, outbox := newTestSession(t)
		play(t, session, move{entity.RoleX, 4})
		outbox.reset()

		// When: x disconnects, then o disconnects too
		session.ProcessDisconnect(connX)
		session.ProcessDisconnect(connO)

		// Then: only o is closed, once, with the abrupt end payload
		assert.Equal(t, []closedConn{
			{conn: connO, code: entity.CloseAbruptEnd, reason: entity.NewAbruptEndMessage()},
		}, outbox.closed)
		assert.Empty(t, outbox.sent)
		assert.Equal(t, OutcomeAbrupt, session.Outcome())

		// Then: the game no longer accepts moves
		assert.False(t, session.TryMove(entity.RoleO, 0))
	})

	t.Run("Disconnect after normal completion is a no-op", func(t *testing.T) {
		// Given: a session won by x
		session, outbox := newTestSession(t)
		play(t, session,
			move{entity.RoleX, 0}, move{entity.RoleO, 3}, move{entity.RoleX, 1}, move{entity.RoleO, 4}, move{entity.RoleX, 2},
		)
		outbox.reset()

		// When: a member disconnects
		session.ProcessDisconnect(connO)

		// Then: nobody is notified and the outcome is unchanged
		assert.Empty(t, outbox.closed)
		assert.Equal(t, OutcomeWin, session.Outcome())
	})
}

func TestGameSession_Release(t *testing.T) {
	session, _ := newTestSession(t)

	assert.False(t, session.Release(connX))
	assert.False(t, session.Release(99))
	assert.True(t, session.Release(connO))
}
