package usecase

import "github.com/rocketscienceinc/tictactoe-server/internal/entity"

// Matchmaker - holds at most one connection waiting for an opponent.
type Matchmaker struct {
	waiting    entity.ConnID
	hasWaiting bool
}

func NewMatchmaker() *Matchmaker {
	return &Matchmaker{}
}

// Pair - parks conn when nobody is waiting. Otherwise it empties the slot and returns the
// connection that was waiting, which always plays first.
func (that *Matchmaker) Pair(conn entity.ConnID) (entity.ConnID, bool) {
	if !that.hasWaiting {
		that.waiting = conn
		that.hasWaiting = true

		return 0, false
	}

	waiting := that.waiting
	that.waiting, that.hasWaiting = 0, false

	return waiting, true
}

// Remove - empties the slot if conn is the one waiting.
func (that *Matchmaker) Remove(conn entity.ConnID) bool {
	if !that.hasWaiting || that.waiting != conn {
		return false
	}

	that.waiting, that.hasWaiting = 0, false

	return true
}

func (that *Matchmaker) Waiting() (entity.ConnID, bool) {
	return that.waiting, that.hasWaiting
}
