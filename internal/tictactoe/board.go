package tictactoe

import "github.com/rocketscienceinc/tictactoe-server/internal/entity"

// IsValidMove - checks that acting holds the turn, position is on the board and the cell is free for both marks.
func IsValidMove(nextTurn, acting entity.Role, board entity.Board, position int) bool {
	if acting != nextTurn {
		return false
	}

	if position < 0 || position >= entity.CellCount {
		return false
	}

	return board.Occupied()&entity.PositionValues[position] == 0
}

// ApplyMove - marks position for role and returns the role that moves next.
// Callers must validate the move with IsValidMove first.
func ApplyMove(board *entity.Board, role entity.Role, position int) entity.Role {
	board.Mark(role, position)

	return role.Other()
}

// WinningLine - returns the first winning line fully held by role.
func WinningLine(board entity.Board, role entity.Role) (entity.Bitboard, bool) {
	bits := board.Of(role)

	for _, line := range entity.WinningLines {
		if bits&line == line {
			return line, true
		}
	}

	return 0, false
}

// IsFull - reports whether every cell is taken.
func IsFull(board entity.Board) bool {
	return board.Occupied() == entity.FullBoard
}
