package entity

type (
	// Role - one of the two marks of a game; x always moves first.
	Role string

	// Bitboard - a 9-bit set, one bit per board position (row-major).
	Bitboard uint16

	SessionID uint64
	ConnID    uint64
)

const (
	RoleX    Role = "x"
	RoleO    Role = "o"
	RoleNone Role = ""
)

const (
	CellCount = 9

	// NoPosition is what a move that is not an integer decodes to; it never passes validation.
	NoPosition = -1

	FullBoard Bitboard = 0x1FF
)

// PositionValues maps position index to its bit.
//
//	 1 |   2 |   4
//	---+-----+----
//	 8 |  16 |  32
//	---+-----+----
//	64 | 128 | 256
var PositionValues = [CellCount]Bitboard{0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80, 0x100}

// WinningLines - rows, columns, then both diagonals. Order matters: the first match is reported.
var WinningLines = [8]Bitboard{
	0x01 | 0x02 | 0x04,
	0x08 | 0x10 | 0x20,
	0x40 | 0x80 | 0x100,
	0x01 | 0x08 | 0x40,
	0x02 | 0x10 | 0x80,
	0x04 | 0x20 | 0x100,
	0x01 | 0x10 | 0x100,
	0x04 | 0x10 | 0x40,
}

// Other - returns the opposite role.
func (that Role) Other() Role {
	if that == RoleX {
		return RoleO
	}
	return RoleX
}

// Board holds one bitboard per role. The two are always disjoint.
type Board struct {
	X Bitboard `json:"x"`
	O Bitboard `json:"o"`
}

// Of - returns the bitboard of the given role.
func (that Board) Of(role Role) Bitboard {
	if role == RoleX {
		return that.X
	}
	return that.O
}

func (that *Board) set(role Role, bits Bitboard) {
	if role == RoleX {
		that.X = bits
		return
	}
	that.O = bits
}

// Mark - sets the bit of position on the role's bitboard. No validation is performed.
func (that *Board) Mark(role Role, position int) {
	that.set(role, that.Of(role)|PositionValues[position])
}

// Occupied - union of both bitboards.
func (that Board) Occupied() Bitboard {
	return that.X | that.O
}
