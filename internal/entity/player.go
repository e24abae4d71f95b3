package entity

// Player - a client connection as seen by the game core. Role and SessionID are set once it is paired.
type Player struct {
	ID        ConnID    `json:"id"`
	Role      Role      `json:"role,omitempty"`
	SessionID SessionID `json:"session_id,omitempty"`
}

func NewPlayer(id ConnID) *Player {
	return &Player{ID: id}
}

// InGame - reports whether the player has been attached to a session.
func (that *Player) InGame() bool {
	return that.Role != RoleNone
}

// Attach - binds the player to a session under the given role.
func (that *Player) Attach(sessionID SessionID, role Role) {
	that.SessionID = sessionID
	that.Role = role
}
