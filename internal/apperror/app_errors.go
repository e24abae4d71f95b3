package apperror

import "errors"

var (
	ErrMalformedPayload = errors.New("message must be formatted as JSON")
	ErrMissingMove      = errors.New("message must have a move property")
	ErrNotInGame        = errors.New("connection is not in a game")
	ErrSessionNotFound  = errors.New("session not found")
)
