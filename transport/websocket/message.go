package websocket

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/rocketscienceinc/tictactoe-server/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

const moveProperty = "move"

// Close reasons sent to a client that breaks the protocol.
const (
	reasonTextOnly   = "Message must be text only"
	reasonNotJSON    = "Message must be formatted as JSON"
	reasonNoMove     = "Message must have a move property"
	reasonNotInGame  = "You can't move because you're not in a game"
	reasonGoingAway  = "Server is shutting down"
	reasonQueueFull  = "Client is not reading fast enough"
	reasonUnexpected = "Unexpected server error"
)

// decodeMove - extracts the move position from an inbound text frame.
//
// The frame must be a JSON object with a "move" property. Any move value that is not an
// integer in range is returned as entity.NoPosition, which the game ignores.
func decodeMove(data []byte) (int, error) {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return entity.NoPosition, fmt.Errorf("%w: %w", apperror.ErrMalformedPayload, err)
	}

	object, ok := payload.(map[string]any)
	if !ok {
		return entity.NoPosition, apperror.ErrMissingMove
	}

	value, ok := object[moveProperty]
	if !ok {
		return entity.NoPosition, apperror.ErrMissingMove
	}

	number, ok := value.(float64)
	if !ok || number != math.Trunc(number) || number < 0 || number >= entity.CellCount {
		return entity.NoPosition, nil
	}

	return int(number), nil
}
