package websocket

import (
	"errors"

	ws "github.com/gorilla/websocket"
	"github.com/rocketscienceinc/tictactoe-server/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

// Protocol violation labels.
const (
	violationBinary    = "binary"
	violationMalformed = "malformed"
	violationNoMove    = "missing_move"
	violationNotInGame = "not_in_game"
)

func (that *Server) dispatch(ev event) {
	switch ev.kind {
	case eventConnected:
		that.handleConnected(ev.conn)
	case eventFrame:
		that.handleFrame(ev.conn, ev.messageType, ev.data)
	case eventInterrupted:
		that.handleInterrupted(ev.conn)
	}
}

func (that *Server) handleConnected(conn *connection) {
	that.conns[conn.id] = conn
	that.metrics.ConnectionOpened()

	that.game.Connect(conn.id)
}

// handleFrame - validates one inbound frame and forwards the move it carries.
func (that *Server) handleFrame(conn *connection, messageType int, data []byte) {
	log := that.logger.With("method", "handleFrame", "conn", conn.id)

	if conn.rejected {
		return
	}

	if messageType != ws.TextMessage {
		that.reject(conn, entity.CloseUnsupportedData, violationBinary, reasonTextOnly)
		return
	}

	position, err := decodeMove(data)
	switch {
	case errors.Is(err, apperror.ErrMalformedPayload):
		that.reject(conn, entity.CloseUnsupportedData, violationMalformed, reasonNotJSON)
		return
	case errors.Is(err, apperror.ErrMissingMove):
		that.reject(conn, entity.ClosePolicyViolation, violationNoMove, reasonNoMove)
		return
	}

	if err = that.game.Move(conn.id, position); err != nil {
		if errors.Is(err, apperror.ErrNotInGame) {
			that.reject(conn, entity.ClosePolicyViolation, violationNotInGame, reasonNotInGame)
			return
		}

		log.Error("failed to process move", "error", err)
	}
}

func (that *Server) handleInterrupted(conn *connection) {
	if _, ok := that.conns[conn.id]; !ok {
		return
	}

	delete(that.conns, conn.id)
	that.metrics.ConnectionClosed()

	// no-op for a connection already detached by reject
	that.game.Interrupt(conn.id)

	that.logger.Debug("websocket connection closed", "conn", conn.id)
}

// reject - closes a connection that broke the protocol. It leaves the game at once, so it is
// never paired while its close handshake is still running; later frames from it are dropped.
func (that *Server) reject(conn *connection, code entity.CloseCode, violation, reason string) {
	conn.rejected = true
	that.metrics.ProtocolViolation(violation)

	that.logger.Info("closing connection for protocol violation", "conn", conn.id, "violation", violation)

	conn.close(code, reason)
	that.game.Interrupt(conn.id)
}
