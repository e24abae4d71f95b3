package usecase

import (
	"io"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
	"github.com/stretchr/testify/mock"
)

type sentMessage struct {
	conn entity.ConnID
	msg  any
}

type closedConn struct {
	conn   entity.ConnID
	code   entity.CloseCode
	reason any
}

// recordingOutbox keeps every outbound frame in order.
type recordingOutbox struct {
	sent   []sentMessage
	closed []closedConn
}

func (that *recordingOutbox) Send(conn entity.ConnID, msg any) {
	that.sent = append(that.sent, sentMessage{conn: conn, msg: msg})
}

func (that *recordingOutbox) Close(conn entity.ConnID, code entity.CloseCode, reason any) {
	that.closed = append(that.closed, closedConn{conn: conn, code: code, reason: reason})
}

func (that *recordingOutbox) sentTo(conn entity.ConnID) []any {
	var out []any
	for _, s := range that.sent {
		if s.conn == conn {
			out = append(out, s.msg)
		}
	}
	return out
}

func (that *recordingOutbox) closedFor(conn entity.ConnID) []closedConn {
	var out []closedConn
	for _, c := range that.closed {
		if c.conn == conn {
			out = append(out, c)
		}
	}
	return out
}

func (that *recordingOutbox) reset() {
	that.sent = nil
	that.closed = nil
}

type mockObserver struct {
	mock.Mock
}

func (that *mockObserver) SessionUpdated(snapshot entity.SessionSnapshot) {
	that.Called(snapshot)
}

func (that *mockObserver) SessionEnded(id entity.SessionID) {
	that.Called(id)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
