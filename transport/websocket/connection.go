package websocket

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	closeGrace     = time.Second
	maxMessageSize = 4096
	sendQueueSize  = 32
)

type outbound struct {
	data   []byte
	close  bool
	code   entity.CloseCode
	reason string
}

// connection - one websocket client. The read and write pumps run in their own goroutines;
// everything else is called from the server loop only.
type connection struct {
	id     entity.ConnID
	conn   *ws.Conn
	logger *slog.Logger

	send     chan outbound
	done     chan struct{}
	readDone chan struct{}
	stopOnce sync.Once

	// owned by the server loop
	closing  bool
	rejected bool
}

func newConnection(logger *slog.Logger, id entity.ConnID, conn *ws.Conn) *connection {
	return &connection{
		id:     id,
		conn:   conn,
		logger: logger.With("conn", id),

		send:     make(chan outbound, sendQueueSize),
		done:     make(chan struct{}),
		readDone: make(chan struct{}),
	}
}

// enqueue - queues a text frame. Frames queued after a close are dropped.
func (that *connection) enqueue(data []byte) {
	if that.closing {
		return
	}

	select {
	case that.send <- outbound{data: data}:
	case <-that.done:
	default:
		that.logger.Warn("send queue is full, dropping connection")
		that.close(entity.ClosePolicyViolation, reasonQueueFull)
	}
}

// close - queues a close frame after everything already queued. Only the first call counts.
func (that *connection) close(code entity.CloseCode, reason string) {
	if that.closing {
		return
	}

	that.closing = true

	select {
	case that.send <- outbound{close: true, code: code, reason: reason}:
	case <-that.done:
	default:
		that.stop()
	}
}

func (that *connection) stop() {
	that.stopOnce.Do(func() {
		close(that.done)
	})
}

// readPump - forwards every inbound frame to onFrame until the socket fails or closes.
func (that *connection) readPump(onFrame func(messageType int, data []byte), onClose func()) {
	log := that.logger.With("method", "readPump")

	defer func() {
		close(that.readDone)
		that.stop()
		onClose()
	}()

	that.conn.SetReadLimit(maxMessageSize)
	_ = that.conn.SetReadDeadline(time.Now().Add(pongWait))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, data, err := that.conn.ReadMessage()
		if err != nil {
			var closeErr *ws.CloseError
			if !errors.As(err, &closeErr) {
				log.Debug("connection read failed", "error", err)
			}

			return
		}

		onFrame(messageType, data)
	}
}

// writePump - drains the send queue and keeps the connection alive with pings.
func (that *connection) writePump() {
	log := that.logger.With("method", "writePump")

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case out := <-that.send:
			if out.close {
				that.writeClose(out.code, out.reason)
				return
			}

			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(ws.TextMessage, out.data); err != nil {
				log.Debug("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			if err := that.conn.WriteControl(ws.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Debug("failed to write ping", "error", err)
				return
			}

		case <-that.done:
			return
		}
	}
}

// writeClose - sends the close frame and gives the client a moment to answer it before
// the socket is torn down.
func (that *connection) writeClose(code entity.CloseCode, reason string) {
	msg := ws.FormatCloseMessage(int(code), reason)
	if err := that.conn.WriteControl(ws.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
		that.logger.Debug("failed to write close frame", "code", code, "error", err)
		return
	}

	select {
	case <-that.readDone:
	case <-time.After(closeGrace):
	}
}
