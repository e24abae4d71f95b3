package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"sync/atomic"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

const eventQueueSize = 256

type gameManager interface {
	Connect(conn entity.ConnID)
	Move(conn entity.ConnID, position int) error
	Interrupt(conn entity.ConnID)
}

type gatewayMetrics interface {
	ConnectionOpened()
	ConnectionClosed()
	ProtocolViolation(reason string)
}

type eventKind int

const (
	eventConnected eventKind = iota
	eventFrame
	eventInterrupted
)

type event struct {
	kind        eventKind
	conn        *connection
	messageType int
	data        []byte
}

// Server - accepts websocket clients and feeds their frames to the game manager from a single
// goroutine, so the game core never sees concurrent calls.
type Server struct {
	logger   *slog.Logger
	metrics  gatewayMetrics
	upgrader ws.Upgrader
	game     gameManager

	nextID  atomic.Uint64
	events  chan event
	stopped chan struct{}

	// owned by Run
	conns map[entity.ConnID]*connection
}

func New(logger *slog.Logger, origins []string, metrics gatewayMetrics) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		metrics: metrics,

		events:  make(chan event, eventQueueSize),
		stopped: make(chan struct{}),
		conns:   make(map[entity.ConnID]*connection),
	}

	server.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return slices.Contains(origins, r.Header.Get("Origin"))
		},
	}

	return server
}

// SetGameManager - sets the game manager the server dispatches to. Must be called before Run.
func (that *Server) SetGameManager(game gameManager) {
	that.game = game
}

// ServeHTTP - upgrades the request and starts the pumps of the new connection.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	socket, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Warn("websocket upgrade rejected", "origin", req.Header.Get("Origin"), "error", err)
		return
	}

	id := entity.ConnID(that.nextID.Add(1))
	conn := newConnection(that.logger, id, socket)

	if !that.post(event{kind: eventConnected, conn: conn}) {
		msg := ws.FormatCloseMessage(int(entity.CloseGoingAway), reasonGoingAway)
		_ = socket.WriteControl(ws.CloseMessage, msg, time.Now().Add(writeWait))
		_ = socket.Close()

		return
	}

	log.Debug("websocket connection established", "conn", id, "remote", req.RemoteAddr)

	go conn.writePump()
	go conn.readPump(
		func(messageType int, data []byte) {
			that.post(event{kind: eventFrame, conn: conn, messageType: messageType, data: data})
		},
		func() {
			that.post(event{kind: eventInterrupted, conn: conn})
		},
	)
}

// Run - processes connection events until ctx is done, then closes every client.
func (that *Server) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")
	log.Info("websocket gateway started")

	for {
		select {
		case <-ctx.Done():
			that.shutdown()
			log.Info("websocket gateway stopped")

			return nil

		case ev := <-that.events:
			that.dispatch(ev)
		}
	}
}

// Send - implements usecase.Outbox.
func (that *Server) Send(id entity.ConnID, msg any) {
	conn, ok := that.conns[id]
	if !ok {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		that.logger.Error("failed to marshal message", "conn", id, "error", err)
		conn.close(entity.CloseAbruptEnd, reasonUnexpected)

		return
	}

	conn.enqueue(data)
}

// Close - implements usecase.Outbox. The reason is sent as JSON in the close frame.
func (that *Server) Close(id entity.ConnID, code entity.CloseCode, reason any) {
	conn, ok := that.conns[id]
	if !ok {
		return
	}

	data, err := json.Marshal(reason)
	if err != nil {
		that.logger.Error("failed to marshal close reason", "conn", id, "error", err)
		conn.close(entity.CloseAbruptEnd, reasonUnexpected)

		return
	}

	conn.close(code, string(data))
}

func (that *Server) post(ev event) bool {
	select {
	case that.events <- ev:
		return true
	case <-that.stopped:
		return false
	}
}

func (that *Server) shutdown() {
	close(that.stopped)

	for id, conn := range that.conns {
		conn.close(entity.CloseGoingAway, reasonGoingAway)
		delete(that.conns, id)
		that.metrics.ConnectionClosed()
	}
}
