package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tictactoe"

// Metrics - prometheus collectors for the game server. It satisfies the metric hooks of
// the game manager and the websocket gateway.
type Metrics struct {
	SessionsStarted    prometheus.Counter
	SessionsCompleted  *prometheus.CounterVec
	ProtocolViolations *prometheus.CounterVec
	Moves              *prometheus.CounterVec

	WaitingConnections prometheus.Gauge
	OpenConnections    prometheus.Gauge
	ActiveSessions     prometheus.Gauge
}

// New - creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Total game sessions started",
		}),
		SessionsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_completed_total",
			Help:      "Total game sessions ended, by outcome",
		}, []string{"outcome"}),
		ProtocolViolations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "protocol_violations_total",
			Help:      "Total connections closed for a protocol violation, by reason",
		}, []string{"reason"}),
		Moves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_total",
			Help:      "Total moves received from players in a game, by result",
		}, []string{"result"}),
		WaitingConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "waiting_connections",
			Help:      "Connections waiting for an opponent",
		}),
		OpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_connections",
			Help:      "Open websocket connections",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Game sessions in progress",
		}),
	}

	reg.MustRegister(
		m.SessionsStarted,
		m.SessionsCompleted,
		m.ProtocolViolations,
		m.Moves,
		m.WaitingConnections,
		m.OpenConnections,
		m.ActiveSessions,
	)

	return m
}

func (that *Metrics) SessionStarted() {
	that.SessionsStarted.Inc()
	that.ActiveSessions.Inc()
}

func (that *Metrics) SessionCompleted(outcome string) {
	that.SessionsCompleted.WithLabelValues(outcome).Inc()
	that.ActiveSessions.Dec()
}

func (that *Metrics) MoveProcessed(accepted bool) {
	result := "ignored"
	if accepted {
		result = "accepted"
	}

	that.Moves.WithLabelValues(result).Inc()
}

func (that *Metrics) WaitingChanged(waiting bool) {
	if waiting {
		that.WaitingConnections.Set(1)
		return
	}

	that.WaitingConnections.Set(0)
}

func (that *Metrics) ConnectionOpened() {
	that.OpenConnections.Inc()
}

func (that *Metrics) ConnectionClosed() {
	that.OpenConnections.Dec()
}

func (that *Metrics) ProtocolViolation(reason string) {
	that.ProtocolViolations.WithLabelValues(reason).Inc()
}
