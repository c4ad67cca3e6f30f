package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the server-wide prometheus collectors. One instance is
// created at process start and shared by the hub and the ws layer; a nil
// *Metrics disables recording, which keeps tests free of the global
// registry.
type Metrics struct {
	ActiveRooms      prometheus.Gauge
	ConnectedPlayers prometheus.Gauge
	MovesApplied     prometheus.Counter
	MovesRejected    prometheus.Counter
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		ActiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rooms",
			Help:      "Number of live rooms",
		}),
		ConnectedPlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connected_players",
			Help:      "Number of connected websocket clients",
		}),
		MovesApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_applied_total",
			Help:      "Total number of accepted moves",
		}),
		MovesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_rejected_total",
			Help:      "Total number of rejected moves",
		}),
	}

	prometheus.MustRegister(
		m.ActiveRooms,
		m.ConnectedPlayers,
		m.MovesApplied,
		m.MovesRejected,
	)

	return m
}

func (m *Metrics) SetActiveRooms(n int) {
	if m == nil {
		return
	}
	m.ActiveRooms.Set(float64(n))
}

func (m *Metrics) IncConnectedPlayers() {
	if m == nil {
		return
	}
	m.ConnectedPlayers.Inc()
}

func (m *Metrics) DecConnectedPlayers() {
	if m == nil {
		return
	}
	m.ConnectedPlayers.Dec()
}

func (m *Metrics) IncMovesApplied() {
	if m == nil {
		return
	}
	m.MovesApplied.Inc()
}

func (m *Metrics) IncMovesRejected() {
	if m == nil {
		return
	}
	m.MovesRejected.Inc()
}
