// Package metrics exposes Prometheus instrumentation for the presence engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mycall_active_sessions",
		Help: "Sessions currently held in the registry.",
	})
	OpenRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mycall_open_rooms",
		Help: "Rooms with at least one member.",
	})
	BroadcastsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mycall_broadcasts_total",
		Help: "Roster broadcasts published.",
	})
	DroppedSendsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mycall_dropped_sends_total",
		Help: "Per-recipient deliveries that failed during a broadcast.",
	})
	EvictionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mycall_evictions_total",
		Help: "Sessions evicted by the heartbeat monitor.",
	})
)

// Handler exposes Prometheus metrics at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
