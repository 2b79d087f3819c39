package orch

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/reshc/mycall/internal/metrics"
)

// HeartbeatMonitor sweeps the registry on a fixed interval and evicts
// sessions whose last liveness signal has aged past Timeout. Eviction runs
// through Orchestrator.Leave, so it races safely with explicit disconnects.
type HeartbeatMonitor struct {
	Orch     *Orchestrator
	Interval time.Duration
	Timeout  time.Duration
}

func NewHeartbeatMonitor(o *Orchestrator, interval, timeout time.Duration) *HeartbeatMonitor {
	return &HeartbeatMonitor{Orch: o, Interval: interval, Timeout: timeout}
}

// Run blocks until ctx is done. The ticker is released on return.
func (m *HeartbeatMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	log.Info().Str("module", "orch.monitor").Dur("interval", m.Interval).Dur("timeout", m.Timeout).Msg("heartbeat monitor started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "orch.monitor").Msg("heartbeat monitor stopped")
			return
		case <-ticker.C:
			m.sweep(time.Now())
		}
	}
}

func (m *HeartbeatMonitor) sweep(now time.Time) {
	for _, sess := range m.Orch.Registry.Snapshot() {
		if now.Sub(sess.LastSeen()) <= m.Timeout {
			continue
		}
		if !m.Orch.Leave(sess) {
			continue // already gone via another path
		}
		// Best effort; the peer is likely dead already.
		sess.Signal().Close()
		metrics.EvictionsTotal.Inc()
		log.Info().Str("module", "orch.monitor").Str("client", string(sess.ClientID)).Str("room", string(sess.Room)).Msg("session evicted")
	}
}
