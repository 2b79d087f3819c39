// Package orch funnels every membership change — join, explicit disconnect,
// heartbeat eviction — through one idempotent path, so racing removal paths
// can never double-broadcast or double-free a session.
package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/reshc/mycall/internal/app"
	"github.com/reshc/mycall/internal/core"
	"github.com/reshc/mycall/internal/domain"
	"github.com/reshc/mycall/internal/metrics"
)

type Orchestrator struct {
	Registry  *app.SessionRegistry
	Rooms     *app.RoomIndex
	Broadcast *app.Broadcaster
}

func New(reg *app.SessionRegistry, rooms *app.RoomIndex, bc *app.Broadcaster) *Orchestrator {
	return &Orchestrator{Registry: reg, Rooms: rooms, Broadcast: bc}
}

// Join creates the session for clientID and announces the new roster.
// Last join wins: any prior session with the same id is superseded, detached
// from its old room, and that room is notified too if it differs.
func (o *Orchestrator) Join(id domain.ClientID, room domain.RoomName, micOn bool, conn core.SignalConnection) *core.Session {
	sess := core.NewSession(id, room, conn)
	sess.SetMicOn(micOn)

	prev := o.Registry.Put(sess)
	if prev != nil {
		o.Rooms.Remove(prev.Room, prev)
	}
	o.Rooms.Add(room, sess)
	o.observe()

	log.Info().Str("module", "orch").Str("client", string(id)).Str("room", string(room)).Msg("joined")
	o.Broadcast.PublishRoomUpdate(room)
	if prev != nil && prev.Room != room {
		o.Broadcast.PublishRoomUpdate(prev.Room)
	}
	return sess
}

// Heartbeat refreshes the liveness timestamp for a known session.
// A heartbeat for an unknown id is dropped; the client simply receives no
// updates until it re-joins.
func (o *Orchestrator) Heartbeat(id domain.ClientID) {
	if sess, ok := o.Registry.Get(id); ok {
		sess.Touch()
	}
}

// Leave removes the session from the registry and its room and announces the
// shrunken roster. Only the first of racing callers wins; the rest no-op.
func (o *Orchestrator) Leave(sess *core.Session) bool {
	if !o.Registry.Remove(sess) {
		return false
	}
	o.Rooms.Remove(sess.Room, sess)
	o.observe()

	log.Info().Str("module", "orch").Str("client", string(sess.ClientID)).Str("room", string(sess.Room)).Msg("left")
	o.Broadcast.PublishRoomUpdate(sess.Room)
	return true
}

// LeaveByConn handles transport-level closure: it locates the session owning
// the connection, if any, and funnels it through Leave.
func (o *Orchestrator) LeaveByConn(conn core.SignalConnection) {
	if sess, ok := o.Registry.ByConn(conn); ok {
		o.Leave(sess)
	}
}

func (o *Orchestrator) observe() {
	metrics.ActiveSessions.Set(float64(o.Registry.Len()))
	metrics.OpenRooms.Set(float64(o.Rooms.Count()))
}
