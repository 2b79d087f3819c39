package core

import (
	"sync/atomic"
	"time"

	"github.com/reshc/mycall/internal/domain"
)

// Session binds a client id to its room and transport endpoint.
// This is what the registry stores and rooms fan out to.
// A session belongs to exactly one room for its whole lifetime;
// a room switch supersedes the session rather than mutating it.
type Session struct {
	ClientID domain.ClientID
	Room     domain.RoomName

	conn SignalConnection

	micOn    atomic.Bool
	lastBeat atomic.Int64 // unix nanos of the most recent liveness signal
}

// NewSession creates a session with the join itself counting as the
// first heartbeat.
func NewSession(id domain.ClientID, room domain.RoomName, conn SignalConnection) *Session {
	s := &Session{ClientID: id, Room: room, conn: conn}
	s.lastBeat.Store(time.Now().UnixNano())
	return s
}

func (s *Session) Signal() SignalConnection { return s.conn }

// Touch records a liveness signal.
func (s *Session) Touch() {
	s.lastBeat.Store(time.Now().UnixNano())
}

func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastBeat.Load())
}

func (s *Session) SetMicOn(on bool) { s.micOn.Store(on) }
func (s *Session) MicOn() bool      { return s.micOn.Load() }

// Participant is the read-only roster view of this session.
func (s *Session) Participant() domain.Participant {
	return domain.Participant{Nickname: string(s.ClientID), MicOn: s.MicOn()}
}
