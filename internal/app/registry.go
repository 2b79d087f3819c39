package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/reshc/mycall/internal/core"
	"github.com/reshc/mycall/internal/domain"
)

// SessionRegistry is the single source of truth for "is this client known".
// All operations are safe under concurrent use and never block on I/O.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[domain.ClientID]*core.Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[domain.ClientID]*core.Session),
	}
}

// Put registers a session under its client id. Last join wins: any prior
// session for the same id is superseded and returned so the caller can
// detach it from its old room.
func (r *SessionRegistry) Put(s *core.Session) *core.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.sessions[s.ClientID]
	r.sessions[s.ClientID] = s
	log.Info().Str("module", "app.registry").Str("client", string(s.ClientID)).Str("room", string(s.Room)).Msg("session registered")
	return prev
}

func (r *SessionRegistry) Get(id domain.ClientID) (*core.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Remove deletes the given session, but only if it is still the one
// registered for its client id. Eviction, explicit disconnect and re-join
// can race; the compare keeps a stale removal from dropping a newer session.
func (r *SessionRegistry) Remove(s *core.Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.sessions[s.ClientID]
	if !ok || cur != s {
		return false
	}
	delete(r.sessions, s.ClientID)
	log.Info().Str("module", "app.registry").Str("client", string(s.ClientID)).Msg("session removed")
	return true
}

// ByConn finds the session owning the given connection, if any.
// Used when the transport closes before (or without) an explicit leave.
func (r *SessionRegistry) ByConn(conn core.SignalConnection) (*core.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.sessions {
		if s.Signal() == conn {
			return s, true
		}
	}
	return nil, false
}

// Snapshot returns the current sessions; safe to iterate without the lock.
func (r *SessionRegistry) Snapshot() []*core.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*core.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
