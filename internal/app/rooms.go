package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/reshc/mycall/internal/core"
	"github.com/reshc/mycall/internal/domain"
)

// RoomIndex maps room names to their current member sessions. Rooms are
// created lazily on first add and pruned when the last member leaves.
type RoomIndex struct {
	mu    sync.RWMutex
	rooms map[domain.RoomName]map[domain.ClientID]*core.Session
}

func NewRoomIndex() *RoomIndex {
	return &RoomIndex{
		rooms: make(map[domain.RoomName]map[domain.ClientID]*core.Session),
	}
}

func (x *RoomIndex) Add(room domain.RoomName, s *core.Session) {
	x.mu.Lock()
	defer x.mu.Unlock()
	members, ok := x.rooms[room]
	if !ok {
		members = make(map[domain.ClientID]*core.Session)
		x.rooms[room] = members
	}
	members[s.ClientID] = s
	log.Debug().Str("module", "app.rooms").Str("room", string(room)).Str("client", string(s.ClientID)).Msg("member added")
}

// Remove detaches the session from the room. Removing a session that is not
// present (or already superseded by a newer one for the same id) is a no-op.
func (x *RoomIndex) Remove(room domain.RoomName, s *core.Session) {
	x.mu.Lock()
	defer x.mu.Unlock()
	members, ok := x.rooms[room]
	if !ok {
		return
	}
	if cur, ok := members[s.ClientID]; !ok || cur != s {
		return
	}
	delete(members, s.ClientID)
	if len(members) == 0 {
		delete(x.rooms, room)
	}
	log.Debug().Str("module", "app.rooms").Str("room", string(room)).Str("client", string(s.ClientID)).Msg("member removed")
}

// Members returns a point-in-time snapshot of the room, safe to iterate
// during downstream sends without holding the index lock.
func (x *RoomIndex) Members(room domain.RoomName) []*core.Session {
	x.mu.RLock()
	defer x.mu.RUnlock()
	members := x.rooms[room]
	out := make([]*core.Session, 0, len(members))
	for _, s := range members {
		out = append(out, s)
	}
	return out
}

func (x *RoomIndex) List() []domain.RoomInfo {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]domain.RoomInfo, 0, len(x.rooms))
	for name, members := range x.rooms {
		out = append(out, domain.RoomInfo{Name: name, ClientCount: len(members)})
	}
	return out
}

func (x *RoomIndex) Count() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.rooms)
}
