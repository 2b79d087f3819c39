package orch

import (
	"errors"
	"sync"
	"testing"

	"github.com/reshc/mycall/internal/app"
	"github.com/reshc/mycall/internal/codec"
	"github.com/reshc/mycall/internal/core"
	"github.com/reshc/mycall/internal/domain"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	fail   bool
	closed bool
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail || f.closed {
		return errors.New("broken pipe")
	}
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeConn) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

func (f *fakeConn) lastRoster(t *testing.T) []string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.frames) == 0 {
		t.Fatal("no frames received")
	}
	var upd domain.RoomUpdate
	if err := codec.Unmarshal(f.frames[len(f.frames)-1], &upd); err != nil {
		t.Fatalf("decode room update: %v", err)
	}
	if upd.Type != domain.RoomUpdateType {
		t.Fatalf("type = %q, want %q", upd.Type, domain.RoomUpdateType)
	}
	out := make([]string, 0, len(upd.Participants))
	for _, p := range upd.Participants {
		out = append(out, p.Nickname)
	}
	return out
}

func newTestOrchestrator() *Orchestrator {
	rooms := app.NewRoomIndex()
	return New(app.NewSessionRegistry(), rooms, app.NewBroadcaster(rooms))
}

func rosterSet(roster []string) map[string]struct{} {
	out := make(map[string]struct{}, len(roster))
	for _, n := range roster {
		out[n] = struct{}{}
	}
	return out
}

func TestJoinAddsMembershipAndBroadcasts(t *testing.T) {
	o := newTestOrchestrator()
	conn := &fakeConn{}

	o.Join("alice", "lobby", false, conn)

	members := o.Rooms.Members("lobby")
	if len(members) != 1 || members[0].ClientID != "alice" {
		t.Fatalf("members = %v, want [alice]", members)
	}
	roster := conn.lastRoster(t)
	if len(roster) != 1 || roster[0] != "alice" {
		t.Fatalf("roster = %v, want [alice]", roster)
	}
}

func TestRejoinReplacesWithoutDuplicating(t *testing.T) {
	o := newTestOrchestrator()
	conn := &fakeConn{}

	o.Join("alice", "lobby", false, conn)
	o.Join("alice", "lobby", false, conn)

	if n := len(o.Rooms.Members("lobby")); n != 1 {
		t.Fatalf("membership count = %d, want 1", n)
	}
	roster := conn.lastRoster(t)
	if len(roster) != 1 || roster[0] != "alice" {
		t.Fatalf("roster = %v, want exactly one alice", roster)
	}
}

func TestRoomSwitchMovesMembershipAndNotifiesBothRooms(t *testing.T) {
	o := newTestOrchestrator()
	connA, connB := &fakeConn{}, &fakeConn{}

	o.Join("alice", "red", false, connA)
	o.Join("bob", "red", false, connB)
	o.Join("alice", "blue", false, connA)

	if n := len(o.Rooms.Members("red")); n != 1 {
		t.Fatalf("red members = %d, want 1", n)
	}
	blue := o.Rooms.Members("blue")
	if len(blue) != 1 || blue[0].ClientID != "alice" {
		t.Fatalf("blue members = %v, want [alice]", blue)
	}

	// bob's latest update reflects alice's departure from red.
	if _, stillThere := rosterSet(connB.lastRoster(t))["alice"]; stillThere {
		t.Fatal("red roster still contains alice after the switch")
	}
	// alice's latest update is the blue roster.
	roster := connA.lastRoster(t)
	if len(roster) != 1 || roster[0] != "alice" {
		t.Fatalf("blue roster = %v, want [alice]", roster)
	}
}

func TestHeartbeatForUnknownClientIsIgnored(t *testing.T) {
	o := newTestOrchestrator()
	o.Heartbeat("ghost")

	if o.Registry.Len() != 0 || o.Rooms.Count() != 0 {
		t.Fatal("stray heartbeat changed state")
	}
}

func TestLeaveIsIdempotent(t *testing.T) {
	o := newTestOrchestrator()
	sess := o.Join("alice", "lobby", false, &fakeConn{})

	if !o.Leave(sess) {
		t.Fatal("first leave should win")
	}
	if o.Leave(sess) {
		t.Fatal("second leave should be a no-op")
	}
	if o.Registry.Len() != 0 || o.Rooms.Count() != 0 {
		t.Fatal("leave left residue behind")
	}
}

func TestLeaveByConnForUnknownConnIsNoop(t *testing.T) {
	o := newTestOrchestrator()
	o.Join("alice", "lobby", false, &fakeConn{})

	o.LeaveByConn(&fakeConn{})

	if o.Registry.Len() != 1 {
		t.Fatal("leave by a foreign connection removed a session")
	}
}

func TestLobbyScenario(t *testing.T) {
	o := newTestOrchestrator()
	connA, connB := &fakeConn{}, &fakeConn{}

	o.Join("alice", "lobby", false, connA)
	o.Join("bob", "lobby", false, connB)

	// alice saw both broadcasts; the final roster holds both members.
	if connA.sentCount() != 2 {
		t.Fatalf("alice received %d frames, want 2", connA.sentCount())
	}
	got := rosterSet(connA.lastRoster(t))
	if len(got) != 2 {
		t.Fatalf("final roster = %v, want alice and bob", got)
	}

	// alice disconnects; bob gets one more update with a roster of just bob.
	o.LeaveByConn(connA)

	roster := connB.lastRoster(t)
	if len(roster) != 1 || roster[0] != "bob" {
		t.Fatalf("post-disconnect roster = %v, want [bob]", roster)
	}
	if n := len(o.Rooms.Members("lobby")); n != 1 {
		t.Fatalf("lobby members = %d, want 1", n)
	}
}
