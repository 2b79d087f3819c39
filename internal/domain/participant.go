// Package domain contains entities without logic, just meta-data.
package domain

// Participant is the roster entry pushed to clients.
// Nickname is the client-asserted id; MicOn is the declared mic state,
// reported as-is with no server-side verification.
type Participant struct {
	Nickname string `json:"nickname"`
	MicOn    bool   `json:"micOn"`
}

const RoomUpdateType = "room_update"

// RoomUpdate is a full roster snapshot, not a delta.
type RoomUpdate struct {
	Type         string        `json:"type"`
	Participants []Participant `json:"participants"`
}

// NewRoomUpdate avoids raw literals in adapters and keeps the type tag fixed.
func NewRoomUpdate(participants []Participant) RoomUpdate {
	return RoomUpdate{Type: RoomUpdateType, Participants: participants}
}
