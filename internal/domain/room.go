package domain

type RoomName string

type RoomInfo struct {
	Name        RoomName `json:"name"`
	ClientCount int      `json:"client_count"`
}
