package app

import (
	"github.com/rs/zerolog/log"

	"github.com/reshc/mycall/internal/codec"
	"github.com/reshc/mycall/internal/domain"
	"github.com/reshc/mycall/internal/metrics"
)

// Broadcaster pushes roster snapshots to every session in a room.
type Broadcaster struct {
	Rooms *RoomIndex
}

func NewBroadcaster(rooms *RoomIndex) *Broadcaster {
	return &Broadcaster{Rooms: rooms}
}

// PublishRoomUpdate serializes the current roster once and fans the identical
// payload out to every member. A failed send to one member never aborts
// delivery to the rest. An empty room produces no message.
func (b *Broadcaster) PublishRoomUpdate(room domain.RoomName) {
	members := b.Rooms.Members(room)
	if len(members) == 0 {
		return
	}

	participants := make([]domain.Participant, 0, len(members))
	for _, s := range members {
		participants = append(participants, s.Participant())
	}

	payload, err := codec.Marshal(domain.NewRoomUpdate(participants))
	if err != nil {
		log.Error().Err(err).Str("module", "app.broadcast").Str("room", string(room)).Msg("marshal room update")
		return
	}

	sent, dropped := 0, 0
	for _, s := range members {
		if err := s.Signal().TrySend(payload); err != nil {
			dropped++
			log.Debug().Err(err).Str("module", "app.broadcast").Str("room", string(room)).Str("client", string(s.ClientID)).Msg("send failed")
			continue
		}
		sent++
	}

	metrics.BroadcastsTotal.Inc()
	metrics.DroppedSendsTotal.Add(float64(dropped))
	log.Debug().Str("module", "app.broadcast").Str("room", string(room)).Int("sent_to", sent).Int("dropped", dropped).Msg("room update published")
}
