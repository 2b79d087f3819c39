package signal

import (
	"github.com/rs/zerolog/log"

	"github.com/reshc/mycall/internal/codec"
	"github.com/reshc/mycall/internal/domain"
)

type msgKind int

// Inbound control messages form a closed set. Anything that fails to parse,
// misses a required field, or carries an unknown type collapses to
// msgIgnored: dropped with no state change and nothing surfaced to the peer.
const (
	msgIgnored msgKind = iota
	msgJoin
	msgHeartbeat
)

type inbound struct {
	Type     string `json:"type"`
	ClientID string `json:"clientId"`
	Room     string `json:"room"`
	MicOn    bool   `json:"micOn"`
}

func decodeInbound(data []byte) (inbound, msgKind) {
	var m inbound
	if err := codec.Unmarshal(data, &m); err != nil {
		return m, msgIgnored
	}
	switch m.Type {
	case "join":
		if m.ClientID == "" || m.Room == "" {
			return m, msgIgnored
		}
		return m, msgJoin
	case "heartbeat":
		if m.ClientID == "" {
			return m, msgIgnored
		}
		return m, msgHeartbeat
	}
	return m, msgIgnored
}

func (ctl *SignalWSController) handleMessage(token string, c *wsSignalConn, data []byte) {
	m, kind := decodeInbound(data)
	switch kind {
	case msgJoin:
		ctl.handleJoin(token, c, m)
	case msgHeartbeat:
		ctl.Orch.Heartbeat(domain.ClientID(m.ClientID))
	case msgIgnored:
		log.Debug().Str("module", "signal").Str("ct", token).Str("type", m.Type).Msg("ignored message")
	}
}

func (ctl *SignalWSController) handleJoin(token string, c *wsSignalConn, m inbound) {
	log.Info().Str("module", "signal").Str("ct", token).Str("client", m.ClientID).Str("room", m.Room).Msg("join")
	ctl.Orch.Join(domain.ClientID(m.ClientID), domain.RoomName(m.Room), m.MicOn, c)
}
