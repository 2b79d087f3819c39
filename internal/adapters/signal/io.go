package signal

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *wsSignalConn) {
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.writeTimeout)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

// readPump drives the connection's state: every exit path — peer close,
// transport error, server shutdown — funnels through the same teardown,
// which removes the owning session and announces the vacated room.
func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, token string, c *wsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("ct", token).Msg("readPump closing")
		cancel()
		c.Close()
		ctl.Orch.LeaveByConn(c)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Str("module", "signal").Str("ct", token).Msg("readPump read error")
				return
			}
			ctl.handleMessage(token, c, data)
		}
	}
}
