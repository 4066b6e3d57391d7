package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/notifyrelay/pkg/logger"
	"github.com/dmitrymomot/notifyrelay/pkg/relay"
)

// maxFrameSize bounds inbound frames; notifications are short structured
// strings, not bulk payloads.
const maxFrameSize = 64 << 10

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The relay carries no credentials and serves arbitrary producers.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Handler upgrades the request to a WebSocket connection, registers it with
// the hub, and pumps inbound text frames into the hub until the connection
// errors or closes. Transport errors are isolated to the connection: it is
// deregistered and the handler returns.
func Handler(hub *relay.Hub, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sock, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already wrote the HTTP error response.
			log.WarnContext(r.Context(), "websocket upgrade failed", logger.Error(err))
			return
		}

		conn := newConn(sock)
		sock.SetReadLimit(maxFrameSize)

		hub.HandleConnect(conn)
		defer hub.HandleDisconnect(conn)

		for {
			msgType, data, err := sock.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Debug("websocket read failed",
						slog.String("conn_id", conn.ID()), logger.Error(err))
				}
				return
			}
			if msgType != websocket.TextMessage {
				continue
			}
			hub.HandleInbound(conn, string(data))
		}
	}
}
