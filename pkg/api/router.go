package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/notifyrelay/pkg/relay"
	"github.com/dmitrymomot/notifyrelay/pkg/requestid"
	"github.com/dmitrymomot/notifyrelay/pkg/ws"
)

// Router builds the relay's HTTP surface: the WebSocket endpoint, the
// producer submission API, status and health probes, and a JSON 404 for
// everything else.
func Router(hub *relay.Hub, log *slog.Logger) http.Handler {
	h := &handlers{hub: hub, log: log}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)

	r.Get("/ws", ws.Handler(hub, log))
	r.Post("/send-notification", h.sendNotification)
	r.Get("/status", h.status)
	r.Get("/health", h.health)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Endpoint not found"})
	})

	return r
}
