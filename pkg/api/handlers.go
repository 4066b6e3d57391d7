package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/notifyrelay/pkg/logger"
	"github.com/dmitrymomot/notifyrelay/pkg/relay"
)

type handlers struct {
	hub *relay.Hub
	log *slog.Logger
}

type submitResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	Clients      *int   `json:"clients,omitempty"`
	Notification string `json:"notification,omitempty"`
	Error        string `json:"error,omitempty"`
}

func (h *handlers) sendNotification(w http.ResponseWriter, r *http.Request) {
	var n relay.Notification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		writeJSON(w, http.StatusBadRequest, submitResponse{
			Success: false,
			Error:   "invalid JSON body",
		})
		return
	}

	res, err := h.hub.Submit(r.Context(), n)
	if err != nil {
		var valErr *relay.ValidationError
		if errors.As(err, &valErr) {
			writeJSON(w, http.StatusBadRequest, submitResponse{
				Success: false,
				Error:   valErr.Error(),
			})
			return
		}
		h.log.ErrorContext(r.Context(), "submission failed", logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, submitResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	if !res.Accepted {
		writeJSON(w, http.StatusOK, submitResponse{
			Success: false,
			Message: "Notification filtered (system message)",
		})
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Success:      true,
		Message:      "Notification sent",
		Clients:      &res.Clients,
		Notification: res.Text,
	})
}

type statusResponse struct {
	Status            string `json:"status"`
	Clients           int    `json:"clients"`
	Uptime            int64  `json:"uptime"`
	TotalMessages     int    `json:"totalMessages"`
	RealNotifications int    `json:"realNotifications"`
	Timestamp         string `json:"timestamp"`
}

func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	s := h.hub.Status()
	writeJSON(w, http.StatusOK, statusResponse{
		Status:            "online",
		Clients:           s.Clients,
		Uptime:            s.UptimeSeconds,
		TotalMessages:     s.TotalMessages,
		RealNotifications: s.RealNotifications,
		Timestamp:         s.Timestamp.Format(time.RFC3339),
	})
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
