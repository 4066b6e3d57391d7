package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifyrelay/pkg/api"
	"github.com/dmitrymomot/notifyrelay/pkg/relay"
)

func newRouter(t *testing.T) (*relay.Hub, http.Handler) {
	t.Helper()
	hub := relay.New(relay.Config{})
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return hub, api.Router(hub, log)
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSendNotification(t *testing.T) {
	t.Parallel()

	t.Run("missing required fields returns 400", func(t *testing.T) {
		t.Parallel()
		_, h := newRouter(t)

		rec := postJSON(t, h, "/send-notification", map[string]string{"type": "alert"})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Contains(t, body["error"], "missing required fields")
	})

	t.Run("invalid JSON returns 400", func(t *testing.T) {
		t.Parallel()
		_, h := newRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/send-notification", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, false, decode(t, rec)["success"])
	})

	t.Run("control message is filtered with success false", func(t *testing.T) {
		t.Parallel()
		hub, h := newRouter(t)

		rec := postJSON(t, h, "/send-notification", relay.Notification{
			Type:    "new_wallpaper",
			Title:   "Test",
			Message: "Connection successful!",
		})

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, false, body["success"])
		assert.NotContains(t, body, "clients")
		assert.Equal(t, 0, hub.Status().TotalMessages, "filtered submission must not be stored")
	})

	t.Run("real notification is accepted", func(t *testing.T) {
		t.Parallel()
		hub, h := newRouter(t)

		rec := postJSON(t, h, "/send-notification", relay.Notification{
			Type:    "new_wallpaper",
			Title:   "Art1",
			Message: "New wallpaper available",
		})

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, float64(0), body["clients"])
		assert.Equal(t, "new_wallpaper|Art1|New wallpaper available|", body["notification"])
		assert.Equal(t, 1, hub.Status().TotalMessages)
	})
}

func TestStatus(t *testing.T) {
	t.Parallel()

	_, h := newRouter(t)
	rec := postJSON(t, h, "/send-notification", relay.Notification{
		Type: "alert", Title: "t", Message: "m",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	body := decode(t, res)
	assert.Equal(t, "online", body["status"])
	assert.Equal(t, float64(0), body["clients"])
	assert.Equal(t, float64(1), body["totalMessages"])
	assert.Equal(t, float64(1), body["realNotifications"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestHealth(t *testing.T) {
	t.Parallel()

	_, h := newRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["status"])
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	_, h := newRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Endpoint not found", decode(t, rec)["error"])
}

func TestRequestIDHeader(t *testing.T) {
	t.Parallel()

	_, h := newRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
