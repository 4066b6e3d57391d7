package ws_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifyrelay/pkg/relay"
	"github.com/dmitrymomot/notifyrelay/pkg/ws"
)

func newTestServer(t *testing.T) (*relay.Hub, *httptest.Server) {
	t.Helper()
	hub := relay.New(relay.Config{})
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(ws.Handler(hub, log))
	t.Cleanup(srv.Close)
	t.Cleanup(hub.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readText reads one text frame, failing the test on timeout.
func readText(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	return string(data)
}

// expectSilence asserts that no frame arrives within the wait window.
func expectSilence(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, data, err := conn.ReadMessage()
	require.Error(t, err, "unexpected frame: %q", data)
}

func submit(t *testing.T, hub *relay.Hub, title, message string) string {
	t.Helper()
	res, err := hub.Submit(context.Background(), relay.Notification{
		Type:    "alert",
		Title:   title,
		Message: message,
	})
	require.NoError(t, err)
	require.True(t, res.Accepted)
	return res.Text
}

func TestHandler_Backfill(t *testing.T) {
	hub, srv := newTestServer(t)

	first := submit(t, hub, "first", "body")
	second := submit(t, hub, "second", "body")

	conn := dial(t, srv)

	assert.Equal(t, first, readText(t, conn))
	assert.Equal(t, second, readText(t, conn))
	expectSilence(t, conn)
}

func TestHandler_RelayBetweenConnections(t *testing.T) {
	hub, srv := newTestServer(t)

	sender := dial(t, srv)
	receiver := dial(t, srv)

	// Both connections are registered once their (empty) backfill completed;
	// with no history there is nothing to wait for, so wait on the hub itself.
	require.Eventually(t, func() bool {
		return hub.Status().Clients == 2
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, sender.WriteMessage(websocket.TextMessage, []byte("alert|hi|something happened|")))

	assert.Equal(t, "alert|hi|something happened|", readText(t, receiver))
	expectSilence(t, sender)
}

func TestHandler_ControlFramesAreNotRelayed(t *testing.T) {
	hub, srv := newTestServer(t)

	sender := dial(t, srv)
	receiver := dial(t, srv)
	require.Eventually(t, func() bool {
		return hub.Status().Clients == 2
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, sender.WriteMessage(websocket.TextMessage, []byte("request_initial_data")))
	require.NoError(t, sender.WriteMessage(websocket.TextMessage, []byte("heartbeat")))

	expectSilence(t, receiver)
	assert.Equal(t, 0, hub.Status().TotalMessages)
}

func TestHandler_SubmissionReachesAllConnections(t *testing.T) {
	hub, srv := newTestServer(t)

	a := dial(t, srv)
	b := dial(t, srv)
	require.Eventually(t, func() bool {
		return hub.Status().Clients == 2
	}, 2*time.Second, 10*time.Millisecond)

	text := submit(t, hub, "broadcast", "to everyone")

	assert.Equal(t, text, readText(t, a))
	assert.Equal(t, text, readText(t, b))
}

func TestHandler_DisconnectDeregisters(t *testing.T) {
	hub, srv := newTestServer(t)

	conn := dial(t, srv)
	require.Eventually(t, func() bool {
		return hub.Status().Clients == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		return hub.Status().Clients == 0
	}, 2*time.Second, 10*time.Millisecond)
}
