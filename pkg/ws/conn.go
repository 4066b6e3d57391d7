package ws

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// writeTimeout bounds every frame and control write so one stalled peer
// cannot stall a broadcast pass to the remaining connections.
const writeTimeout = 5 * time.Second

// Conn adapts a WebSocket connection to the registry's connection interface.
// Writes are serialized; gorilla connections support one concurrent writer.
type Conn struct {
	id      string
	sock    *websocket.Conn
	writeMu sync.Mutex

	// closed marks the connection dead for IsOpen and the liveness sweep.
	// Transport teardown is tracked separately by closeOnce: a failed write
	// only marks the connection, and Close must still tear the socket down.
	closed    atomic.Bool
	closeOnce sync.Once
}

func newConn(sock *websocket.Conn) *Conn {
	return &Conn{
		id:   uuid.NewString(),
		sock: sock,
	}
}

// ID returns the unique connection identity.
func (c *Conn) ID() string { return c.id }

// IsOpen reports whether the connection is still open.
func (c *Conn) IsOpen() bool { return !c.closed.Load() }

// WriteText sends one text frame with a write deadline. A failed write marks
// the connection closed so the liveness sweep can reclaim it.
func (c *Conn) WriteText(text string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.sock.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.sock.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		c.closed.Store(true)
		return err
	}
	return nil
}

// Ping sends a transport-level keepalive probe.
func (c *Conn) Ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.sock.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
		c.closed.Store(true)
		return err
	}
	return nil
}

// Close marks the connection closed and tears down the underlying socket,
// which also unblocks the read pump. Idempotent; the socket is closed even
// when the connection was already marked dead by a failed write or probe.
func (c *Conn) Close() error {
	c.closed.Store(true)
	var err error
	c.closeOnce.Do(func() {
		err = c.sock.Close()
	})
	return err
}
