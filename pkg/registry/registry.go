package registry

import (
	"io"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/notifyrelay/pkg/logger"
)

// Conn is a single live subscriber connection. Implementations must be safe
// for concurrent use: writes from the broadcast, backfill, and keepalive
// paths may interleave.
type Conn interface {
	// ID returns the unique connection identity.
	ID() string
	// IsOpen reports whether the connection is still in an open state.
	IsOpen() bool
	// WriteText sends one opaque text frame. Implementations should bound
	// the write so a stalled peer cannot block the caller indefinitely.
	WriteText(text string) error
	// Ping sends a transport-level keepalive probe.
	Ping() error
	// Close closes the connection. Close is idempotent.
	Close() error
}

// Registry tracks live subscriber connections. Membership changes only via
// Add, Remove, Sweep, and per-connection failure handling during broadcast
// and keepalive. All methods are safe for concurrent use.
//
// Broadcast iterates over a snapshot of the connection set, so connections
// may be added or removed concurrently without affecting an in-flight pass.
// A send failure on one connection removes that connection and never aborts
// delivery to the remaining ones.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]Conn
	log   *slog.Logger
}

// New creates an empty registry. A nil logger disables logging.
func New(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Registry{
		conns: make(map[string]Conn),
		log:   log,
	}
}

// Add registers a connection. Re-adding the same connection is a no-op
// under set semantics.
func (r *Registry) Add(c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[c.ID()] = c
}

// Remove deregisters a connection. Removing an unknown connection is a no-op.
func (r *Registry) Remove(c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, c.ID())
}

// Size returns the current number of registered connections.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// BroadcastAll sends text to every open connection and returns the number of
// successful deliveries. Failed connections are closed and removed after the
// iteration pass.
func (r *Registry) BroadcastAll(text string) int {
	return r.broadcast(text, "")
}

// BroadcastExcept behaves like BroadcastAll but skips the sender.
func (r *Registry) BroadcastExcept(sender Conn, text string) int {
	if sender == nil {
		return r.broadcast(text, "")
	}
	return r.broadcast(text, sender.ID())
}

func (r *Registry) broadcast(text, skipID string) int {
	delivered := 0
	var failed []Conn

	for _, c := range r.snapshot() {
		if c.ID() == skipID || !c.IsOpen() {
			continue
		}
		if err := c.WriteText(text); err != nil {
			r.log.Warn("send failed, dropping connection",
				slog.String("conn_id", c.ID()), logger.Error(err))
			failed = append(failed, c)
			continue
		}
		delivered++
	}

	// Removal is deferred until after the pass so a failure never disturbs
	// delivery to the remaining connections.
	for _, c := range failed {
		r.drop(c)
	}
	return delivered
}

// Sweep removes every connection no longer in an open state and returns the
// number removed. It reclaims references to connections the transport
// dropped without a close handshake.
func (r *Registry) Sweep() int {
	removed := 0
	for _, c := range r.snapshot() {
		if c.IsOpen() {
			continue
		}
		r.drop(c)
		removed++
	}
	if removed > 0 {
		r.log.Debug("liveness sweep removed connections", slog.Int("removed", removed))
	}
	return removed
}

// PingAll sends a keepalive probe to every open connection and returns the
// number of successful probes. A probe failure closes and removes that
// connection only.
func (r *Registry) PingAll() int {
	alive := 0
	for _, c := range r.snapshot() {
		if !c.IsOpen() {
			continue
		}
		if err := c.Ping(); err != nil {
			r.log.Warn("keepalive probe failed, dropping connection",
				slog.String("conn_id", c.ID()), logger.Error(err))
			r.drop(c)
			continue
		}
		alive++
	}
	return alive
}

// CloseAll closes and removes every connection. Used on shutdown.
func (r *Registry) CloseAll() {
	for _, c := range r.snapshot() {
		r.drop(c)
	}
}

func (r *Registry) drop(c Conn) {
	_ = c.Close()
	r.Remove(c)
}

func (r *Registry) snapshot() []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]Conn, 0, len(r.conns))
	for _, c := range r.conns {
		conns = append(conns, c)
	}
	return conns
}
