package relay

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/notifyrelay/pkg/classifier"
	"github.com/dmitrymomot/notifyrelay/pkg/history"
	"github.com/dmitrymomot/notifyrelay/pkg/logger"
	"github.com/dmitrymomot/notifyrelay/pkg/registry"
)

// initialDataMarker short-circuits inbound handling before classification.
// The classifier denylist excludes the same marker; both checks are kept on
// purpose so neither path depends on the other.
const initialDataMarker = "request_initial_data"

// Publisher forwards an accepted notification to an external backplane.
// Failures are logged and never affect local delivery.
type Publisher interface {
	Publish(ctx context.Context, text string) error
}

// Hub orchestrates the relay: it owns the history buffer and the connection
// registry, and serializes every mutation of shared state behind their locks.
// The four triggers — inbound frames, HTTP submissions, the liveness sweep,
// and the keepalive probe — all go through the Hub. All methods are safe for
// concurrent use.
type Hub struct {
	cfg     Config
	reg     *registry.Registry
	hist    *history.Buffer
	log     *slog.Logger
	pub     Publisher
	started time.Time
}

// Option configures the Hub.
type Option func(*Hub)

// WithLogger supplies an external slog.Logger. If nil, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.log = l
		}
	}
}

// WithPublisher attaches an external backplane publisher. Accepted
// notifications are forwarded to it asynchronously.
func WithPublisher(p Publisher) Option {
	return func(h *Hub) { h.pub = p }
}

// New creates a Hub with an empty history buffer and connection registry.
func New(cfg Config, opts ...Option) *Hub {
	h := &Hub{
		cfg:     cfg.withDefaults(),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.hist = history.New(h.cfg.HistorySize)
	h.reg = registry.New(h.log.With(logger.Component("registry")))
	return h
}

// HandleConnect registers a newly opened connection and replays the most
// recent real notifications to that connection only. Backfill is not a
// broadcast; other subscribers see nothing.
func (h *Hub) HandleConnect(c registry.Conn) {
	h.reg.Add(c)
	h.log.Debug("connection joined",
		slog.String("conn_id", c.ID()), slog.Int("clients", h.reg.Size()))

	for _, text := range h.hist.RecentReal(h.cfg.BackfillSize) {
		if err := c.WriteText(text); err != nil {
			h.log.Warn("backfill write failed, dropping connection",
				slog.String("conn_id", c.ID()), logger.Error(err))
			h.HandleDisconnect(c)
			return
		}
	}
}

// HandleDisconnect deregisters a connection and closes it. Idempotent.
func (h *Hub) HandleDisconnect(c registry.Conn) {
	h.reg.Remove(c)
	_ = c.Close()
	h.log.Debug("connection left",
		slog.String("conn_id", c.ID()), slog.Int("clients", h.reg.Size()))
}

// HandleInbound processes one text frame received from an open connection.
// Initial-data requests are a silent no-op. Real notifications are stored
// and broadcast to every other connection; control messages are dropped.
func (h *Hub) HandleInbound(c registry.Conn, text string) {
	if strings.Contains(strings.ToLower(text), initialDataMarker) {
		return
	}

	if !classifier.IsRealNotification(text) {
		h.log.Debug("control message dropped", slog.String("conn_id", c.ID()))
		return
	}

	h.hist.RecordIfNew(text)
	h.reg.BroadcastExcept(c, text)
	h.publish(text)
}

// SubmitResult reports the outcome of a producer API submission.
type SubmitResult struct {
	Accepted bool   // false when the message was filtered as control traffic
	Clients  int    // connection count at time of broadcast (accepted only)
	Text     string // encoded pipe-delimited notification
}

// Submit handles a submission from the side-channel producer API: validate,
// encode, classify, then store and broadcast to every connection. A control
// message yields a filtered (non-error) result with no storage or broadcast.
func (h *Hub) Submit(ctx context.Context, n Notification) (SubmitResult, error) {
	if err := n.Validate(); err != nil {
		return SubmitResult{}, err
	}

	text := n.Encode()
	if !classifier.IsRealNotification(text) {
		h.log.InfoContext(ctx, "submission filtered as control traffic",
			slog.String("type", n.Type))
		return SubmitResult{Accepted: false, Text: text}, nil
	}

	h.hist.RecordIfNew(text)
	h.reg.BroadcastAll(text)
	h.publish(text)

	h.log.InfoContext(ctx, "notification relayed",
		slog.String("type", n.Type), slog.Int("clients", h.reg.Size()))
	return SubmitResult{Accepted: true, Clients: h.reg.Size(), Text: text}, nil
}

// DeliverRemote fans out a notification received from the backplane to every
// local connection. Classification is re-applied, and a notification already
// present in history is skipped, which suppresses publish/subscribe loops
// between relay instances.
func (h *Hub) DeliverRemote(text string) {
	if !classifier.IsRealNotification(text) {
		return
	}
	if !h.hist.RecordIfNew(text) {
		return
	}
	h.reg.BroadcastAll(text)
}

// Status is a point-in-time snapshot for status reporting.
type Status struct {
	Clients           int
	UptimeSeconds     int64
	TotalMessages     int
	RealNotifications int
	Timestamp         time.Time
}

// Status returns the current relay state. RealNotifications re-counts history
// through the classifier and in practice equals TotalMessages.
func (h *Hub) Status() Status {
	return Status{
		Clients:           h.reg.Size(),
		UptimeSeconds:     int64(time.Since(h.started).Seconds()),
		TotalMessages:     h.hist.Len(),
		RealNotifications: h.hist.RealCount(),
		Timestamp:         time.Now().UTC(),
	}
}

// Run drives the two periodic maintenance jobs until ctx is cancelled: the
// liveness sweep and the keepalive probe. They share an interval by default
// but run on independent tickers, so a slow sweep never delays probes.
func (h *Hub) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		ticker := time.NewTicker(h.cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				h.reg.Sweep()
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		defer wg.Done()
		ticker := time.NewTicker(h.cfg.PingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				h.reg.PingAll()
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
}

// Close closes every registered connection. Used on shutdown.
func (h *Hub) Close() {
	h.reg.CloseAll()
}

func (h *Hub) publish(text string) {
	if h.pub == nil {
		return
	}
	// Fire-and-forget: backplane failures must not stall or fail local delivery.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.pub.Publish(ctx, text); err != nil {
			h.log.Warn("backplane publish failed", logger.Error(err))
		}
	}()
}
