package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/notifyrelay/pkg/logger"
)

// envelope wraps a notification on the backplane channel. Origin identifies
// the publishing relay instance so it can skip its own publications.
type envelope struct {
	Origin string `json:"origin"`
	Text   string `json:"text"`
}

// Bridge connects a relay instance to a Redis pub/sub backplane so accepted
// notifications reach subscribers on every instance. The relay's semantics
// are unchanged when no bridge is configured.
type Bridge struct {
	client         *redis.Client
	channel        string
	origin         string
	publishTimeout time.Duration
	log            *slog.Logger
}

// New connects to Redis with retry and returns a ready Bridge. A nil logger
// disables logging.
func New(ctx context.Context, cfg Config, log *slog.Logger) (*Bridge, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	client, err := connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &Bridge{
		client:         client,
		channel:        cfg.Channel,
		origin:         uuid.NewString(),
		publishTimeout: cfg.PublishTimeout,
		log:            log,
	}, nil
}

// connect establishes a Redis connection with retry, failing fast on an
// invalid connection URL.
func connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrInvalidConnectionURL, err)
	}

	for range max(cfg.RetryAttempts, 1) {
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, ErrNotReady
}

// Publish sends one accepted notification to the backplane channel.
func (b *Bridge) Publish(ctx context.Context, text string) error {
	ctx, cancel := context.WithTimeout(ctx, b.publishTimeout)
	defer cancel()

	payload, err := json.Marshal(envelope{Origin: b.origin, Text: text})
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channel, payload).Err()
}

// Run subscribes to the backplane channel and invokes deliver for every
// notification published by another instance. It blocks until ctx is
// cancelled. Malformed payloads are logged and skipped.
func (b *Bridge) Run(ctx context.Context, deliver func(text string)) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer func() { _ = sub.Close() }()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				b.log.Warn("malformed backplane payload", logger.Error(err))
				continue
			}
			if env.Origin == b.origin {
				continue
			}
			deliver(env.Text)
		}
	}
}

// Close releases the Redis connection.
func (b *Bridge) Close() error {
	return b.client.Close()
}
