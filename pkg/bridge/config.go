package bridge

import "time"

type Config struct {
	// ConnectionURL is the Redis URL, e.g. "redis://:password@localhost:6379/0".
	// Empty disables the bridge.
	ConnectionURL string `env:"REDIS_URL"`
	// Channel is the pub/sub channel shared by relay instances.
	Channel string `env:"BRIDGE_CHANNEL" envDefault:"notifyrelay:notifications"`
	// RetryAttempts is the number of connection attempts.
	RetryAttempts int `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	// RetryInterval is the delay between connection attempts.
	RetryInterval time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	// ConnectTimeout bounds the whole connect-with-retry sequence.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
	// PublishTimeout bounds a single publish call.
	PublishTimeout time.Duration `env:"BRIDGE_PUBLISH_TIMEOUT" envDefault:"2s"`
}

// Enabled reports whether a backplane is configured.
func (c Config) Enabled() bool {
	return c.ConnectionURL != ""
}
