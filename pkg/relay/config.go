package relay

import "time"

type Config struct {
	// HistorySize bounds the backfill history buffer.
	HistorySize int `env:"RELAY_HISTORY_SIZE" envDefault:"50"`
	// BackfillSize is the number of recent notifications replayed to a new connection.
	BackfillSize int `env:"RELAY_BACKFILL_SIZE" envDefault:"5"`
	// SweepInterval is the period of the liveness sweep.
	SweepInterval time.Duration `env:"RELAY_SWEEP_INTERVAL" envDefault:"30s"`
	// PingInterval is the period of the keepalive probe.
	PingInterval time.Duration `env:"RELAY_PING_INTERVAL" envDefault:"30s"`
}

func (c Config) withDefaults() Config {
	if c.HistorySize <= 0 {
		c.HistorySize = 50
	}
	if c.BackfillSize <= 0 {
		c.BackfillSize = 5
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = 30 * time.Second
	}
	if c.PingInterval <= 0 {
		c.PingInterval = 30 * time.Second
	}
	return c
}
