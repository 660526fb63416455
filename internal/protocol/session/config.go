package session

import "time"

// BackoffConfig defines retry backoff behavior.
type BackoffConfig struct {
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
	Jitter       bool
}

// Config defines reconnect behavior for a Supervisor.
type Config struct {
	Backoff BackoffConfig
	// MaxAttempts bounds consecutive failures. Zero retries forever.
	MaxAttempts int
}

func DefaultConfig() Config {
	return Config{
		Backoff: BackoffConfig{
			InitialDelay: 250 * time.Millisecond,
			Multiplier:   2.0,
			MaxDelay:     5 * time.Second,
			Jitter:       true,
		},
	}
}
