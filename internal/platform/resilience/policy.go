// Package resilience wraps outbound calls with bounded retries and a per-operation circuit breaker
package resilience

import (
	"time"

	"bluebird/internal/platform/config"
)

// Config tunes retry backoff and breaker trip conditions
type Config struct {
	RetryMaxAttempts    int
	RetryInitialBackoff time.Duration
	RetryMaxBackoff     time.Duration
	RetryMultiplier     float64

	BreakerEnabled          bool
	BreakerMinRequests      uint32
	BreakerFailureRatio     float64
	BreakerOpenTimeout      time.Duration
	BreakerHalfOpenMaxCalls uint32
}

// DefaultConfig is three attempts with a short capped backoff and a breaker
// that opens at a 50% failure ratio over at least ten calls
func DefaultConfig() Config {
	return Config{
		RetryMaxAttempts:        3,
		RetryInitialBackoff:     100 * time.Millisecond,
		RetryMaxBackoff:         400 * time.Millisecond,
		RetryMultiplier:         2,
		BreakerEnabled:          true,
		BreakerMinRequests:      10,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      30 * time.Second,
		BreakerHalfOpenMaxCalls: 2,
	}
}

// FromConf reads overrides from cfg, e.g. with prefix N8N_: N8N_RETRY_ATTEMPTS, N8N_BREAKER_ENABLED
func FromConf(cfg config.Conf) Config {
	d := DefaultConfig()
	return Config{
		RetryMaxAttempts:        cfg.MayInt("RETRY_ATTEMPTS", d.RetryMaxAttempts),
		RetryInitialBackoff:     cfg.MayDuration("RETRY_BACKOFF", d.RetryInitialBackoff),
		RetryMaxBackoff:         cfg.MayDuration("RETRY_MAX_BACKOFF", d.RetryMaxBackoff),
		RetryMultiplier:         d.RetryMultiplier,
		BreakerEnabled:          cfg.MayBool("BREAKER_ENABLED", d.BreakerEnabled),
		BreakerMinRequests:      uint32(cfg.MayInt("BREAKER_MIN_REQUESTS", int(d.BreakerMinRequests))),
		BreakerFailureRatio:     d.BreakerFailureRatio,
		BreakerOpenTimeout:      cfg.MayDuration("BREAKER_OPEN_TIMEOUT", d.BreakerOpenTimeout),
		BreakerHalfOpenMaxCalls: d.BreakerHalfOpenMaxCalls,
	}
}

func (c Config) normalize() Config {
	d := DefaultConfig()
	if c.RetryMaxAttempts <= 0 {
		c.RetryMaxAttempts = 1
	}
	if c.RetryInitialBackoff < 0 {
		c.RetryInitialBackoff = 0
	}
	if c.RetryMaxBackoff < c.RetryInitialBackoff {
		c.RetryMaxBackoff = c.RetryInitialBackoff
	}
	if c.RetryMultiplier < 1 {
		c.RetryMultiplier = 1
	}
	if c.BreakerMinRequests == 0 {
		c.BreakerMinRequests = d.BreakerMinRequests
	}
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1 {
		c.BreakerFailureRatio = d.BreakerFailureRatio
	}
	if c.BreakerOpenTimeout <= 0 {
		c.BreakerOpenTimeout = d.BreakerOpenTimeout
	}
	if c.BreakerHalfOpenMaxCalls == 0 {
		c.BreakerHalfOpenMaxCalls = 1
	}
	return c
}
