package resilience

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	perr "bluebird/internal/platform/errors"
	"bluebird/internal/platform/logger"

	"github.com/sony/gobreaker/v2"
)

// Classification says whether an error is worth another attempt and whether it
// counts against the breaker
type Classification struct {
	Retryable     bool
	RecordFailure bool
}

// Classifier maps an error to a Classification
type Classifier func(err error) Classification

// Classify is the default classifier: transient project codes retry, caller
// mistakes (validation, auth, not found) neither retry nor trip the breaker
func Classify(err error) Classification {
	if err == nil {
		return Classification{}
	}
	if errors.Is(err, context.Canceled) {
		return Classification{}
	}
	switch perr.CodeOf(err) {
	case perr.ErrorCodeValidation, perr.ErrorCodeInvalidArgument, perr.ErrorCodeJSON,
		perr.ErrorCodeUnauthorized, perr.ErrorCodeForbidden, perr.ErrorCodeNotFound:
		return Classification{}
	}
	return Classification{Retryable: perr.Retryable(err), RecordFailure: true}
}

// Executor runs operations through retry and a breaker keyed by operation name
type Executor struct {
	cfg Config

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[any]

	sleep func(ctx context.Context, d time.Duration) bool
}

// NewExecutor returns an Executor with cfg normalised
func NewExecutor(cfg Config) *Executor {
	return &Executor{
		cfg:      cfg.normalize(),
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
		sleep:    sleepCtx,
	}
}

// Execute runs fn under the named breaker, retrying retryable failures.
// An open breaker surfaces as ErrorCodeUnavailable
func (e *Executor) Execute(ctx context.Context, operation string, fn func(context.Context) error, classify Classifier) error {
	if fn == nil {
		return perr.Internalf("resilience: nil operation")
	}
	op := strings.TrimSpace(operation)
	if op == "" {
		op = "unknown"
	}
	if classify == nil {
		classify = Classify
	}

	if !e.cfg.BreakerEnabled {
		return e.retry(ctx, op, fn, classify)
	}

	_, err := e.breaker(op, classify).Execute(func() (any, error) {
		return nil, e.retry(ctx, op, fn, classify)
	})
	if IsCircuitOpen(err) {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "%s temporarily unavailable", op)
	}
	return err
}

// State reports the breaker state for op, closed when no breaker exists yet
func (e *Executor) State(op string) gobreaker.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if b, ok := e.breakers[op]; ok {
		return b.State()
	}
	return gobreaker.StateClosed
}

func (e *Executor) retry(ctx context.Context, op string, fn func(context.Context) error, classify Classifier) error {
	lg := logger.Named("resilience")
	backoff := e.cfg.RetryInitialBackoff

	var err error
	for attempt := 1; attempt <= e.cfg.RetryMaxAttempts; attempt++ {
		if cerr := ctx.Err(); cerr != nil {
			if err != nil {
				return err
			}
			return cerr
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !classify(err).Retryable || attempt == e.cfg.RetryMaxAttempts {
			return err
		}

		wait := min(backoff, e.cfg.RetryMaxBackoff)
		lg.Warn().
			Str("operation", op).
			Int("attempt", attempt).
			Int("max_attempts", e.cfg.RetryMaxAttempts).
			Dur("backoff", wait).
			Err(err).
			Msg("retrying")

		if !e.sleep(ctx, wait) {
			return err
		}
		backoff = min(time.Duration(float64(backoff)*e.cfg.RetryMultiplier), e.cfg.RetryMaxBackoff)
	}
	return err
}

func (e *Executor) breaker(op string, classify Classifier) *gobreaker.CircuitBreaker[any] {
	e.mu.Lock()
	defer e.mu.Unlock()

	if b, ok := e.breakers[op]; ok {
		return b
	}
	cfg := e.cfg
	b := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        op,
		MaxRequests: cfg.BreakerHalfOpenMaxCalls,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			if c.Requests < cfg.BreakerMinRequests {
				return false
			}
			return float64(c.TotalFailures)/float64(c.Requests) >= cfg.BreakerFailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !classify(err).RecordFailure
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Named("resilience").Warn().
				Str("operation", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("breaker state change")
		},
	})
	e.breakers[op] = b
	return b
}

// IsCircuitOpen reports whether err came from an open or saturated breaker
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
