package pool

import (
	"context"
	"errors"
	"time"

	"github.com/utkarsh5026/taskpool/internal/algorithms"
)

// BackoffType selects how the bound of each Poll attempt grows.
type BackoffType = algorithms.BackoffType

const (
	BackoffConstant     = algorithms.BackoffConstant
	BackoffExponential  = algorithms.BackoffExponential
	BackoffJittered     = algorithms.BackoffJittered
	BackoffDecorrelated = algorithms.BackoffDecorrelated
)

// PollOption configures Poll.
type PollOption func(*pollConfig)

type pollConfig struct {
	backoffType  BackoffType
	initialDelay time.Duration
	maxDelay     time.Duration
	jitterFactor float64
	onTimeout    func(attempt int)
}

// WithPollBackoff sets the bound of the first attempt and how it grows.
// The default is a constant 20ms.
func WithPollBackoff(backoffType BackoffType, initialDelay, maxDelay time.Duration) PollOption {
	return func(cfg *pollConfig) {
		cfg.backoffType = backoffType
		if initialDelay > 0 {
			cfg.initialDelay = initialDelay
		}
		if maxDelay > 0 {
			cfg.maxDelay = maxDelay
		}
	}
}

// WithPollJitter sets the spread used by BackoffJittered, between 0 and 1.
func WithPollJitter(factor float64) PollOption {
	return func(cfg *pollConfig) {
		cfg.jitterFactor = factor
	}
}

// OnPollTimeout registers a callback run after every attempt that timed
// out, with the 0-indexed attempt number.
func OnPollTimeout(fn func(attempt int)) PollOption {
	return func(cfg *pollConfig) {
		cfg.onTimeout = fn
	}
}

// Poll waits for f by calling GetWithTimeout with a short bound until the
// future is ready or ctx is done. Each bound comes from the configured
// backoff strategy, so callers can report progress between attempts.
//
// Example:
//
//	v, err := pool.Poll(ctx, future, pool.OnPollTimeout(func(int) {
//	    fmt.Print(".")
//	}))
func Poll[R any](ctx context.Context, f *Future[R], opts ...PollOption) (R, error) {
	cfg := &pollConfig{
		backoffType:  BackoffConstant,
		initialDelay: 20 * time.Millisecond,
		jitterFactor: 0.1,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	strategy := algorithms.NewBackoffStrategy(cfg.backoffType, cfg.initialDelay, cfg.maxDelay, cfg.jitterFactor)

	for attempt := 0; ; attempt++ {
		if _, err := f.GetWithTimeout(strategy.NextDelay(attempt)); !errors.Is(err, ErrTimeout) || f.IsReady() {
			return f.Get()
		}

		if cfg.onTimeout != nil {
			cfg.onTimeout(attempt)
		}

		if err := ctx.Err(); err != nil {
			var zero R
			return zero, err
		}
	}
}
