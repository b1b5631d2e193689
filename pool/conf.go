package pool

import (
	"log/slog"

	"golang.org/x/time/rate"
)

// Option is a functional option for configuring the pool.
type Option func(*poolConfig)

type poolConfig struct {
	name        string
	rateLimiter *rate.Limiter
	cpuAffinity bool
	logger      *slog.Logger

	onTaskStart func(TaskInfo)
	onTaskEnd   func(TaskInfo, error)
}

func defaultConfig() *poolConfig {
	return &poolConfig{
		name:   "pool",
		logger: slog.New(slog.DiscardHandler),
	}
}

// WithName sets the name attached to the pool's log records.
func WithName(name string) Option {
	return func(cfg *poolConfig) {
		if name != "" {
			cfg.name = name
		}
	}
}

// WithRateLimit sets a rate limiter for controlling task throughput.
// tasksPerSecond specifies the maximum number of tasks started per second
// across all workers, burst the number that may start back to back.
// If not specified, no rate limiting is applied.
//
// Example:
//
//	WithRateLimit(10, 5) // Allow 10 tasks/sec with burst of 5
func WithRateLimit(tasksPerSecond float64, burst int) Option {
	return func(cfg *poolConfig) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithCPUAffinity locks every worker goroutine to its own OS thread and,
// where the platform allows it, pins that thread to a CPU core.
func WithCPUAffinity() Option {
	return func(cfg *poolConfig) {
		cfg.cpuAffinity = true
	}
}

// WithLogger sets the structured logger used for lifecycle events.
// The default logger discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *poolConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithOnTaskStart registers a hook called by the worker right before it
// invokes a callable. Hooks run on worker goroutines and must be safe for
// concurrent use.
func WithOnTaskStart(fn func(TaskInfo)) Option {
	return func(cfg *poolConfig) {
		cfg.onTaskStart = fn
	}
}

// WithOnTaskEnd registers a hook called after a callable returns, with the
// error it produced (nil on success).
func WithOnTaskEnd(fn func(TaskInfo, error)) Option {
	return func(cfg *poolConfig) {
		cfg.onTaskEnd = fn
	}
}
