// Package algorithms holds the delay strategies used to pace repeated
// bounded waits on pool results.
package algorithms

import "time"

// BackoffType selects a BackoffStrategy.
type BackoffType int

const (
	// BackoffConstant waits the initial delay every time.
	BackoffConstant BackoffType = iota
	// BackoffExponential doubles the delay on each attempt.
	BackoffExponential
	// BackoffJittered is exponential with random spread.
	BackoffJittered
	// BackoffDecorrelated draws each delay relative to the previous one.
	BackoffDecorrelated
)

func (t BackoffType) String() string {
	switch t {
	case BackoffConstant:
		return "constant"
	case BackoffExponential:
		return "exponential"
	case BackoffJittered:
		return "jittered"
	case BackoffDecorrelated:
		return "decorrelated"
	default:
		return "unknown"
	}
}

// NewBackoffStrategy builds the strategy for backoffType. maxDelay below
// initialDelay is raised to initialDelay.
func NewBackoffStrategy(backoffType BackoffType, initialDelay, maxDelay time.Duration, jitterFactor float64) BackoffStrategy {
	maxDelay = max(maxDelay, initialDelay)

	switch backoffType {
	case BackoffExponential:
		return newExponentialBackoff(initialDelay, maxDelay)
	case BackoffJittered:
		return newJitteredBackoff(initialDelay, maxDelay, jitterFactor)
	case BackoffDecorrelated:
		return newDecorrelatedBackoff(initialDelay, maxDelay)
	default:
		return newExponentialBackoff(initialDelay, initialDelay)
	}
}
