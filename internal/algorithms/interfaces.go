package algorithms

import "time"

// BackoffStrategy computes how long to wait before the next attempt of a
// repeated, bounded wait.
type BackoffStrategy interface {
	// NextDelay returns the delay to use for attempt (0-indexed).
	NextDelay(attempt int) time.Duration

	// Reset clears any state carried between attempts.
	Reset()
}
