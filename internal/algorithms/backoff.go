package algorithms

import (
	"math/rand"
	"sync"
	"time"
)

// maxShift caps the exponent so 1<<attempt cannot overflow.
const maxShift = 62

// exponentialBackoff doubles the delay on every attempt:
// initial, 2*initial, 4*initial, ... capped at max.
type exponentialBackoff struct {
	initial, max time.Duration
}

func newExponentialBackoff(initial, max time.Duration) *exponentialBackoff {
	return &exponentialBackoff{initial: initial, max: max}
}

func (b *exponentialBackoff) NextDelay(attempt int) time.Duration {
	return exponentialDelay(attempt, b.initial, b.max)
}

func (b *exponentialBackoff) Reset() {}

// jitteredBackoff spreads the exponential delay by up to ±factor, so that
// many pollers started together do not wake in lockstep.
type jitteredBackoff struct {
	initial, max time.Duration
	factor       float64

	mu  sync.Mutex
	rng *rand.Rand
}

func newJitteredBackoff(initial, max time.Duration, factor float64) *jitteredBackoff {
	return &jitteredBackoff{
		initial: initial,
		max:     max,
		factor:  clamp(factor, 0, 1),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- jitter does not need crypto rand
	}
}

func (b *jitteredBackoff) NextDelay(attempt int) time.Duration {
	base := exponentialDelay(attempt, b.initial, b.max)

	b.mu.Lock()
	spread := 1 + (b.rng.Float64()*2-1)*b.factor
	b.mu.Unlock()

	return clamp(time.Duration(float64(base)*spread), 0, b.max)
}

func (b *jitteredBackoff) Reset() {}

// decorrelatedBackoff picks each delay uniformly from [initial, 3*previous],
// capped at max. The delay depends on the previous one rather than on the
// attempt number.
type decorrelatedBackoff struct {
	initial, max time.Duration

	mu   sync.Mutex
	prev time.Duration
	rng  *rand.Rand
}

func newDecorrelatedBackoff(initial, max time.Duration) *decorrelatedBackoff {
	return &decorrelatedBackoff{
		initial: initial,
		max:     max,
		prev:    initial,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- jitter does not need crypto rand
	}
}

func (b *decorrelatedBackoff) NextDelay(attempt int) time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	if attempt == 0 {
		b.prev = b.initial
		return b.initial
	}

	upper := min(3*b.prev, b.max)
	span := upper - b.initial
	if span <= 0 {
		b.prev = b.initial
		return b.initial
	}

	b.prev = b.initial + time.Duration(b.rng.Int63n(int64(span)))
	return b.prev
}

func (b *decorrelatedBackoff) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prev = b.initial
}

func exponentialDelay(attempt int, initial, max time.Duration) time.Duration {
	if attempt < 0 {
		return 0
	}
	if attempt > maxShift {
		return max
	}

	delay := initial * time.Duration(int64(1)<<uint(attempt))
	if delay > max || delay < 0 || delay/time.Duration(int64(1)<<uint(attempt)) != initial {
		return max
	}
	return delay
}

func clamp[T int | int64 | float64 | time.Duration](v, lo, hi T) T {
	return max(lo, min(v, hi))
}
