package pool

import (
	"context"
	"time"
)

// Future is the handle of a single asynchronous submission. It starts
// pending and becomes ready exactly once, when its work item finishes.
//
// Type parameters:
//   - R: The result type of the submitted callable
type Future[R any] struct {
	id    int64
	done  chan struct{}
	value R
	err   error
}

func newFuture[R any]() *Future[R] {
	return &Future[R]{done: make(chan struct{})}
}

func (f *Future[R]) bind(id int64) {
	f.id = id
}

func (f *Future[R]) resolve(rec Record) {
	f.value = as[R](rec.Value)
	f.err = rec.Err
	close(f.done)
}

// ID returns the pool-wide id assigned at submission.
func (f *Future[R]) ID() int64 {
	return f.id
}

// Get blocks until the task has finished and returns its value, or the
// error the callable returned. Repeated calls return the same outcome.
func (f *Future[R]) Get() (R, error) {
	<-f.done
	return f.value, f.err
}

// GetWithTimeout is like Get but gives up after timeout and returns
// ErrTimeout, leaving the future pending so the call can be retried.
// A timeout of zero or less checks once without waiting.
func (f *Future[R]) GetWithTimeout(timeout time.Duration) (R, error) {
	if timeout <= 0 {
		select {
		case <-f.done:
			return f.value, f.err
		default:
			var zero R
			return zero, ErrTimeout
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.value, f.err
	case <-timer.C:
		var zero R
		return zero, ErrTimeout
	}
}

// GetWithContext is like Get but returns ctx.Err() if ctx is done first.
func (f *Future[R]) GetWithContext(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// IsReady reports whether the task has finished, without blocking.
func (f *Future[R]) IsReady() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed once the future is ready.
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}
