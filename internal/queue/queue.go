// Package queue provides the unbounded FIFO used as both the task queue and
// the result channel of the pool.
package queue

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrQueueClosed = errors.New("queue is closed")
)

// minCompactSize is the number of consumed slots after which the backing
// slice is compacted, so a long-lived queue does not grow without bound.
const minCompactSize = 64

// Queue is an unbounded multi-producer multi-consumer FIFO queue.
//
// Enqueue never blocks. Dequeue blocks until an item is available, the
// queue is closed and drained, or the context is done. Waiting consumers
// park on a broadcast channel that is closed on the next Enqueue or Close,
// so idle consumers never spin.
type Queue[T any] struct {
	mu     sync.Mutex
	items  []T
	head   int
	wake   chan struct{} // nil while nobody is waiting
	closed bool
}

// New creates an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Enqueue appends v to the tail of the queue.
// It returns ErrQueueClosed if Close has already been called.
func (q *Queue[T]) Enqueue(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	q.items = append(q.items, v)
	q.broadcast()
	return nil
}

// Dequeue removes and returns the item at the head of the queue, blocking
// until one is available.
//
// Items still buffered when the queue is closed are handed out before
// ErrQueueClosed is returned. If ctx is done first, ctx.Err() is returned
// and nothing is removed.
func (q *Queue[T]) Dequeue(ctx context.Context) (T, error) {
	for {
		q.mu.Lock()
		if v, ok := q.pop(); ok {
			q.mu.Unlock()
			return v, nil
		}

		if q.closed {
			q.mu.Unlock()
			var zero T
			return zero, ErrQueueClosed
		}

		if q.wake == nil {
			q.wake = make(chan struct{})
		}
		wake := q.wake
		q.mu.Unlock()

		select {
		case <-wake:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// TryDequeue removes and returns the head item without blocking.
// The boolean is false when the queue is empty.
func (q *Queue[T]) TryDequeue() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pop()
}

// Close marks the queue closed. Buffered items remain available to
// Dequeue; further Enqueue calls fail. Close is idempotent.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.broadcast()
}

// Len returns the number of buffered items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// pop must be called with mu held.
func (q *Queue[T]) pop() (T, bool) {
	var zero T
	if q.head == len(q.items) {
		return zero, false
	}

	v := q.items[q.head]
	q.items[q.head] = zero
	q.head++

	switch {
	case q.head == len(q.items):
		q.items = q.items[:0]
		q.head = 0
	case q.head >= minCompactSize && q.head*2 >= len(q.items):
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}

	return v, true
}

// broadcast must be called with mu held.
func (q *Queue[T]) broadcast() {
	if q.wake != nil {
		close(q.wake)
		q.wake = nil
	}
}
