package pool

import (
	"context"
	"errors"
	"iter"
	"sync"
	"time"

	"github.com/utkarsh5026/taskpool/internal/queue"
)

// Map runs fn over every item and blocks until all of them have finished.
// Results are aligned with items: results[i] is fn(ctx, items[i]).
//
// Map is all-or-nothing. If any item failed, no results are returned and
// the error is a *TaskError for the failing item with the lowest index,
// wrapping the callable's error. If ctx is done while waiting, ctx.Err()
// is returned; the queued items still run.
//
// Example:
//
//	squares, err := pool.Map(ctx, p, func(ctx context.Context, n int) (int, error) {
//	    return n * n, nil
//	}, []int{1, 2, 3})
func Map[T, R any](ctx context.Context, p *Pool, fn ProcessFunc[T, R], items []T) ([]R, error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	results, err := submitItems(ctx, p, fn, items)
	if err != nil {
		return nil, err
	}

	records := make([]Record, len(items))
	for range items {
		rec, err := results.Dequeue(ctx)
		if err != nil {
			return nil, err
		}
		records[rec.Index] = rec
	}

	out := make([]R, len(items))
	for i, rec := range records {
		if rec.Err != nil {
			return nil, &TaskError{Index: i, TaskID: rec.ID, Err: rec.Err}
		}
		out[i] = as[R](rec.Value)
	}
	return out, nil
}

// Ordered submits fn over every item and returns a Stream that yields the
// results in input order. A result that finishes early is held back until
// every earlier position has been yielded.
func Ordered[T, R any](ctx context.Context, p *Pool, fn ProcessFunc[T, R], items []T) (*Stream[R], error) {
	return newStream(ctx, p, fn, items, true)
}

// Unordered submits fn over every item and returns a Stream that yields
// each result as soon as it is available, in completion order.
func Unordered[T, R any](ctx context.Context, p *Pool, fn ProcessFunc[T, R], items []T) (*Stream[R], error) {
	return newStream(ctx, p, fn, items, false)
}

// Stream is a finite, single-pass sequence over the results of one batch.
//
// Each call to Next yields one result. A failed item surfaces as the error
// of the Next call that reaches it, and the stream carries on with the
// remaining items. Once every item has been yielded, Next returns
// ErrStreamDone. A Stream is safe for concurrent use, but results are
// handed out one at a time.
//
// Type parameters:
//   - R: The result type of the callable
type Stream[R any] struct {
	results *queue.Queue[Record]
	total   int
	ordered bool

	mu        sync.Mutex
	delivered int
	pending   map[int]Record // ordered streams: finished, not yet yielded
}

func newStream[T, R any](ctx context.Context, p *Pool, fn ProcessFunc[T, R], items []T, ordered bool) (*Stream[R], error) {
	results, err := submitItems(ctx, p, fn, items)
	if err != nil {
		return nil, err
	}

	s := &Stream[R]{
		results: results,
		total:   len(items),
		ordered: ordered,
	}
	if ordered {
		s.pending = make(map[int]Record)
	}
	return s, nil
}

// Next blocks until the next result is available.
func (s *Stream[R]) Next() (R, error) {
	return s.NextContext(context.Background())
}

// NextTimeout is like Next but returns ErrTimeout if the next result is not
// available within timeout. The position is not consumed, so a later call
// can still yield it. A timeout of zero or less checks once without waiting.
func (s *Stream[R]) NextTimeout(timeout time.Duration) (R, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	rec, err := s.next(ctx)
	if err != nil {
		var zero R
		if errors.Is(err, context.DeadlineExceeded) {
			err = ErrTimeout
		}
		return zero, err
	}
	return as[R](rec.Value), rec.Err
}

// NextContext is like Next but returns ctx.Err() if ctx is done before the
// next result is available.
func (s *Stream[R]) NextContext(ctx context.Context) (R, error) {
	rec, err := s.next(ctx)
	if err != nil {
		var zero R
		return zero, err
	}
	return as[R](rec.Value), rec.Err
}

// next returns the record for the next position. Its error is about the
// wait itself; the item's own outcome stays inside the record.
func (s *Stream[R]) next(ctx context.Context) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.delivered == s.total {
		return Record{}, ErrStreamDone
	}

	if !s.ordered {
		rec, err := s.results.Dequeue(ctx)
		if err != nil {
			return Record{}, err
		}
		s.delivered++
		return rec, nil
	}

	for {
		if rec, ok := s.pending[s.delivered]; ok {
			delete(s.pending, s.delivered)
			s.delivered++
			return rec, nil
		}

		rec, err := s.results.Dequeue(ctx)
		if err != nil {
			return Record{}, err
		}
		s.pending[rec.Index] = rec
	}
}

// All returns an iterator over the remaining results, for use with
// range-over-func. Iteration stops after the last result or when the loop
// body breaks; per-item errors are yielded alongside a zero value.
//
//	for v, err := range stream.All() {
//	    if err != nil {
//	        log.Printf("item failed: %v", err)
//	        continue
//	    }
//	    use(v)
//	}
func (s *Stream[R]) All() iter.Seq2[R, error] {
	return func(yield func(R, error) bool) {
		for {
			rec, err := s.next(context.Background())
			if err != nil {
				return
			}
			if !yield(as[R](rec.Value), rec.Err) {
				return
			}
		}
	}
}

// Len returns the number of items in the batch.
func (s *Stream[R]) Len() int {
	return s.total
}

// Delivered returns how many results have been yielded so far.
func (s *Stream[R]) Delivered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delivered
}

// Ordered reports whether the stream yields in input order.
func (s *Stream[R]) Ordered() bool {
	return s.ordered
}

// submitItems queues fn over items with a fresh per-batch result queue.
func submitItems[T, R any](ctx context.Context, p *Pool, fn ProcessFunc[T, R], items []T) (*queue.Queue[Record], error) {
	calls := make([]func(context.Context) (any, error), len(items))
	for i, item := range items {
		calls[i] = bindArg(fn, item)
	}

	results := queue.New[Record]()
	if _, err := p.submitBatch(ctx, calls, channelSink{q: results}); err != nil {
		return nil, err
	}
	return results, nil
}
