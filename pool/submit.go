package pool

import "context"

// Submit queues fn(ctx, arg) for asynchronous execution and returns at once
// with a Future for its outcome. ctx is handed to fn unchanged except for
// the worker id (see WorkerID); the pool never cancels it.
//
// Example:
//
//	future, err := pool.Submit(ctx, p, mul, pair{6, 7})
//	if err != nil {
//	    return err
//	}
//	product, err := future.Get()
func Submit[T, R any](ctx context.Context, p *Pool, fn ProcessFunc[T, R], arg T) (*Future[R], error) {
	return submitFuture[R](ctx, p, bindArg(fn, arg))
}

// Apply submits fn(ctx, arg) and blocks until it has run, returning its
// value or error.
func Apply[T, R any](ctx context.Context, p *Pool, fn ProcessFunc[T, R], arg T) (R, error) {
	future, err := Submit(ctx, p, fn, arg)
	if err != nil {
		var zero R
		return zero, err
	}
	return future.GetWithContext(ctx)
}

func submitFuture[R any](ctx context.Context, p *Pool, call func(context.Context) (any, error)) (*Future[R], error) {
	future := newFuture[R]()
	if err := p.submitAsync(ctx, call, future); err != nil {
		return nil, err
	}
	return future, nil
}

// bindArg closes over the argument so the worker can invoke every item the
// same way.
func bindArg[T, R any](fn ProcessFunc[T, R], arg T) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		return fn(ctx, arg)
	}
}
