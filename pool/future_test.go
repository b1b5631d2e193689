package pool_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/utkarsh5026/taskpool/pool"
)

type pair struct{ a, b int }

func mul(ctx context.Context, p pair) (int, error) {
	return p.a * p.b, nil
}

func newPool(t *testing.T, workers int, opts ...pool.Option) *pool.Pool {
	t.Helper()
	p, err := pool.New(workers, opts...)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	t.Cleanup(func() { _ = p.Shutdown(true) })
	return p
}

// gated returns a callable that blocks until release is closed.
func gated[T any](release <-chan struct{}) pool.ProcessFunc[T, T] {
	return func(ctx context.Context, v T) (T, error) {
		<-release
		return v, nil
	}
}

func TestFuture_Get(t *testing.T) {
	p := newPool(t, 2)

	t.Run("successful result", func(t *testing.T) {
		future, err := pool.Submit(context.Background(), p, mul, pair{6, 7})
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}

		value, err := future.Get()
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if value != 42 {
			t.Errorf("expected 42, got %d", value)
		}
		if future.ID() <= 0 {
			t.Errorf("expected positive id, got %d", future.ID())
		}
	})

	t.Run("error is returned verbatim", func(t *testing.T) {
		expectedErr := errors.New("task failed")
		future, err := pool.Submit(context.Background(), p, func(ctx context.Context, _ int) (string, error) {
			return "", expectedErr
		}, 0)
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}

		value, err := future.Get()
		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if value != "" {
			t.Errorf("expected empty value, got %q", value)
		}
	})

	t.Run("multiple Get calls return same result", func(t *testing.T) {
		expectedErr := errors.New("boom")
		okFuture, _ := pool.Submit(context.Background(), p, mul, pair{3, 3})
		errFuture, _ := pool.Submit(context.Background(), p, func(ctx context.Context, _ int) (int, error) {
			return 0, expectedErr
		}, 0)

		for range 3 {
			if v, err := okFuture.Get(); v != 9 || err != nil {
				t.Errorf("expected (9, nil), got (%d, %v)", v, err)
			}
			if v, err := okFuture.GetWithTimeout(0); v != 9 || err != nil {
				t.Errorf("expected (9, nil) from GetWithTimeout, got (%d, %v)", v, err)
			}
			if _, err := errFuture.Get(); err != expectedErr {
				t.Errorf("expected %v, got %v", expectedErr, err)
			}
			if _, err := errFuture.GetWithContext(context.Background()); err != expectedErr {
				t.Errorf("expected %v from GetWithContext, got %v", expectedErr, err)
			}
		}
	})

	t.Run("ids increase in submission order", func(t *testing.T) {
		var last int64
		for i := range 10 {
			f, err := pool.Submit(context.Background(), p, mul, pair{i, 1})
			if err != nil {
				t.Fatalf("submit failed: %v", err)
			}
			if f.ID() <= last {
				t.Errorf("id %d not greater than previous %d", f.ID(), last)
			}
			last = f.ID()
		}
	})
}

func TestFuture_GetWithTimeout(t *testing.T) {
	p := newPool(t, 1)

	release := make(chan struct{})
	future, err := pool.Submit(context.Background(), p, gated[int](release), 5)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	t.Run("zero timeout on pending future", func(t *testing.T) {
		if _, err := future.GetWithTimeout(0); !errors.Is(err, pool.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
	})

	t.Run("short timeout on pending future", func(t *testing.T) {
		start := time.Now()
		if _, err := future.GetWithTimeout(20 * time.Millisecond); !errors.Is(err, pool.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
		if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
			t.Errorf("returned after %v, before the timeout", elapsed)
		}
		if future.IsReady() {
			t.Error("future must stay pending after a timeout")
		}
	})

	t.Run("context deadline", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		if _, err := future.GetWithContext(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected context.DeadlineExceeded, got %v", err)
		}
	})

	t.Run("succeeds once ready", func(t *testing.T) {
		close(release)
		v, err := future.GetWithTimeout(time.Second)
		if err != nil || v != 5 {
			t.Errorf("expected (5, nil), got (%d, %v)", v, err)
		}
		select {
		case <-future.Done():
		default:
			t.Error("Done channel should be closed")
		}
	})
}

// Poll a slow task with a short timeout until it completes.
func TestFuture_PollSlowTask(t *testing.T) {
	p := newPool(t, 4)

	slow := func(ctx context.Context, pr pair) (string, error) {
		time.Sleep(120 * time.Millisecond)
		return fmt.Sprintf("%d*%d=%d", pr.a, pr.b, pr.a*pr.b), nil
	}

	future, err := pool.Submit(context.Background(), p, slow, pair{0, 7})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	timeouts := 0
	var value string
	for {
		v, err := future.GetWithTimeout(20 * time.Millisecond)
		if errors.Is(err, pool.ErrTimeout) {
			timeouts++
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		value = v
		break
	}

	if value != "0*7=0" {
		t.Errorf("expected '0*7=0', got %q", value)
	}
	if timeouts == 0 {
		t.Error("expected at least one timeout before the result arrived")
	}
}

func TestPoll(t *testing.T) {
	p := newPool(t, 2)

	t.Run("reports every timed out attempt", func(t *testing.T) {
		future, _ := pool.Submit(context.Background(), p, func(ctx context.Context, n int) (int, error) {
			time.Sleep(100 * time.Millisecond)
			return n * 2, nil
		}, 21)

		var misses atomic.Int32
		v, err := pool.Poll(context.Background(), future,
			pool.WithPollBackoff(pool.BackoffExponential, 5*time.Millisecond, 20*time.Millisecond),
			pool.OnPollTimeout(func(int) { misses.Add(1) }),
		)
		if err != nil || v != 42 {
			t.Errorf("expected (42, nil), got (%d, %v)", v, err)
		}
		if misses.Load() == 0 {
			t.Error("expected at least one timed out attempt")
		}
	})

	t.Run("returns the task error", func(t *testing.T) {
		taskErr := errors.New("bad input")
		future, _ := pool.Submit(context.Background(), p, func(ctx context.Context, n int) (int, error) {
			return 0, taskErr
		}, 1)

		if _, err := pool.Poll(context.Background(), future, pool.WithPollJitter(0.2)); !errors.Is(err, taskErr) {
			t.Errorf("expected %v, got %v", taskErr, err)
		}
	})

	t.Run("stops when context is done", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		future, _ := pool.Submit(context.Background(), p, gated[int](release), 1)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()

		_, err := pool.Poll(ctx, future, pool.WithPollBackoff(pool.BackoffConstant, 5*time.Millisecond, 0))
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected context.DeadlineExceeded, got %v", err)
		}
	})
}

func TestApply(t *testing.T) {
	p := newPool(t, 2)

	v, err := pool.Apply(context.Background(), p, mul, pair{4, 5})
	if err != nil || v != 20 {
		t.Errorf("expected (20, nil), got (%d, %v)", v, err)
	}

	divErr := errors.New("division by zero")
	_, err = pool.Apply(context.Background(), p, func(ctx context.Context, x float64) (float64, error) {
		if x == 5 {
			return 0, divErr
		}
		return 1 / (x - 5), nil
	}, 5)
	if !errors.Is(err, divErr) {
		t.Errorf("expected %v, got %v", divErr, err)
	}
}

type formatTask struct{ name string }

func (f formatTask) Execute(ctx context.Context) (any, error) {
	id, _ := pool.WorkerID(ctx)
	return fmt.Sprintf("worker-%d says hello to %s", id, f.name), nil
}

func TestPool_Execute(t *testing.T) {
	p := newPool(t, 3)

	tasks := []pool.Task{
		formatTask{name: "alice"},
		pool.TaskFunc(func(ctx context.Context) (any, error) { return 3.5, nil }),
		pool.TaskFunc(func(ctx context.Context) (any, error) {
			if _, ok := pool.WorkerID(ctx); !ok {
				return nil, errors.New("missing worker id")
			}
			return []int{1, 2}, nil
		}),
	}

	futures := make([]*pool.Future[any], len(tasks))
	for i, task := range tasks {
		f, err := p.Execute(context.Background(), task)
		if err != nil {
			t.Fatalf("execute %d failed: %v", i, err)
		}
		futures[i] = f
	}

	v0, err := futures[0].Get()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s, ok := v0.(string); !ok || len(s) == 0 {
		t.Errorf("expected greeting string, got %v", v0)
	}

	if v1, _ := futures[1].Get(); v1 != 3.5 {
		t.Errorf("expected 3.5, got %v", v1)
	}

	if _, err := futures[2].Get(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPool_PanicRecovery(t *testing.T) {
	p := newPool(t, 1)

	future, err := pool.Submit(context.Background(), p, func(ctx context.Context, _ int) (int, error) {
		panic("something went wrong")
	}, 0)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	_, err = future.Get()
	var panicErr *pool.PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("expected *PanicError, got %v", err)
	}
	if panicErr.Value != "something went wrong" {
		t.Errorf("unexpected panic value %v", panicErr.Value)
	}
	if len(panicErr.Stack) == 0 {
		t.Error("expected a stack trace")
	}

	// The single worker must still be serving the queue.
	v, err := pool.Apply(context.Background(), p, mul, pair{2, 2})
	if err != nil || v != 4 {
		t.Errorf("expected (4, nil) after panic, got (%d, %v)", v, err)
	}
}
