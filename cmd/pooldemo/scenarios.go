package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/utkarsh5026/taskpool/internal/queue"
	"github.com/utkarsh5026/taskpool/pool"
)

// operand is the argument of the arithmetic callables used by every scenario.
type operand struct {
	a, b int
}

func (o operand) String() string {
	return fmt.Sprintf("(%d, %d)", o.a, o.b)
}

// randomPause simulates a little real work.
func randomPause(limit time.Duration) {
	time.Sleep(rand.N(limit))
}

func mul(ctx context.Context, o operand) (int, error) {
	randomPause(50 * time.Millisecond)
	return o.a * o.b, nil
}

func plus(ctx context.Context, o operand) (int, error) {
	randomPause(50 * time.Millisecond)
	return o.a + o.b, nil
}

var errDivByZero = errors.New("division by zero")

func reciprocal(ctx context.Context, x float64) (float64, error) {
	if x == 5 {
		return 0, errDivByZero
	}
	return 1 / (x - 5), nil
}

func describe(ctx context.Context, name string, o operand, result int) string {
	id, _ := pool.WorkerID(ctx)
	return fmt.Sprintf("worker-%d says that %s%s = %d", id, name, o, result)
}

// job is what the raw-queue workers consume. A job with op set to stopOp
// tells one worker to exit.
type job struct {
	op  string
	arg operand
}

const stopOp = "STOP"

// runRawQueues wires workers by hand with one task queue and one result
// queue, then stops them with one STOP job each.
func runRawQueues(ctx context.Context, cfg demoConfig, out io.Writer) (string, error) {
	tasks := queue.New[job]()
	done := queue.New[string]()

	ops := map[string]func(context.Context, operand) (int, error){
		"mul":  mul,
		"plus": plus,
	}

	first := make([]job, 2*cfg.items)
	for i := range first {
		first[i] = job{op: "mul", arg: operand{i, 7}}
	}
	second := make([]job, cfg.items)
	for i := range second {
		second[i] = job{op: "plus", arg: operand{i, 8}}
	}

	for _, j := range first {
		_ = tasks.Enqueue(j)
	}

	var wg sync.WaitGroup
	for w := range cfg.workers {
		wg.Go(func() {
			for {
				j, err := tasks.Dequeue(ctx)
				if err != nil || j.op == stopOp {
					return
				}
				result, _ := ops[j.op](ctx, j.arg)
				_ = done.Enqueue(fmt.Sprintf("worker-%d says that %s%s = %d", w, j.op, j.arg, result))
			}
		})
	}

	_, _ = bold.Fprintln(out, "Unordered results:")
	received := 0
	drain := func(n int) error {
		for range n {
			line, err := done.Dequeue(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "\t", line)
			received++
		}
		return nil
	}

	if err := drain(len(first)); err != nil {
		return "", err
	}

	for _, j := range second {
		_ = tasks.Enqueue(j)
	}
	if err := drain(len(second)); err != nil {
		return "", err
	}

	for range cfg.workers {
		_ = tasks.Enqueue(job{op: stopOp})
	}
	wg.Wait()
	tasks.Close()
	done.Close()

	return fmt.Sprintf("%d results from %d workers", received, cfg.workers), nil
}

func newPool(cfg demoConfig, name string) (*pool.Pool, error) {
	return pool.New(cfg.workers, pool.WithName(name), pool.WithLogger(cfg.logger))
}

func runMap(ctx context.Context, cfg demoConfig, out io.Writer) (string, error) {
	p, err := newPool(cfg, "map")
	if err != nil {
		return "", err
	}
	defer p.Shutdown(true)

	args := make([]operand, cfg.items)
	for i := range args {
		args[i] = operand{i, 7}
	}

	results, err := pool.Map(ctx, p, mul, args)
	if err != nil {
		return "", err
	}

	for i, r := range results {
		fmt.Fprintf(out, "\tmul%s = %d\n", args[i], r)
	}
	return fmt.Sprint(results), nil
}

func runMapFailure(ctx context.Context, cfg demoConfig, out io.Writer) (string, error) {
	p, err := newPool(cfg, "map-failure")
	if err != nil {
		return "", err
	}
	defer p.Shutdown(true)

	xs := make([]float64, max(cfg.items, 6))
	for i := range xs {
		xs[i] = float64(i)
	}

	_, err = pool.Map(ctx, p, reciprocal, xs)

	var taskErr *pool.TaskError
	if !errors.As(err, &taskErr) {
		return "", fmt.Errorf("expected a task failure, got %v", err)
	}

	_, _ = red.Fprintf(out, "\tGot error: %v\n", taskErr)
	return fmt.Sprintf("failed at index %d: %v", taskErr.Index, taskErr.Err), nil
}

func runOrdered(ctx context.Context, cfg demoConfig, out io.Writer) (string, error) {
	p, err := newPool(cfg, "ordered")
	if err != nil {
		return "", err
	}
	defer p.Shutdown(true)

	xs := make([]float64, max(cfg.items, 6))
	for i := range xs {
		xs[i] = float64(i)
	}

	stream, err := pool.Ordered(ctx, p, reciprocal, xs)
	if err != nil {
		return "", err
	}

	var values, failures int
	for i := 0; ; i++ {
		v, err := stream.NextContext(ctx)
		if errors.Is(err, pool.ErrStreamDone) {
			break
		}
		if err != nil && ctx.Err() != nil {
			return "", err
		}
		if err != nil {
			failures++
			_, _ = red.Fprintf(out, "\t1/(%d-5) -> error: %v\n", i, err)
			continue
		}
		values++
		fmt.Fprintf(out, "\t1/(%d-5) = %.3f\n", i, v)
	}

	return fmt.Sprintf("%d values, %d failures, in input order", values, failures), nil
}

func runPoll(ctx context.Context, cfg demoConfig, out io.Writer) (string, error) {
	p, err := newPool(cfg, "poll")
	if err != nil {
		return "", err
	}
	defer p.Shutdown(true)

	slow := func(ctx context.Context, o operand) (string, error) {
		time.Sleep(500 * time.Millisecond)
		return describe(ctx, "mul", o, o.a*o.b), nil
	}

	future, err := pool.Submit(ctx, p, slow, operand{0, 7})
	if err != nil {
		return "", err
	}

	_, _ = bold.Fprint(out, "\tWaiting ")
	attempts := 0
	v, err := pool.Poll(ctx, future,
		pool.WithPollBackoff(pool.BackoffConstant, 20*time.Millisecond, 0),
		pool.OnPollTimeout(func(int) {
			attempts++
			fmt.Fprint(out, ".")
		}),
	)
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}

	_, _ = cyan.Fprintf(out, "\t%s\n", v)
	return fmt.Sprintf("ready after %d timed out attempts", attempts), nil
}

func runUnordered(ctx context.Context, cfg demoConfig, out io.Writer) (string, error) {
	p, err := newPool(cfg, "unordered")
	if err != nil {
		return "", err
	}
	defer p.Shutdown(true)

	args := make([]operand, cfg.items)
	for i := range args {
		args[i] = operand{i, 8}
	}

	annotated := func(ctx context.Context, o operand) (string, error) {
		r, err := plus(ctx, o)
		if err != nil {
			return "", err
		}
		return describe(ctx, "plus", o, r), nil
	}

	stream, err := pool.Unordered(ctx, p, annotated, args)
	if err != nil {
		return "", err
	}

	bar := makeProgressBar(stream.Len(), "Collecting results", cfg.quiet)
	lines := make([]string, 0, stream.Len())
	for line, err := range stream.All() {
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	for _, line := range lines {
		fmt.Fprintln(out, "\t", line)
	}
	return fmt.Sprintf("%d results in completion order", len(lines)), nil
}
