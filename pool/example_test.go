package pool_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/utkarsh5026/taskpool/pool"
)

func ExampleMap() {
	p, _ := pool.New(4)
	defer p.Shutdown(true)

	times7 := func(ctx context.Context, n int) (int, error) {
		return n * 7, nil
	}

	results, err := pool.Map(context.Background(), p, times7, []int{0, 1, 2, 3, 4})
	fmt.Println(results, err)
	// Output: [0 7 14 21 28] <nil>
}

func ExampleMap_failure() {
	p, _ := pool.New(4)
	defer p.Shutdown(true)

	divide := func(ctx context.Context, x int) (int, error) {
		if x == 2 {
			return 0, errors.New("division by zero")
		}
		return 12 / (x - 2), nil
	}

	_, err := pool.Map(context.Background(), p, divide, []int{0, 1, 2, 3})

	var taskErr *pool.TaskError
	if errors.As(err, &taskErr) {
		fmt.Println("failed at index", taskErr.Index)
	}
	// Output: failed at index 2
}

func ExampleOrdered() {
	p, _ := pool.New(3)
	defer p.Shutdown(true)

	square := func(ctx context.Context, n int) (int, error) {
		time.Sleep(time.Duration(5-n) * time.Millisecond)
		return n * n, nil
	}

	stream, _ := pool.Ordered(context.Background(), p, square, []int{1, 2, 3, 4})
	for v, err := range stream.All() {
		fmt.Println(v, err)
	}
	// Output:
	// 1 <nil>
	// 4 <nil>
	// 9 <nil>
	// 16 <nil>
}

func ExampleFuture_GetWithTimeout() {
	p, _ := pool.New(1)
	defer p.Shutdown(true)

	future, _ := pool.Submit(context.Background(), p, func(ctx context.Context, s string) (string, error) {
		time.Sleep(50 * time.Millisecond)
		return s + " done", nil
	}, "slow")

	for {
		v, err := future.GetWithTimeout(10 * time.Millisecond)
		if errors.Is(err, pool.ErrTimeout) {
			continue
		}
		fmt.Println(v)
		break
	}
	// Output: slow done
}
