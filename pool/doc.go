// Package pool provides a fixed-size worker pool that dispatches work
// items from a single FIFO task queue and hands results back through
// several consumption modes.
//
// A Pool starts its workers in New and keeps them until Shutdown. Every
// submitted item gets a monotonically increasing id, is executed exactly
// once, and produces exactly one outcome: a value or the error returned by
// the callable. Errors are data; they never stop a worker, and a panicking
// callable is recovered into a *PanicError.
//
// # Basic Usage
//
//	p, err := pool.New(4)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Shutdown(true)
//
//	mul := func(ctx context.Context, n int) (int, error) {
//	    return n * 7, nil
//	}
//	results, err := pool.Map(ctx, p, mul, []int{0, 1, 2, 3})
//	// results: [0 7 14 21]
//
// # Consumption Modes
//
//   - Submit / Execute: returns a Future immediately; Get blocks,
//     GetWithTimeout returns ErrTimeout and leaves the Future pending.
//   - Apply: Submit followed by a blocking Get.
//   - Map: blocks for the whole batch and returns results in input order.
//     The first failure in input order aborts the call with a *TaskError.
//   - Ordered: a Stream yielding results in input order; a failed item
//     surfaces at its own position and the stream continues.
//   - Unordered: a Stream yielding results in completion order.
//
// Streams end with ErrStreamDone and can be ranged over with All.
//
// # Timeouts
//
// Bounded waits never consume anything: after ErrTimeout the same Future
// or stream position can be waited on again. Poll wraps that retry loop,
// pacing attempts with a backoff strategy:
//
//	v, err := pool.Poll(ctx, future,
//	    pool.WithPollBackoff(pool.BackoffExponential, 10*time.Millisecond, 200*time.Millisecond))
//
// # Shutdown
//
// Shutdown rejects further submissions with ErrPoolClosed and queues one
// shutdown sentinel per worker behind the accepted work, so everything
// already submitted still runs. Shutdown(true) returns once every worker
// has exited. There is no task cancellation.
//
// # Limitations
//
// Items live in memory only. If the process dies, items that were queued
// or running are lost and are not retried.
//
// # Configuration Options
//
//   - WithRateLimit(tasksPerSecond, burst): cap how fast items start
//   - WithOnTaskStart / WithOnTaskEnd: per-item hooks
//   - WithCPUAffinity(): pin workers to OS threads and cores
//   - WithLogger(logger), WithName(name): structured lifecycle logging
package pool
