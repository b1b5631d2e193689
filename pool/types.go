package pool

import "context"

// ProcessFunc is the callable executed by a worker for one work item.
// arg carries the item's arguments; bundle several values in a struct.
//
// Type parameters:
//   - T: The argument type
//   - R: The result type
type ProcessFunc[T any, R any] func(ctx context.Context, arg T) (R, error)

// Task is a self-contained unit of work. It lets callers put
// heterogeneous work on a single pool without a shared argument type.
type Task interface {
	Execute(ctx context.Context) (any, error)
}

// TaskFunc adapts an ordinary function to the Task interface.
type TaskFunc func(ctx context.Context) (any, error)

// Execute calls f(ctx).
func (f TaskFunc) Execute(ctx context.Context) (any, error) {
	return f(ctx)
}

// Record is the outcome of one executed work item. Exactly one Record is
// produced per item: Err is nil on success and Value is meaningless otherwise.
type Record struct {
	ID    int64 // pool-wide id, in submission order
	Index int   // position inside its batch, or 0 for single submissions
	Value any
	Err   error
}

// TaskInfo describes a work item to the task hooks.
type TaskInfo struct {
	ID       int64
	Index    int
	WorkerID int
}

// WorkerState is the lifecycle state of a single worker.
type WorkerState int32

const (
	// WorkerIdle means the worker is blocked waiting on the task queue.
	WorkerIdle WorkerState = iota
	// WorkerRunning means the worker is executing a work item.
	WorkerRunning
	// WorkerStopped means the worker took a shutdown sentinel and exited.
	WorkerStopped
)

func (s WorkerState) String() string {
	switch s {
	case WorkerIdle:
		return "idle"
	case WorkerRunning:
		return "running"
	case WorkerStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Stats is a point-in-time snapshot of pool counters.
type Stats struct {
	Workers   int   // fixed worker count
	Exited    int   // workers that have stopped
	Queued    int   // entries waiting in the task queue, sentinels included
	Submitted int64 // work items accepted
	Completed int64 // work items finished, successfully or not
	Failed    int64 // work items whose outcome was an error
}

type workerIDKey struct{}

// WorkerID reports which worker is running the current callable.
// It returns false when ctx was not handed out by a worker.
func WorkerID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(workerIDKey{}).(int)
	return id, ok
}

func withWorkerID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, workerIDKey{}, id)
}
