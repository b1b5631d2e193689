package pool

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolClosed is returned when submitting to a pool that has been shut down.
	ErrPoolClosed = errors.New("pool is shut down")

	// ErrTimeout is returned when a bounded wait on a Future or Stream expires.
	// The wait can be retried; the future or stream position is left untouched.
	ErrTimeout = errors.New("timed out waiting for result")

	// ErrStreamDone is returned by Stream.Next once every result of the batch
	// has been delivered. It signals normal termination, not a failure.
	ErrStreamDone = errors.New("no more results in stream")

	// ErrInvalidWorkerCount is returned by New for a non-positive worker count.
	ErrInvalidWorkerCount = errors.New("worker count must be positive")
)

// TaskError reports the failure that aborted a Map call.
type TaskError struct {
	// Index is the position of the failing item in the input slice.
	Index int
	// TaskID is the pool-wide id assigned to the item at submission.
	TaskID int64
	Err    error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %d (index %d) failed: %v", e.TaskID, e.Index, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// PanicError is the failure recorded for a task whose callable panicked.
// The worker recovers and keeps serving the queue.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("worker panic: %v\nstack trace:\n%s", e.Value, e.Stack)
}
