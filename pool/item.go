package pool

import (
	"context"

	"github.com/utkarsh5026/taskpool/internal/queue"
)

// queueEntry is the sum type carried by the task queue: either a *workItem
// or a shutdownSentinel. Workers type-switch on it.
type queueEntry interface {
	isQueueEntry()
}

// workItem is one unit of submitted work. It is never modified after it
// has been placed on the task queue.
type workItem struct {
	id    int64
	index int
	ctx   context.Context
	call  func(ctx context.Context) (any, error)
	sink  resultSink
}

func (*workItem) isQueueEntry() {}

// shutdownSentinel tells exactly one worker to stop.
type shutdownSentinel struct{}

func (shutdownSentinel) isQueueEntry() {}

// resultSink receives the Record of a finished work item.
type resultSink interface {
	deliver(rec Record)
}

// channelSink delivers records into a result queue.
type channelSink struct {
	q *queue.Queue[Record]
}

func (s channelSink) deliver(rec Record) {
	// Result queues are closed only after every worker has exited, so a
	// worker can never observe a closed sink.
	_ = s.q.Enqueue(rec)
}

// resolver is the consumer side of a single async submission.
type resolver interface {
	bind(id int64)
	resolve(rec Record)
}

// as converts a transported value back to the callable's result type.
// A nil value yields the zero R.
func as[R any](v any) R {
	r, _ := v.(R)
	return r
}
