package pool

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/utkarsh5026/taskpool/internal/cpu"
)

// worker drains the shared task queue until it takes a shutdown sentinel.
type worker struct {
	id    int
	pool  *Pool
	state atomic.Int32
}

func newWorker(id int, p *Pool) *worker {
	return &worker{id: id, pool: p}
}

func (w *worker) State() WorkerState {
	return WorkerState(w.state.Load())
}

// run is the worker loop: Idle -> Running -> Idle, until Stopped.
func (w *worker) run() error {
	p := w.pool
	if p.cfg.cpuAffinity {
		defer cpu.SetupWorkerAffinity(w.id)()
	}

	p.cfg.logger.Debug("pool: worker started", "pool", p.cfg.name, "worker", w.id)

	for {
		entry, err := p.tasks.Dequeue(context.Background())
		if err != nil {
			// The task queue is closed only after the sentinels are queued,
			// so this is reached only if that invariant is broken.
			w.stop()
			return err
		}

		switch e := entry.(type) {
		case shutdownSentinel:
			w.stop()
			p.cfg.logger.Debug("pool: worker stopped", "pool", p.cfg.name, "worker", w.id)
			return nil

		case *workItem:
			w.state.Store(int32(WorkerRunning))
			rec := w.execute(e)
			p.completed.Add(1)
			if rec.Err != nil {
				p.failed.Add(1)
			}
			e.sink.deliver(rec)
			w.state.Store(int32(WorkerIdle))
		}
	}
}

func (w *worker) stop() {
	w.state.Store(int32(WorkerStopped))
	w.pool.exited.Add(1)
}

// execute runs one work item with rate limiting and hooks and captures its
// outcome. Domain errors and panics both end up in the returned Record.
func (w *worker) execute(item *workItem) Record {
	p := w.pool
	debugLog("worker %d picked task %d", w.id, item.id)

	if p.cfg.rateLimiter != nil {
		// Accepted work always runs, so the limiter must not observe the
		// caller's cancellation.
		_ = p.cfg.rateLimiter.Wait(context.WithoutCancel(item.ctx))
	}

	info := TaskInfo{ID: item.id, Index: item.index, WorkerID: w.id}
	if p.cfg.onTaskStart != nil {
		p.cfg.onTaskStart(info)
	}

	value, err := w.processWithRecovery(withWorkerID(item.ctx, w.id), item)

	if p.cfg.onTaskEnd != nil {
		p.cfg.onTaskEnd(info, err)
	}

	return Record{ID: item.id, Index: item.index, Value: value, Err: err}
}

// processWithRecovery invokes the callable, converting a panic into a
// *PanicError so that a single task cannot take the worker down.
func (w *worker) processWithRecovery(ctx context.Context, item *workItem) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			value, err = nil, &PanicError{Value: r, Stack: buf[:n]}
			w.pool.cfg.logger.Warn("pool: recovered panic in task",
				"pool", w.pool.cfg.name, "worker", w.id, "task", item.id, "panic", r)
		}
	}()

	return item.call(ctx)
}
