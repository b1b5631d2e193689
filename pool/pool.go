package pool

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/taskpool/internal/queue"
)

// Pool is a fixed-size set of worker goroutines fed from one FIFO task
// queue.
//
// Workers start in New and live until Shutdown. Work is submitted through
// Submit, Execute, Apply, Map, Ordered and Unordered; every accepted item
// runs to completion exactly once.
type Pool struct {
	cfg     *poolConfig
	workers []*worker
	tasks   *queue.Queue[queueEntry]
	results *queue.Queue[Record] // async submissions only

	// mu orders id assignment and enqueueing against Shutdown, so that ids
	// follow queue order and no item lands behind the sentinels.
	mu     sync.Mutex
	closed bool
	nextID int64

	pendingMu sync.Mutex
	pending   map[int64]resolver

	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	exited    atomic.Int32

	done chan struct{} // closed once every worker and the router have exited
}

// New creates a pool with workerCount workers and starts them.
//
// Example:
//
//	p, err := pool.New(4, pool.WithLogger(slog.Default()))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Shutdown(true)
func New(workerCount int, opts ...Option) (*Pool, error) {
	if workerCount <= 0 {
		return nil, ErrInvalidWorkerCount
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	p := &Pool{
		cfg:     cfg,
		workers: make([]*worker, workerCount),
		tasks:   queue.New[queueEntry](),
		results: queue.New[Record](),
		pending: make(map[int64]resolver),
		done:    make(chan struct{}),
	}

	var g errgroup.Group
	for i := range workerCount {
		w := newWorker(i, p)
		p.workers[i] = w
		g.Go(w.run)
	}

	var router sync.WaitGroup
	router.Go(p.route)

	go func() {
		if err := g.Wait(); err != nil {
			cfg.logger.Error("pool: worker exited abnormally", "pool", cfg.name, "error", err)
		}
		p.results.Close()
		router.Wait()
		close(p.done)
		cfg.logger.Info("pool: all workers exited", "pool", cfg.name, "workers", workerCount)
	}()

	cfg.logger.Info("pool: started", "pool", cfg.name, "workers", workerCount)
	return p, nil
}

// Execute submits a Task and returns a Future for its outcome.
func (p *Pool) Execute(ctx context.Context, task Task) (*Future[any], error) {
	return submitFuture[any](ctx, p, task.Execute)
}

// Shutdown stops the pool from accepting work and queues one shutdown
// sentinel per worker behind everything already accepted. Workers finish
// the queued work and then exit.
//
// With wait set, Shutdown blocks until every worker has exited and every
// Future has been resolved. Calling Shutdown again returns ErrPoolClosed.
func (p *Pool) Shutdown(wait bool) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	p.closed = true

	for range p.workers {
		_ = p.tasks.Enqueue(shutdownSentinel{})
	}
	p.tasks.Close()
	p.mu.Unlock()

	p.cfg.logger.Info("pool: shutting down", "pool", p.cfg.name, "wait", wait)

	if wait {
		<-p.done
	}
	return nil
}

// Wait blocks until the pool has fully stopped. It only returns after
// Shutdown has been called.
func (p *Pool) Wait() {
	<-p.done
}

// Done returns a channel closed once the pool has fully stopped.
func (p *Pool) Done() <-chan struct{} {
	return p.done
}

// Size returns the fixed number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:   len(p.workers),
		Exited:    int(p.exited.Load()),
		Queued:    p.tasks.Len(),
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
	}
}

// WorkerStates returns the current state of every worker, indexed by
// worker id.
func (p *Pool) WorkerStates() []WorkerState {
	states := make([]WorkerState, len(p.workers))
	for i, w := range p.workers {
		states[i] = w.State()
	}
	return states
}

// submitAsync registers r in the correlation map and queues the call with
// the pool-wide result channel as its sink.
func (p *Pool) submitAsync(ctx context.Context, call func(context.Context) (any, error), r resolver) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPoolClosed
	}

	p.nextID++
	id := p.nextID
	r.bind(id)

	p.pendingMu.Lock()
	p.pending[id] = r
	p.pendingMu.Unlock()

	item := &workItem{id: id, ctx: ctx, call: call, sink: channelSink{q: p.results}}
	if err := p.tasks.Enqueue(item); err != nil {
		p.pendingMu.Lock()
		delete(p.pending, id)
		p.pendingMu.Unlock()
		return err
	}

	p.submitted.Add(1)
	debugLog("submitted async task %d", id)
	return nil
}

// submitBatch queues one item per call, all delivering into sink. Items get
// consecutive ids and their slice position as Index. The returned id is
// that of the first item.
func (p *Pool) submitBatch(ctx context.Context, calls []func(context.Context) (any, error), sink resultSink) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, ErrPoolClosed
	}

	first := p.nextID + 1
	for i, call := range calls {
		p.nextID++
		item := &workItem{id: p.nextID, index: i, ctx: ctx, call: call, sink: sink}
		if err := p.tasks.Enqueue(item); err != nil {
			return 0, err
		}
		p.submitted.Add(1)
	}

	debugLog("submitted batch of %d tasks starting at %d", len(calls), first)
	return first, nil
}

// route resolves async futures from the pool-wide result channel. It is
// the only goroutine that removes entries from the correlation map.
func (p *Pool) route() {
	for {
		rec, err := p.results.Dequeue(context.Background())
		if err != nil {
			return
		}

		p.pendingMu.Lock()
		r, ok := p.pending[rec.ID]
		delete(p.pending, rec.ID)
		p.pendingMu.Unlock()

		if ok {
			r.resolve(rec)
		}
	}
}
