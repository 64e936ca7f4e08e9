// Package parallel runs independent tasks, such as the MU densities of the
// beams of a plan, on a fixed pool of goroutines.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned when Run is called on a closed pool.
var ErrClosed = errors.New("parallel: pool is closed")

// Task is one unit of work. It should return promptly once ctx is done.
type Task func(ctx context.Context) error

// WorkerPool is a pool of goroutines.
//
// Each worker pulls from its own queue and steals from the others when its
// queue is empty, which balances beams of very different sizes.
//
// WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers    int
	workQueues []chan func()
	done       chan struct{}
	wg         sync.WaitGroup
	running    atomic.Bool

	// submitMu is held for reading while work is queued and for writing by
	// Close, so nothing is queued after the workers drain.
	submitMu sync.RWMutex
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers:    workers,
		workQueues: make([]chan func(), workers),
		done:       make(chan struct{}),
	}
	for i := range workers {
		p.workQueues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	own := p.workQueues[id]

	for {
		select {
		case <-p.done:
			drain(own)
			return
		case work := <-own:
			work()
			continue
		default:
		}

		if stolen := p.steal(id); stolen != nil {
			stolen()
			continue
		}

		select {
		case <-p.done:
			drain(own)
			return
		case work := <-own:
			work()
		}
	}
}

// drain runs whatever is left in a queue.
func drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			work()
		default:
			return
		}
	}
}

// steal takes one item from another worker's queue, or returns nil.
func (p *WorkerPool) steal(self int) func() {
	for i := range p.workers {
		if i == self {
			continue
		}
		select {
		case work := <-p.workQueues[i]:
			return work
		default:
		}
	}
	return nil
}

// Run executes every task and waits for all of them. The first task to
// fail cancels the context passed to the others; Run returns that error.
// Tasks not yet started when the context is done are skipped.
//
// Returns ErrClosed if the pool has been closed.
func (p *WorkerPool) Run(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		if !p.running.Load() {
			return ErrClosed
		}
		return ctx.Err()
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	p.submitMu.RLock()
	if !p.running.Load() {
		p.submitMu.RUnlock()
		return ErrClosed
	}

	var completion sync.WaitGroup
	completion.Add(len(tasks))
	for i, task := range tasks {
		work := func() {
			defer completion.Done()
			if ctx.Err() != nil {
				return
			}
			if err := task(ctx); err != nil {
				cancel(err)
			}
		}

		p.workQueues[i%p.workers] <- work
	}
	p.submitMu.RUnlock()

	completion.Wait()
	return context.Cause(ctx)
}

// Close stops accepting work, runs what is already queued and stops the
// workers. Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	p.submitMu.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.submitMu.Unlock()
		return
	}
	close(p.done)
	p.submitMu.Unlock()
	p.wg.Wait()
}
