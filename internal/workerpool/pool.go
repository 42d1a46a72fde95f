// Package workerpool provides a work-stealing goroutine pool used to
// parallelize per-tile and per-pixel operations over CachedImage and
// kernel data.
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a pool of goroutines for data-parallel work.
//
// Each worker pulls from its own queue but steals from others when idle,
// which keeps uneven per-tile costs (e.g. partially-covered edge tiles)
// from stalling the whole batch behind one slow worker.
//
// Thread safety: Pool is safe for concurrent use.
type Pool struct {
	workers   int
	queues    []chan func()
	done      chan struct{}
	wg        sync.WaitGroup
	running   atomic.Bool
	queueSize int
}

// New creates a pool with the given number of workers.
// If workers <= 0, runtime.GOMAXPROCS(0) is used.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := max(workers*4, 8)

	p := &Pool{
		workers:   workers,
		queues:    make([]chan func(), workers),
		done:      make(chan struct{}),
		queueSize: queueSize,
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	myQueue := p.queues[id]

	for {
		select {
		case <-p.done:
			p.drain(myQueue)
			return
		case work := <-myQueue:
			if work != nil {
				work()
			}
		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
			} else {
				select {
				case <-p.done:
					p.drain(myQueue)
					return
				case work := <-myQueue:
					if work != nil {
						work()
					}
				}
			}
		}
	}
}

func (p *Pool) drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			if work != nil {
				work()
			}
		default:
			return
		}
	}
}

func (p *Pool) steal(myID int) func() {
	for i := range p.workers {
		if i == myID {
			continue
		}
		select {
		case work := <-p.queues[i]:
			return work
		default:
		}
	}
	return nil
}

// Do runs every item in work across the pool and blocks until all have
// completed. If the pool has been closed, Do is a no-op.
func (p *Pool) Do(work []func()) {
	if len(work) == 0 || !p.running.Load() {
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(work))

	for i, fn := range work {
		workerID := i % p.workers
		workFn := fn
		wrapped := func() {
			defer wg.Done()
			workFn()
		}
		select {
		case p.queues[workerID] <- wrapped:
		case <-p.done:
			wg.Done()
		}
	}

	wg.Wait()
}

// DoRange runs fn(i) for every i in [0, n) across the pool, blocking until
// all have completed. A convenience wrapper over Do for the common
// index-based tile/row dispatch pattern.
func (p *Pool) DoRange(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	work := make([]func(), n)
	for i := range n {
		idx := i
		work[i] = func() { fn(idx) }
	}
	p.Do(work)
}

// Close shuts the pool down, waiting for queued work to finish. Safe to
// call multiple times.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int { return p.workers }
