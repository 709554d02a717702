package adaptermanager

import (
	"context"
	"sync"
)

// workerPool runs submitted jobs on a fixed number of goroutines.
type workerPool struct {
	jobs chan func()
	done chan struct{}
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

func newWorkerPool(size int) *workerPool {
	if size < 1 {
		size = 1
	}
	p := &workerPool{
		jobs: make(chan func()),
		done: make(chan struct{}),
	}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}
	return p
}

func (p *workerPool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		job()
	}
}

// Submit blocks until a worker accepts job, ctx is done, or the pool closes.
// A job that was accepted always runs to completion.
func (p *workerPool) Submit(ctx context.Context, job func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}

	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done:
		return ErrClosed
	}
}

// Close stops accepting jobs and waits for running jobs to finish, bounded
// by ctx.
func (p *workerPool) Close(ctx context.Context) error {
	p.once.Do(func() {
		close(p.done)

		p.mu.Lock()
		p.closed = true
		close(p.jobs)
		p.mu.Unlock()
	})

	finished := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
