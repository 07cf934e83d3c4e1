// Package workerpool runs a batch of tasks on a bounded number of
// goroutines and collects their errors.
//
//	pool := workerpool.New(4)
//	for _, coll := range collections {
//	    pool.Submit(ctx, func(ctx context.Context) error {
//	        return export(ctx, coll)
//	    })
//	}
//	if err := pool.Wait(); err != nil {
//	    // every task error, joined
//	}
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrPoolClosed is returned by Submit after Wait has been called.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Task is one unit of work. ctx is the context given to Submit.
type Task func(ctx context.Context) error

type job struct {
	ctx context.Context
	fn  Task
}

// Pool is a bounded goroutine pool. It is single-use: once Wait returns,
// further submissions fail. Submit and Wait are called from the same
// goroutine.
type Pool struct {
	jobs    chan job
	wg      sync.WaitGroup
	once    sync.Once
	closeCh chan struct{}

	mu   sync.Mutex
	errs []error
}

// New starts size workers. size <= 0 means one worker.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		jobs:    make(chan job),
		closeCh: make(chan struct{}),
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit blocks until a worker takes fn, ctx is done, or the pool closes.
// A task whose ctx is already done when picked up is not run.
func (p *Pool) Submit(ctx context.Context, fn Task) error {
	select {
	case <-p.closeCh:
		return ErrPoolClosed
	default:
	}

	select {
	case <-p.closeCh:
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	case p.jobs <- job{ctx: ctx, fn: fn}:
		return nil
	}
}

// Wait stops accepting tasks, waits for running ones and returns their
// errors joined. Safe to call more than once.
func (p *Pool) Wait() error {
	p.once.Do(func() {
		close(p.closeCh)
		close(p.jobs)
		p.wg.Wait()
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	return errors.Join(p.errs...)
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for j := range p.jobs {
		if err := run(j); err != nil {
			p.mu.Lock()
			p.errs = append(p.errs, err)
			p.mu.Unlock()
		}
	}
}

// run executes one job, turning a panic into an error so a bad task does
// not kill the worker.
func run(j job) (err error) {
	if err := j.ctx.Err(); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("workerpool: task panicked: %v", r)
		}
	}()
	return j.fn(j.ctx)
}
