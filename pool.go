package qcollapse

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/theapemachine/errnie"
)

/*
Pool is a fixed-size worker pool for independent solves.

Jobs go onto a queue, a dispatcher hands each one to the next idle worker, and
every job answers on its own result channel. Nothing is shared between jobs, so
the pool needs no coordination beyond that hand-off.
*/
type Pool struct {
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	workers chan chan Job
	jobs    chan Job
	metrics *Metrics

	closeOnce sync.Once
}

// NewPool starts size workers and the dispatcher. size is clamped to at least 1.
func NewPool(ctx context.Context, size int, metrics *Metrics) *Pool {
	size = max(size, 1)
	if metrics == nil {
		metrics = NewMetrics()
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &Pool{
		ctx:     ctx,
		cancel:  cancel,
		workers: make(chan chan Job, size),
		jobs:    make(chan Job, size*10),
		metrics: metrics,
	}

	for range size {
		worker := &Worker{pool: p, jobs: make(chan Job)}
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			worker.run()
		}()
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.manage()
	}()

	errnie.Debug("pool started with %d workers", size)
	return p
}

// manage dispatches queued jobs to idle workers.
func (p *Pool) manage() {
	for {
		select {
		case <-p.ctx.Done():
			p.drain()
			return
		case job := <-p.jobs:
			select {
			case workerChan := <-p.workers:
				select {
				case workerChan <- job:
				case <-p.ctx.Done():
					job.complete(nil, fmt.Errorf("job %s: %w", job.ID, p.ctx.Err()))
					p.drain()
					return
				}
			case <-p.ctx.Done():
				job.complete(nil, fmt.Errorf("job %s: %w", job.ID, p.ctx.Err()))
				p.drain()
				return
			}
		}
	}
}

// drain fails every job still queued when the pool stops.
func (p *Pool) drain() {
	for {
		select {
		case job := <-p.jobs:
			job.complete(nil, fmt.Errorf("job %s: %w", job.ID, p.ctx.Err()))
		default:
			return
		}
	}
}

/*
Schedule queues fn and returns the channel its single JobResult arrives on. A
stopped pool answers immediately with the context error.
*/
func (p *Pool) Schedule(id string, fn func(ctx context.Context) (any, error), opts ...JobOption) chan JobResult {
	job := Job{
		ID:        id,
		Fn:        fn,
		StartTime: time.Now(),
		result:    make(chan JobResult, 1),
	}

	for _, opt := range opts {
		opt(&job)
	}

	if err := p.ctx.Err(); err != nil {
		job.complete(nil, fmt.Errorf("job %s: %w", id, err))
		return job.result
	}

	select {
	case p.jobs <- job:
		// The send can win against a concurrent Close after the dispatcher
		// has already drained; fail whatever is left so every job answers.
		if p.ctx.Err() != nil {
			p.drain()
		}
	case <-p.ctx.Done():
		job.complete(nil, fmt.Errorf("job %s: %w", id, p.ctx.Err()))
	}

	return job.result
}

func (p *Pool) Metrics() *Metrics { return p.metrics }

// Close stops the workers and waits for them. Jobs still queued fail with context.Canceled.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.closeOnce.Do(func() {
		p.cancel()
		p.wg.Wait()
		p.drain()
		errnie.Debug("pool closed")
	})
}
