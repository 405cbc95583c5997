package qcollapse

import (
	"context"
	"fmt"

	"github.com/theapemachine/errnie"
)

// Worker processes jobs
type Worker struct {
	pool *Pool
	jobs chan Job
}

/*
run offers the worker's job channel to the dispatcher, processes whatever it is
handed, and repeats until the pool context ends.
*/
func (w *Worker) run() {
	ctx := w.pool.ctx
	for {
		select {
		case <-ctx.Done():
			return
		case w.pool.workers <- w.jobs:
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				return
			}
		}
	}
}

func (w *Worker) processJob(ctx context.Context, job Job) {
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	value, err := w.execute(ctx, job)
	w.pool.metrics.recordJobExecution(job.StartTime, err == nil)

	if err != nil {
		errnie.Warn("job %s failed: %v", job.ID, err)
	}
	job.complete(value, err)
}

// execute turns a panicking job into an error result instead of a dead worker.
func (w *Worker) execute(ctx context.Context, job Job) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.ID, r)
		}
	}()
	return job.Fn(ctx)
}
