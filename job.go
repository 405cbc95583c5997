package qcollapse

import (
	"context"
	"time"
)

// Job is a unit of work for the pool.
type Job struct {
	ID        string
	Fn        func(ctx context.Context) (any, error)
	Timeout   time.Duration
	StartTime time.Time

	result chan JobResult
}

// JobResult is delivered exactly once on the channel Schedule returned.
type JobResult struct {
	ID        string
	Value     any
	Error     error
	Duration  time.Duration
	CreatedAt time.Time
}

// JobOption is a function type for configuring jobs
type JobOption func(*Job)

// WithTimeout bounds a single job; its context is cancelled once d elapses.
func WithTimeout(d time.Duration) JobOption {
	return func(j *Job) {
		j.Timeout = d
	}
}

func (j Job) complete(value any, err error) {
	j.result <- JobResult{
		ID:        j.ID,
		Value:     value,
		Error:     err,
		Duration:  time.Since(j.StartTime),
		CreatedAt: time.Now(),
	}
	close(j.result)
}
