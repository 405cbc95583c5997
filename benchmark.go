package qcollapse

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/theapemachine/errnie"
)

/*
BenchmarkResult records one (problem, size) trial. It is created once and never
modified afterwards. Failed trials carry Failed and Err and are kept apart
from trials that ran but ended unsatisfied.
*/
type BenchmarkResult struct {
	TrialID          string
	ProblemName      string
	ProblemSize      int
	Trial            int
	ReferenceModel   string
	ReferenceTime    float64 // seconds
	MeasuredTime     float64 // seconds
	SpeedupRatio     float64
	IterationsToStop int
	Outcome          Outcome
	SolutionQuality  float64
	Satisfied        bool
	Converged        bool // final entropy fell below half of the initial entropy
	GrowthVerified   bool // stopped within n² iterations and was not interrupted
	Failed           bool
	Err              string
	EntropyHistory   []float64
}

/*
Accumulator is the append-only report collection shared by concurrent trials.
Independent accumulators can be combined with Merge.
*/
type Accumulator struct {
	mu      sync.Mutex
	results []BenchmarkResult
}

func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

func (acc *Accumulator) Append(results ...BenchmarkResult) {
	acc.mu.Lock()
	defer acc.mu.Unlock()
	acc.results = append(acc.results, results...)
}

// Merge appends everything other holds. other is left untouched.
func (acc *Accumulator) Merge(other *Accumulator) {
	if other == nil || other == acc {
		return
	}
	acc.Append(other.Results()...)
}

// Results returns a copy in insertion order.
func (acc *Accumulator) Results() []BenchmarkResult {
	acc.mu.Lock()
	defer acc.mu.Unlock()
	return slices.Clone(acc.results)
}

func (acc *Accumulator) Len() int {
	acc.mu.Lock()
	defer acc.mu.Unlock()
	return len(acc.results)
}

/*
Harness runs encode→solve trials across sizes on a worker pool and records
every trial in its accumulator.
*/
type Harness struct {
	config      Config
	accumulator *Accumulator
	metrics     *Metrics
}

/*
NewHarness wires a harness. A nil accumulator or metrics gets a fresh one, so
callers that do not care can pass nil.
*/
func NewHarness(cfg *Config, acc *Accumulator, metrics *Metrics) *Harness {
	if cfg == nil {
		cfg = NewConfig()
	}
	if acc == nil {
		acc = NewAccumulator()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Harness{config: *cfg, accumulator: acc, metrics: metrics}
}

func (h *Harness) Accumulator() *Accumulator { return h.accumulator }
func (h *Harness) Metrics() *Metrics { return h.metrics }

/*
Run executes trialsPerSize independent trials for every size and returns them
ordered by size, then trial. The same results are appended to the harness
accumulator.

Trial t of size n draws its instance from a PCG stream seeded with the
configured seed, n and t, so reruns are reproducible regardless of how the
pool schedules them. Only invalid arguments and cancellation produce an error;
a trial that fails is recorded with Failed set. On cancellation the trials that
had already finished are still returned and accumulated, next to ctx.Err().
*/
func (h *Harness) Run(ctx context.Context, problemType ProblemType, sizes []int, trialsPerSize int) ([]BenchmarkResult, error) {
	if !problemType.Valid() {
		return nil, fmt.Errorf("%s: %w", problemType, ErrUnknownProblem)
	}
	if trialsPerSize <= 0 {
		return nil, fmt.Errorf("trials per size %d: %w", trialsPerSize, ErrConfig)
	}
	for _, size := range sizes {
		if size <= 0 {
			return nil, fmt.Errorf("size %d: %w", size, ErrConfig)
		}
	}

	reference, err := problemType.Reference()
	if err != nil {
		return nil, err
	}

	pool := NewPool(ctx, h.config.Benchmark.Workers, h.metrics)
	defer pool.Close()

	var opts []JobOption
	if h.config.Benchmark.TrialTimeout > 0 {
		opts = append(opts, WithTimeout(h.config.Benchmark.TrialTimeout))
	}

	queue := make([]pendingTrial, 0, len(sizes)*trialsPerSize)
	for _, size := range sizes {
		for trial := range trialsPerSize {
			id := uuid.NewString()
			seed := h.config.Benchmark.Seed
			queue = append(queue, pendingTrial{
				size:  size,
				trial: trial,
				id:    id,
				result: pool.Schedule(id, func(ctx context.Context) (any, error) {
					return h.trial(ctx, problemType, size, rand.New(rand.NewPCG(seed, uint64(size)<<32|uint64(trial))))
				}, opts...),
			})
		}
	}

	errnie.Info("benchmark %s: %d trials over sizes %v", problemType, len(queue), sizes)

	return h.collect(ctx, problemType, reference, queue)
}

type pendingTrial struct {
	size, trial int
	id          string
	result      chan JobResult
}

/*
collect waits for every queued trial in order. Trials that already answered are
taken before cancellation is considered, so an abort keeps everything that
finished; those results are appended to the accumulator and returned together
with the context error.
*/
func (h *Harness) collect(
	ctx context.Context,
	problemType ProblemType,
	reference ReferenceModel,
	queue []pendingTrial,
) ([]BenchmarkResult, error) {
	results := make([]BenchmarkResult, 0, len(queue))
	abort := func() ([]BenchmarkResult, error) {
		h.accumulator.Append(results...)
		errnie.Warn("benchmark %s aborted after %d of %d trials", problemType, len(results), len(queue))
		return results, ctx.Err()
	}

	for _, p := range queue {
		var jr JobResult
		select {
		case jr = <-p.result:
		default:
			select {
			case jr = <-p.result:
			case <-ctx.Done():
				return abort()
			}
		}

		// A trial the pool refused because the run was cancelled never ran.
		if err := ctx.Err(); err != nil && errors.Is(jr.Error, err) {
			return abort()
		}

		result := BenchmarkResult{
			TrialID:        p.id,
			ProblemName:    problemType.String(),
			ProblemSize:    p.size,
			Trial:          p.trial,
			ReferenceModel: reference.Name,
			ReferenceTime:  reference.ReferenceTime(p.size),
		}

		solution, _ := jr.Value.(*Solution)
		if jr.Error != nil || solution == nil {
			result.Failed = true
			if jr.Error != nil {
				result.Err = jr.Error.Error()
			} else {
				result.Err = "no solution returned"
			}
			h.metrics.RecordFailure(problemType)
			errnie.Warn("benchmark %s size %d trial %d failed: %s", problemType, p.size, p.trial, result.Err)
			results = append(results, result)
			continue
		}

		measured := solution.Duration.Seconds()
		result.MeasuredTime = measured
		result.SpeedupRatio = speedup(result.ReferenceTime, measured)
		result.IterationsToStop = solution.Iterations
		result.Outcome = solution.Outcome
		result.SolutionQuality = solution.Quality
		result.Satisfied = solution.Satisfied
		result.Converged = VerifyConvergence(solution.EntropyHistory)
		result.GrowthVerified = solution.WithinBound && !solution.Interrupted
		result.EntropyHistory = solution.EntropyHistory

		h.metrics.RecordSolve(problemType, solution.Outcome, solution.Iterations, solution.Duration)
		results = append(results, result)
	}

	if ctx.Err() != nil {
		return abort()
	}

	h.accumulator.Append(results...)
	return results, nil
}

// RunAll runs every configured problem family with the configured sizes and trials.
func (h *Harness) RunAll(ctx context.Context) ([]BenchmarkResult, error) {
	if err := h.config.Benchmark.Validate(); err != nil {
		return nil, err
	}

	var all []BenchmarkResult
	for _, pt := range h.config.Benchmark.Problems {
		results, err := h.Run(ctx, pt, h.config.Benchmark.Sizes, h.config.Benchmark.Trials)
		all = append(all, results...)
		if err != nil {
			return all, fmt.Errorf("benchmark %s: %w", pt, err)
		}
	}
	return all, nil
}

func (h *Harness) trial(ctx context.Context, pt ProblemType, size int, rng *rand.Rand) (*Solution, error) {
	instance, err := Generate(pt, size, rng)
	if err != nil {
		return nil, err
	}
	return Solve(ctx, h.config.Transformer, instance.State)
}

// speedup guards against a zero measurement on very small instances.
func speedup(reference, measured float64) float64 {
	if measured <= 0 {
		measured = float64(time.Nanosecond) / float64(time.Second)
	}
	ratio := reference / measured
	if math.IsNaN(ratio) {
		return 0
	}
	return ratio
}

/*
GrowthPoints reduces trial results to one mean measured time per size for the
given problem, skipping failed trials.
*/
func GrowthPoints(results []BenchmarkResult, problemName string) []GrowthPoint {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, r := range results {
		if r.Failed || r.ProblemName != problemName {
			continue
		}
		sums[r.ProblemSize] += r.MeasuredTime
		counts[r.ProblemSize]++
	}

	sizes := make([]int, 0, len(sums))
	for size := range sums {
		sizes = append(sizes, size)
	}
	slices.Sort(sizes)

	points := make([]GrowthPoint, len(sizes))
	for i, size := range sizes {
		points[i] = GrowthPoint{Size: size, Time: sums[size] / float64(counts[size])}
	}
	return points
}
