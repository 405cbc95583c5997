package qcollapse

import (
	"context"
	"math"
	"slices"
	"time"

	"github.com/theapemachine/errnie"
)

/*
Outcome is the terminal state of a collapse run.

	Running -> Satisfied  every constraint holds
	        -> Converged  entropy and amplitude stopped moving
	        -> Exhausted  iteration budget, deadline or cancellation reached
*/
type Outcome int

const (
	OutcomeRunning Outcome = iota
	OutcomeConverged
	OutcomeSatisfied
	OutcomeExhausted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRunning:
		return "running"
	case OutcomeConverged:
		return "converged"
	case OutcomeSatisfied:
		return "satisfied"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

/*
CollapseDynamics drives repeated operator application to a terminal outcome.

It keeps no state between runs: Collapse may be called concurrently and every
call is independent.
*/
type CollapseDynamics struct {
	MaxIterations        int
	ConvergenceThreshold float64
	PolynomialBound      int

	correctionInterval int
	correctionFactor   float64
	stopOnFixedPoint   bool
	timeout            time.Duration
}

/*
NewCollapseDynamics sizes the loop for n variables: n² iterations unless the
config caps it explicitly, and a polynomial bound of n for the post-hoc growth
check.
*/
func NewCollapseDynamics(n int, cfg TransformerConfig) *CollapseDynamics {
	maxIterations := cfg.MaxIterations
	if maxIterations == 0 {
		maxIterations = n * n
	}

	return &CollapseDynamics{
		MaxIterations:        maxIterations,
		ConvergenceThreshold: cfg.ConvergenceThreshold,
		PolynomialBound:      n,
		correctionInterval:   cfg.CorrectionInterval,
		correctionFactor:     cfg.CorrectionFactor,
		stopOnFixedPoint:     cfg.StopOnFixedPoint,
		timeout:              cfg.Timeout,
	}
}

// CollapseResult is everything a collapse run produced.
type CollapseResult struct {
	State          *SymbolicState // last computed snapshot
	Best           *SymbolicState // snapshot satisfying the most constraints
	Outcome        Outcome
	Iterations     int
	EntropyHistory []float64 // initial entropy first, then one entry per iteration: Iterations+1 entries
	Interrupted    bool      // stopped by ctx or the deadline before the budget ran out
}

/*
Collapse runs the state machine from state with op.

Satisfaction is checked once before the first application, so input that
already satisfies everything stops with zero iterations. Each iteration then
applies the operator once and checks, in order, satisfaction, convergence and
(when enabled) a repeated encoding. Every correctionInterval iterations the
entropy is compared against initial*(1-1/n)^iteration and the amplitude is
boosted by correctionFactor when entropy lags behind. The operator does not read
the amplitude, so the boost never changes an encoding; it only shows up in the
amplitude delta used for convergence.

ctx and the configured timeout are checked at the top of every iteration and
end the run early as Exhausted with Interrupted set, returning the best
snapshot so far. Errors come only from malformed states.
*/
func (cd *CollapseDynamics) Collapse(
	ctx context.Context,
	state *SymbolicState,
	op *ResonanceOperator,
) (*CollapseResult, error) {
	result := &CollapseResult{
		State:          state,
		Best:           state,
		Outcome:        OutcomeRunning,
		EntropyHistory: []float64{state.entropy},
	}

	total := len(state.constraints)
	bestCount, err := state.SatisfiedCount()
	if err != nil {
		return nil, err
	}
	if bestCount == total {
		result.Outcome = OutcomeSatisfied
		return result, nil
	}

	var deadline time.Time
	if cd.timeout > 0 {
		deadline = time.Now().Add(cd.timeout)
	}

	initial := state.entropy
	decay := 1 - op.ConvergenceFactor()
	current := state

	for iteration := 1; iteration <= cd.MaxIterations; iteration++ {
		if ctx.Err() != nil || (!deadline.IsZero() && time.Now().After(deadline)) {
			result.Interrupted = true
			break
		}

		next, err := op.Apply(current)
		if err != nil {
			return nil, err
		}

		result.Iterations = iteration
		result.EntropyHistory = append(result.EntropyHistory, next.entropy)

		count, err := next.SatisfiedCount()
		if err != nil {
			return nil, err
		}
		if count > bestCount {
			bestCount = count
			result.Best = next
		}

		if count == total {
			result.State, result.Best, result.Outcome = next, next, OutcomeSatisfied
			break
		}

		if cd.converged(current, next) {
			result.State, result.Outcome = next, OutcomeConverged
			break
		}

		if cd.correctionInterval > 0 && iteration%cd.correctionInterval == 0 {
			expected := initial * math.Pow(decay, float64(iteration))
			// Relative slack keeps float rounding from reading as lag.
			if next.entropy > expected*(1+1e-9) {
				next = next.withAmplitude(next.amplitude * cd.correctionFactor)
			}
		}

		current = next
		result.State = current
	}

	if result.Outcome == OutcomeRunning {
		result.Outcome = OutcomeExhausted
	}

	errnie.Debug(
		"collapse - problem %s, outcome %s, iterations %d, satisfied %d/%d",
		state.problemType, result.Outcome, result.Iterations, bestCount, total,
	)

	return result, nil
}

func (cd *CollapseDynamics) converged(prev, next *SymbolicState) bool {
	delta := math.Max(
		math.Abs(prev.entropy-next.entropy),
		math.Abs(prev.amplitude-next.amplitude),
	)
	if delta < cd.ConvergenceThreshold {
		return true
	}
	return cd.stopOnFixedPoint && slices.Equal(prev.encoding, next.encoding)
}

/*
WithinPolynomialBound reports whether a run stopped within PolynomialBound²
iterations, the post-hoc growth check attached to benchmark results.

PolynomialBound is n and the default budget is n² iterations, so with the
default budget every run passes; the check only fails once MaxIterations is
raised above n² and the run actually uses the extra iterations.
*/
func (cd *CollapseDynamics) WithinPolynomialBound(iterations int) bool {
	return iterations <= cd.PolynomialBound*cd.PolynomialBound
}
