package qcollapse

import (
	"context"
	"time"
)

/*
Solution is what Solve hands back: the refined final state plus the collapse
record it came from.
*/
type Solution struct {
	State          *SymbolicState
	Outcome        Outcome
	Iterations     int
	EntropyHistory []float64
	Interrupted    bool
	Satisfied      bool
	Quality        float64
	Duration       time.Duration
	// WithinBound is the post-hoc polynomial growth check on the iteration count.
	// It always holds under the default n² budget, see WithinPolynomialBound.
	WithinBound bool
}

/*
Solve runs the collapse loop on state to a terminal outcome.

The satisfaction pre-check runs before any operator is built, so a problem with
no variables and no constraints is satisfied in one step. When the run does not
end satisfied, the best snapshot seen is kept instead of the last, and with
cfg.Refine the variables no constraint touches are filled greedily.
*/
func Solve(ctx context.Context, cfg TransformerConfig, state *SymbolicState) (*Solution, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	dynamics := NewCollapseDynamics(state.Dimension(), cfg)

	var (
		result *CollapseResult
		err    error
	)

	if ok, checkErr := state.Satisfied(); checkErr != nil {
		return nil, checkErr
	} else if ok {
		result = &CollapseResult{
			State:          state,
			Best:           state,
			Outcome:        OutcomeSatisfied,
			EntropyHistory: []float64{state.entropy},
		}
	} else {
		op, opErr := NewResonanceOperator(state.Dimension())
		if opErr != nil {
			return nil, opErr
		}
		if result, err = dynamics.Collapse(ctx, state, op); err != nil {
			return nil, err
		}
	}

	final := result.State
	if result.Outcome != OutcomeSatisfied {
		final = result.Best
	}

	if cfg.Refine {
		if unresolved := UnresolvedVariables(final); len(unresolved) > 0 {
			if final, err = Refine(final, unresolved); err != nil {
				return nil, err
			}
		}
	}

	satisfied, err := final.Satisfied()
	if err != nil {
		return nil, err
	}
	quality, err := final.Quality()
	if err != nil {
		return nil, err
	}

	return &Solution{
		State:          final,
		Outcome:        result.Outcome,
		Iterations:     result.Iterations,
		EntropyHistory: result.EntropyHistory,
		Interrupted:    result.Interrupted,
		Satisfied:      satisfied,
		Quality:        quality,
		Duration:       time.Since(start),
		WithinBound:    dynamics.WithinPolynomialBound(result.Iterations),
	}, nil
}

// IsSatisfied re-evaluates every constraint against the state's encoding.
func IsSatisfied(state *SymbolicState) bool {
	ok, err := state.Satisfied()
	return err == nil && ok
}

/*
VerifyConvergence reports whether the final entropy fell below half of the
initial entropy. The 50% ratio is kept for compatibility with existing reports;
it has no deeper meaning.
*/
func VerifyConvergence(entropyHistory []float64) bool {
	if len(entropyHistory) < 2 {
		return false
	}
	return entropyHistory[len(entropyHistory)-1] < 0.5*entropyHistory[0]
}
