package qcollapse

import (
	"fmt"
	"math"
)

/*
ResonanceOperator is the fixed coupling transformation that nudges an
assignment toward its constraints.

The coupling matrix depends only on the dimension: the diagonal is 1 and entry
(i, j) off the diagonal is sin(π(i+j)/n)/n. It is built once, never modified,
and holds nothing about the states it is applied to, so one operator can serve
any number of states of the same dimension, from any number of goroutines.
*/
type ResonanceOperator struct {
	dimension         int
	convergenceFactor float64
	matrix            []float64 // row-major, dimension x dimension
}

/*
NewResonanceOperator builds the coupling matrix for n variables.

Returns ErrDimension when n is not positive.
*/
func NewResonanceOperator(n int) (*ResonanceOperator, error) {
	if n <= 0 {
		return nil, fmt.Errorf("operator dimension %d: %w", n, ErrDimension)
	}

	op := &ResonanceOperator{
		dimension:         n,
		convergenceFactor: 1 / float64(n),
		matrix:            make([]float64, n*n),
	}

	for i := range n {
		for j := range n {
			if i == j {
				op.matrix[i*n+j] = 1
				continue
			}
			op.matrix[i*n+j] = math.Sin(math.Pi*float64(i+j)/float64(n)) * op.convergenceFactor
		}
	}

	return op, nil
}

func (op *ResonanceOperator) Dimension() int { return op.dimension }
func (op *ResonanceOperator) ConvergenceFactor() float64 { return op.convergenceFactor }

// At returns the coupling between variables i and j.
func (op *ResonanceOperator) At(i, j int) (float64, error) {
	if i < 0 || i >= op.dimension || j < 0 || j >= op.dimension {
		return 0, fmt.Errorf("coupling (%d, %d) of %d: %w", i, j, op.dimension, ErrVariableRange)
	}
	return op.matrix[i*op.dimension+j], nil
}

/*
Apply performs one update step and returns the resulting snapshot.

For every variable i:
 1. resonance is row i of the matrix times the current encoding
 2. bias is the mean of weight*sign over every constraint position naming i,
    0 when nothing names i; the mean runs over positions, not constraints, so
    a constraint listing i twice contributes twice
 3. the new value is 1 when tanh(resonance + bias) > 0, else 0

Amplitude and entropy of the result are both multiplied by 1 - 1/n. That decay
happens whether or not the new assignment is better; it bounds how long the
collapse loop can keep going, it says nothing about correctness.

Returns ErrDimension when the state has a different dimension and
ErrVariableRange when a constraint names a variable the state lacks. state is
never modified.
*/
func (op *ResonanceOperator) Apply(state *SymbolicState) (*SymbolicState, error) {
	n := op.dimension
	if state.Dimension() != n {
		return nil, fmt.Errorf("state dimension %d, operator %d: %w", state.Dimension(), n, ErrDimension)
	}

	bias, err := constraintBias(state.constraints, n)
	if err != nil {
		return nil, err
	}

	encoding := make([]int, n)
	for i := range n {
		row := op.matrix[i*n : (i+1)*n]

		resonance := 0.0
		for j, v := range state.encoding {
			resonance += row[j] * float64(v)
		}

		if math.Tanh(resonance+bias[i]) > 0 {
			encoding[i] = 1
		}
	}

	next := state.clone()
	next.encoding = encoding
	next.amplitude = state.amplitude * (1 - op.convergenceFactor)
	next.entropy = state.entropy * (1 - op.convergenceFactor)

	return next, nil
}

// constraintBias averages weight*sign per variable across every position naming
// it. Repeated positions within one constraint each count.
func constraintBias(constraints []Constraint, n int) ([]float64, error) {
	sum := make([]float64, n)
	count := make([]int, n)

	for _, c := range constraints {
		for k, v := range c.variables {
			if v >= n {
				return nil, fmt.Errorf("constraint %s: variable %d of %d: %w", c.id, v, n, ErrVariableRange)
			}
			sum[v] += c.weights[k] * c.sign(k)
			count[v]++
		}
	}

	for i := range sum {
		if count[i] > 0 {
			sum[i] /= float64(count[i])
		}
	}

	return sum, nil
}
