package qcollapse

import (
	"fmt"
	"math"
	"slices"
)

/*
SymbolicState pairs a candidate assignment with the constraints it is judged
against and the two decay metrics the collapse loop schedules on.

A state is a snapshot. The encoder creates the first one, and every later
transformation (operator application, amplitude correction, refinement) returns
a new snapshot instead of touching the old one. Constraints are immutable, so
snapshots share them; the variable list and the encoding are always copied.

Key properties:
  - Encoding holds one 0/1 value per variable, indexed by variable position
  - Amplitude starts at 1.0 and only the operator lowers it
  - Entropy is log2(1 + constraints/variables), lower reads as more settled
*/
type SymbolicState struct {
	problemType ProblemType
	variables   []int
	constraints []Constraint
	encoding    []int
	amplitude   float64
	entropy     float64
}

// newSymbolicState builds the initial all-false snapshot for n variables.
func newSymbolicState(pt ProblemType, n int, constraints []Constraint) *SymbolicState {
	variables := make([]int, n)
	for i := range variables {
		variables[i] = i
	}

	return &SymbolicState{
		problemType: pt,
		variables:   variables,
		constraints: constraints,
		encoding:    make([]int, n),
		amplitude:   1.0,
		entropy:     initialEntropy(n, len(constraints)),
	}
}

// initialEntropy derives the starting entropy from the constraint/variable ratio.
func initialEntropy(variables, constraints int) float64 {
	if variables == 0 || constraints == 0 {
		return 0
	}
	return math.Log2(1 + float64(constraints)/float64(variables))
}

func (s *SymbolicState) ProblemType() ProblemType { return s.problemType }
func (s *SymbolicState) Dimension() int { return len(s.variables) }
func (s *SymbolicState) Variables() []int { return slices.Clone(s.variables) }
func (s *SymbolicState) Constraints() []Constraint { return slices.Clone(s.constraints) }
func (s *SymbolicState) Encoding() []int { return slices.Clone(s.encoding) }
func (s *SymbolicState) Amplitude() float64 { return s.amplitude }
func (s *SymbolicState) Entropy() float64 { return s.entropy }

// Value reads a single variable of the encoding.
func (s *SymbolicState) Value(variable int) (int, error) {
	if variable < 0 || variable >= len(s.encoding) {
		return 0, fmt.Errorf("variable %d of %d: %w", variable, len(s.encoding), ErrVariableRange)
	}
	return s.encoding[variable], nil
}

/*
WithEncoding returns a snapshot carrying a different assignment. The encoding
must have one entry per variable and every entry must be 0 or 1.
*/
func (s *SymbolicState) WithEncoding(encoding []int) (*SymbolicState, error) {
	if len(encoding) != len(s.variables) {
		return nil, fmt.Errorf("encoding of length %d for %d variables: %w", len(encoding), len(s.variables), ErrDimension)
	}
	for i, v := range encoding {
		if v != 0 && v != 1 {
			return nil, fmt.Errorf("encoding value %d at variable %d: %w", v, i, ErrEncoding)
		}
	}

	next := s.clone()
	next.encoding = slices.Clone(encoding)
	return next, nil
}

// withAmplitude is the functional update used by the collapse corrector.
func (s *SymbolicState) withAmplitude(amplitude float64) *SymbolicState {
	next := s.clone()
	next.amplitude = amplitude
	return next
}

func (s *SymbolicState) clone() *SymbolicState {
	return &SymbolicState{
		problemType: s.problemType,
		variables:   slices.Clone(s.variables),
		constraints: slices.Clone(s.constraints),
		encoding:    slices.Clone(s.encoding),
		amplitude:   s.amplitude,
		entropy:     s.entropy,
	}
}

// SatisfiedCount counts the constraints the current encoding satisfies.
func (s *SymbolicState) SatisfiedCount() (int, error) {
	return countSatisfied(s.constraints, s.encoding)
}

// Satisfied reports whether every constraint holds under the current encoding.
func (s *SymbolicState) Satisfied() (bool, error) {
	for _, c := range s.constraints {
		ok, err := c.SatisfiedBy(s.encoding)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

/*
Quality is the fraction of constraints satisfied. A state without constraints
has quality 1.
*/
func (s *SymbolicState) Quality() (float64, error) {
	if len(s.constraints) == 0 {
		return 1, nil
	}
	count, err := s.SatisfiedCount()
	if err != nil {
		return 0, err
	}
	return float64(count) / float64(len(s.constraints)), nil
}

func countSatisfied(constraints []Constraint, encoding []int) (int, error) {
	count := 0
	for _, c := range constraints {
		ok, err := c.SatisfiedBy(encoding)
		if err != nil {
			return 0, err
		}
		if ok {
			count++
		}
	}
	return count, nil
}
