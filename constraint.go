package qcollapse

import (
	"fmt"
	"maps"
	"math"
	"slices"
)

/*
Constraint is an immutable weighted relation over a subset of problem variables.

Position k of a constraint asks for variable Variables[k] to be true when
Relations[k] is positive and false when it is negative, with Weights[k] as the
strength of that request. The constraint holds when at least one position gets
what it asks for, which is the clause reading shared by every problem family.

Fields are unexported so a Constraint cannot change after NewConstraint has
validated it. Accessors hand out copies.
*/
type Constraint struct {
	id         string
	variables  []int
	relations  []int
	weights    []float64
	kind       ConstraintType
	parameters map[string]string
}

/*
NewConstraint validates and builds a Constraint.

Returns ErrEncoding when variables, relations and weights differ in length,
when a relation is zero (it must carry a sign), or when a weight is negative,
NaN or infinite. A negative variable index is reported as ErrVariableRange.
*/
func NewConstraint(
	id string,
	variables []int,
	relations []int,
	weights []float64,
	kind ConstraintType,
) (Constraint, error) {
	if len(variables) != len(relations) || len(variables) != len(weights) {
		return Constraint{}, fmt.Errorf(
			"constraint %s: %d variables, %d relations, %d weights: %w",
			id, len(variables), len(relations), len(weights), ErrEncoding,
		)
	}

	for k, v := range variables {
		if v < 0 {
			return Constraint{}, fmt.Errorf("constraint %s: variable %d: %w", id, v, ErrVariableRange)
		}
		if relations[k] == 0 {
			return Constraint{}, fmt.Errorf("constraint %s: unsigned relation at position %d: %w", id, k, ErrEncoding)
		}
		if w := weights[k]; w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return Constraint{}, fmt.Errorf("constraint %s: weight %v at position %d: %w", id, w, k, ErrEncoding)
		}
	}

	return Constraint{
		id:        id,
		variables: slices.Clone(variables),
		relations: slices.Clone(relations),
		weights:   slices.Clone(weights),
		kind:      kind,
	}, nil
}

func (c Constraint) ID() string { return c.id }
func (c Constraint) Type() ConstraintType { return c.kind }
func (c Constraint) Len() int { return len(c.variables) }
func (c Constraint) Variables() []int { return slices.Clone(c.variables) }
func (c Constraint) Relations() []int { return slices.Clone(c.relations) }
func (c Constraint) Weights() []float64 { return slices.Clone(c.weights) }
func (c Constraint) Parameters() map[string]string { return maps.Clone(c.parameters) }

/*
WithParameter returns a copy of the constraint carrying an extra diagnostic
key/value pair. Parameters are reporting metadata; nothing in the engine reads
them.
*/
func (c Constraint) WithParameter(key, value string) Constraint {
	params := maps.Clone(c.parameters)
	if params == nil {
		params = make(map[string]string, 1)
	}
	params[key] = value
	c.parameters = params
	return c
}

// Parameter looks up a single diagnostic value.
func (c Constraint) Parameter(key string) (string, bool) {
	v, ok := c.parameters[key]
	return v, ok
}

/*
SatisfiedBy evaluates the signed-relation predicate against an encoding.

Returns ErrVariableRange when the constraint references an index the encoding
does not have, rather than skipping the position.
*/
func (c Constraint) SatisfiedBy(encoding []int) (bool, error) {
	satisfied := false
	for k, v := range c.variables {
		if v >= len(encoding) {
			return false, fmt.Errorf("constraint %s: variable %d of %d: %w", c.id, v, len(encoding), ErrVariableRange)
		}
		if wants(c.relations[k]) == encoding[v] {
			satisfied = true
		}
	}
	return satisfied, nil
}

// sign returns +1 or -1 for the relation at position k.
func (c Constraint) sign(k int) float64 {
	if c.relations[k] > 0 {
		return 1
	}
	return -1
}

// wants maps a relation sign onto the boolean value it asks for.
func wants(relation int) int {
	if relation > 0 {
		return 1
	}
	return 0
}
