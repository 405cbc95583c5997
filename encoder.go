package qcollapse

import (
	"fmt"
	"strconv"

	"github.com/theapemachine/errnie"
)

/*
Encode turns raw problem data into the initial SymbolicState.

Each raw constraint is a flat integer sequence split at its midpoint: the first
half lists variable indices, the second half the matching signed relations, so
{0, 1, 2, 1, 1, -1} is the clause (x0 ∨ x1 ∨ ¬x2). variables must be exactly
0..n-1 in order.

Parameters:
  - problemType: family tag, also picks the default constraint type
  - variables: the full variable index set
  - rawConstraints: flat variables|relations sequences, one per constraint
  - weights: one weight per raw constraint

Returns ErrEncoding for an odd-length entry or a malformed variable list,
ErrVariableRange for an index outside 0..n-1, and ErrUnknownProblem for a
problem type outside the closed set.
*/
func Encode(
	problemType ProblemType,
	variables []int,
	rawConstraints [][]int,
	weights []float64,
) (*SymbolicState, error) {
	vars := make([][]int, len(rawConstraints))
	rels := make([][]int, len(rawConstraints))

	for i, raw := range rawConstraints {
		if len(raw)%2 != 0 {
			return nil, fmt.Errorf("raw constraint %d has odd length %d: %w", i, len(raw), ErrEncoding)
		}
		half := len(raw) / 2
		vars[i] = raw[:half]
		rels[i] = raw[half:]
	}

	return EncodePairs(problemType, variables, vars, rels, weights)
}

/*
EncodePairs is Encode for the two-sequence wire format: vars[i] and relations[i]
describe constraint i directly instead of sharing one flat slice.
*/
func EncodePairs(
	problemType ProblemType,
	variables []int,
	vars [][]int,
	relations [][]int,
	weights []float64,
) (*SymbolicState, error) {
	kind, err := problemType.DefaultConstraintType()
	if err != nil {
		return nil, err
	}

	kinds := make([]ConstraintType, len(vars))
	for i := range kinds {
		kinds[i] = kind
	}

	return encode(problemType, variables, vars, relations, weights, kinds)
}

// encode is shared by the generic and family encoders.
func encode(
	problemType ProblemType,
	variables []int,
	vars [][]int,
	relations [][]int,
	weights []float64,
	kinds []ConstraintType,
) (*SymbolicState, error) {
	if !problemType.Valid() {
		return nil, fmt.Errorf("%s: %w", problemType, ErrUnknownProblem)
	}
	if len(vars) != len(relations) {
		return nil, fmt.Errorf("%d variable lists for %d relation lists: %w", len(vars), len(relations), ErrEncoding)
	}

	for i, v := range variables {
		if v != i {
			return nil, fmt.Errorf("variable list must be 0..%d, found %d at %d: %w", len(variables)-1, v, i, ErrEncoding)
		}
	}

	n := len(variables)
	constraints := make([]Constraint, 0, len(vars))

	for i := range vars {
		for _, v := range vars[i] {
			if v < 0 || v >= n {
				return nil, fmt.Errorf("constraint %d references variable %d of %d: %w", i, v, n, ErrVariableRange)
			}
		}

		c, err := NewConstraint(
			string(kinds[i])+"_"+strconv.Itoa(i),
			vars[i],
			relations[i],
			seedWeights(weights, i, len(vars[i])),
			kinds[i],
		)
		if err != nil {
			return nil, err
		}
		constraints = append(constraints, c)
	}

	errnie.Debug(
		"encode - problem %s, variables %d, constraints %d",
		problemType, n, len(constraints),
	)

	return newSymbolicState(problemType, n, constraints), nil
}

/*
seedWeights builds the per-variable weight slice for constraint i.

Legacy-compatible defaulting: only the first variable receives weights[i], the
rest get 1.0, and a weights slice shorter than the constraint list silently
yields 1.0 for the missing entries.
*/
func seedWeights(weights []float64, i, arity int) []float64 {
	seeded := make([]float64, arity)
	for k := range seeded {
		seeded[k] = 1.0
	}
	if arity > 0 && i < len(weights) {
		seeded[0] = weights[i]
	}
	return seeded
}

/*
familyBuilder accumulates constraints for the per-family encoders. All of them
go through encode, so they share the generic encoder's validation and weight
seeding.
*/
type familyBuilder struct {
	vars      [][]int
	relations [][]int
	weights   []float64
	kinds     []ConstraintType
}

func (b *familyBuilder) add(kind ConstraintType, weight float64, literals ...[2]int) {
	vars := make([]int, len(literals))
	rels := make([]int, len(literals))
	for k, lit := range literals {
		vars[k], rels[k] = lit[0], lit[1]
	}
	b.vars = append(b.vars, vars)
	b.relations = append(b.relations, rels)
	b.weights = append(b.weights, weight)
	b.kinds = append(b.kinds, kind)
}

func (b *familyBuilder) build(pt ProblemType, n int) (*SymbolicState, error) {
	variables := make([]int, n)
	for i := range variables {
		variables[i] = i
	}
	return encode(pt, variables, b.vars, b.relations, b.weights, b.kinds)
}

// checkSize rejects negative counts. Zero is allowed and encodes an empty problem.
func checkSize(what string, n int) error {
	if n < 0 {
		return fmt.Errorf("%d %s: %w", n, what, ErrDimension)
	}
	return nil
}

func pos(v int) [2]int { return [2]int{v, 1} }
func neg(v int) [2]int { return [2]int{v, -1} }

/*
EncodeSAT encodes a CNF formula. Clauses use DIMACS literals: 1-based variable
numbers, negative for negation. Variable x(k) lands at index k-1.
*/
func EncodeSAT(numVars int, clauses [][]int) (*SymbolicState, error) {
	if err := checkSize("variables", numVars); err != nil {
		return nil, err
	}

	var b familyBuilder

	for i, clause := range clauses {
		literals := make([][2]int, len(clause))
		for k, lit := range clause {
			switch {
			case lit == 0:
				return nil, fmt.Errorf("clause %d: literal 0: %w", i, ErrEncoding)
			case lit > numVars || -lit > numVars:
				return nil, fmt.Errorf("clause %d: literal %d with %d variables: %w", i, lit, numVars, ErrVariableRange)
			case lit > 0:
				literals[k] = pos(lit - 1)
			default:
				literals[k] = neg(-lit - 1)
			}
		}
		b.add(ConstraintSATClause, 1.0, literals...)
	}

	return b.build(ProblemSAT, numVars)
}

// EncodeVertexCover emits one "at least one endpoint" clause per edge.
func EncodeVertexCover(numVertices int, edges [][2]int) (*SymbolicState, error) {
	if err := checkSize("vertices", numVertices); err != nil {
		return nil, err
	}

	var b familyBuilder

	for _, e := range edges {
		b.add(ConstraintVertexCoverEdge, 1.0, pos(e[0]), pos(e[1]))
	}

	return b.build(ProblemVertexCover, numVertices)
}

/*
EncodeGraphColoring encodes k-coloring. Variable v*colors+c is true when vertex
v takes color c. Every vertex needs some color, and adjacent vertices may not
share one.
*/
func EncodeGraphColoring(numVertices int, edges [][2]int, colors int) (*SymbolicState, error) {
	if err := checkSize("vertices", numVertices); err != nil {
		return nil, err
	}
	if colors <= 0 {
		return nil, fmt.Errorf("%d colors: %w", colors, ErrEncoding)
	}

	var b familyBuilder
	at := func(v, c int) int { return v*colors + c }

	for v := range numVertices {
		literals := make([][2]int, colors)
		for c := range colors {
			literals[c] = pos(at(v, c))
		}
		b.add(ConstraintColoringAssign, 1.0, literals...)
	}

	for _, e := range edges {
		if e[0] < 0 || e[0] >= numVertices || e[1] < 0 || e[1] >= numVertices {
			return nil, fmt.Errorf("edge %v with %d vertices: %w", e, numVertices, ErrVariableRange)
		}
		for c := range colors {
			b.add(ConstraintColoringConflict, 1.0, neg(at(e[0], c)), neg(at(e[1], c)))
		}
	}

	return b.build(ProblemGraphColoring, numVertices*colors)
}

/*
EncodeHamiltonianPath encodes path-finding as placement. Variable v*n+p is true
when vertex v sits at position p of the path. Every position is filled, every
vertex is placed, no two vertices share a position, no vertex takes two
positions, and vertices without an edge between them are never consecutive.
*/
func EncodeHamiltonianPath(numVertices int, edges [][2]int) (*SymbolicState, error) {
	if err := checkSize("vertices", numVertices); err != nil {
		return nil, err
	}

	n := numVertices
	at := func(v, p int) int { return v*n + p }

	adjacent := make([][]bool, n)
	for v := range adjacent {
		adjacent[v] = make([]bool, n)
	}
	for _, e := range edges {
		if e[0] < 0 || e[0] >= n || e[1] < 0 || e[1] >= n {
			return nil, fmt.Errorf("edge %v with %d vertices: %w", e, n, ErrVariableRange)
		}
		adjacent[e[0]][e[1]] = true
		adjacent[e[1]][e[0]] = true
	}

	var b familyBuilder

	for p := range n {
		literals := make([][2]int, n)
		for v := range n {
			literals[v] = pos(at(v, p))
		}
		b.add(ConstraintPathPosition, 1.0, literals...)
	}

	for v := range n {
		literals := make([][2]int, n)
		for p := range n {
			literals[p] = pos(at(v, p))
		}
		b.add(ConstraintPathVertex, 1.0, literals...)
	}

	for p := range n {
		for v := range n {
			for u := v + 1; u < n; u++ {
				b.add(ConstraintPathExclusion, 1.0, neg(at(v, p)), neg(at(u, p)))
			}
		}
	}

	for v := range n {
		for p := range n {
			for q := p + 1; q < n; q++ {
				b.add(ConstraintPathExclusion, 1.0, neg(at(v, p)), neg(at(v, q)))
			}
		}
	}

	for v := range n {
		for u := range n {
			if u == v || adjacent[v][u] {
				continue
			}
			for p := 0; p+1 < n; p++ {
				b.add(ConstraintPathAdjacency, 1.0, neg(at(v, p)), neg(at(u, p+1)))
			}
		}
	}

	return b.build(ProblemHamiltonianPath, n*n)
}

/*
EncodeKnapsack encodes a 0/1 knapsack as weighted preferences. Every item that
fits gets a unit clause asking for it, weighted by its value density. Items
heavier than the capacity get a unit clause excluding them, and every pair of
items that together exceed the capacity gets a clause forbidding both.

The pairwise clauses are a relaxation of the capacity constraint: an assignment
satisfying all of them can still be overweight. KnapsackLoad checks the real
bound.
*/
func EncodeKnapsack(weights, values []float64, capacity float64) (*SymbolicState, error) {
	if len(weights) != len(values) {
		return nil, fmt.Errorf("%d weights for %d values: %w", len(weights), len(values), ErrEncoding)
	}
	if capacity < 0 {
		return nil, fmt.Errorf("capacity %v: %w", capacity, ErrEncoding)
	}

	var b familyBuilder

	for i, w := range weights {
		if w <= 0 {
			return nil, fmt.Errorf("item %d weight %v: %w", i, w, ErrEncoding)
		}
		if w > capacity {
			b.add(ConstraintKnapsackCapacity, 1.0, neg(i))
			continue
		}
		b.add(ConstraintKnapsackItem, values[i]/w, pos(i))
	}

	for i := range weights {
		for j := i + 1; j < len(weights); j++ {
			if weights[i] <= capacity && weights[j] <= capacity && weights[i]+weights[j] > capacity {
				b.add(ConstraintKnapsackCapacity, 1.0, neg(i), neg(j))
			}
		}
	}

	return b.build(ProblemKnapsack, len(weights))
}

// KnapsackLoad sums the weights and values of the items an encoding selects.
func KnapsackLoad(state *SymbolicState, weights, values []float64) (weight, value float64, err error) {
	if len(weights) != state.Dimension() || len(values) != state.Dimension() {
		return 0, 0, fmt.Errorf("%d items for %d variables: %w", len(weights), state.Dimension(), ErrDimension)
	}
	for i, selected := range state.encoding {
		if selected == 1 {
			weight += weights[i]
			value += values[i]
		}
	}
	return weight, value, nil
}

// EncodeProblem is the boundary name for Encode.
func EncodeProblem(
	problemType ProblemType,
	variables []int,
	rawConstraints [][]int,
	weights []float64,
) (*SymbolicState, error) {
	return Encode(problemType, variables, rawConstraints, weights)
}
