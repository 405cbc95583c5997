package qcollapse

import (
	"fmt"
	"math/rand/v2"
)

// Instance is a generated benchmark problem together with its raw data.
type Instance struct {
	ProblemType ProblemType
	Size        int
	State       *SymbolicState

	// Knapsack data, empty for other families.
	Weights  []float64
	Values   []float64
	Capacity float64
}

const (
	satClauseRatio = 2.0
	edgeDensity    = 0.3
	coloringColors = 3
)

/*
Generate builds a random instance of the family for the given size: variables
for SAT, vertices for the graph families, items for knapsack. The same rng seed
always yields the same instance.

Hamiltonian path instances get a planted path so at least one solution exists;
vertex cover is always satisfiable by construction; SAT and coloring may not be.
*/
func Generate(pt ProblemType, size int, rng *rand.Rand) (*Instance, error) {
	if size <= 0 {
		return nil, fmt.Errorf("instance size %d: %w", size, ErrDimension)
	}

	instance := &Instance{ProblemType: pt, Size: size}
	var err error

	switch pt {
	case ProblemSAT:
		instance.State, err = EncodeSAT(size, randomCNF(size, rng))
	case ProblemVertexCover:
		instance.State, err = EncodeVertexCover(size, randomGraph(size, edgeDensity, rng))
	case ProblemGraphColoring:
		instance.State, err = EncodeGraphColoring(size, randomGraph(size, edgeDensity, rng), coloringColors)
	case ProblemHamiltonianPath:
		instance.State, err = EncodeHamiltonianPath(size, plantedPathGraph(size, edgeDensity, rng))
	case ProblemKnapsack:
		instance.Weights, instance.Values, instance.Capacity = randomKnapsack(size, rng)
		instance.State, err = EncodeKnapsack(instance.Weights, instance.Values, instance.Capacity)
	default:
		return nil, fmt.Errorf("%s: %w", pt, ErrUnknownProblem)
	}

	if err != nil {
		return nil, err
	}
	return instance, nil
}

// randomCNF draws clauses of up to three distinct variables at satClauseRatio clauses per variable.
func randomCNF(vars int, rng *rand.Rand) [][]int {
	clauses := make([][]int, max(1, int(satClauseRatio*float64(vars))))
	width := min(3, vars)

	for i := range clauses {
		picked := rng.Perm(vars)[:width]
		clause := make([]int, width)
		for k, v := range picked {
			clause[k] = v + 1
			if rng.IntN(2) == 0 {
				clause[k] = -clause[k]
			}
		}
		clauses[i] = clause
	}
	return clauses
}

func randomGraph(n int, p float64, rng *rand.Rand) [][2]int {
	var edges [][2]int
	for u := range n {
		for v := u + 1; v < n; v++ {
			if rng.Float64() < p {
				edges = append(edges, [2]int{u, v})
			}
		}
	}
	return edges
}

func plantedPathGraph(n int, p float64, rng *rand.Rand) [][2]int {
	seen := make(map[[2]int]bool)
	var edges [][2]int
	add := func(u, v int) {
		if u > v {
			u, v = v, u
		}
		if e := [2]int{u, v}; !seen[e] {
			seen[e] = true
			edges = append(edges, e)
		}
	}

	order := rng.Perm(n)
	for i := 0; i+1 < n; i++ {
		add(order[i], order[i+1])
	}
	for _, e := range randomGraph(n, p, rng) {
		add(e[0], e[1])
	}
	return edges
}

// randomKnapsack draws integer weights in [1, knapsackWeightSpan] and sets the
// capacity to half their total.
func randomKnapsack(n int, rng *rand.Rand) (weights, values []float64, capacity float64) {
	weights = make([]float64, n)
	values = make([]float64, n)
	total := 0.0
	for i := range n {
		weights[i] = float64(1 + rng.IntN(knapsackWeightSpan))
		values[i] = float64(1 + rng.IntN(2*knapsackWeightSpan))
		total += weights[i]
	}
	return weights, values, total / 2
}
