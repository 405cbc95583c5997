package qcollapse

import (
	"fmt"
	"slices"
)

// UnresolvedVariables lists, in index order, the variables no constraint references.
func UnresolvedVariables(state *SymbolicState) []int {
	referenced := make([]bool, state.Dimension())
	for _, c := range state.constraints {
		for _, v := range c.variables {
			if v < len(referenced) {
				referenced[v] = true
			}
		}
	}

	var unresolved []int
	for i, ok := range referenced {
		if !ok {
			unresolved = append(unresolved, i)
		}
	}
	return unresolved
}

/*
Refine fills the given variables greedily. Each one, in input order, is tried
as true and as false against the assignment built so far, and keeps whichever
value satisfies more constraints; ties go to true. This is a single forward
pass with no backtracking, not a search.
*/
func Refine(state *SymbolicState, unresolved []int) (*SymbolicState, error) {
	encoding := slices.Clone(state.encoding)

	for _, v := range unresolved {
		if v < 0 || v >= len(encoding) {
			return nil, fmt.Errorf("refining variable %d of %d: %w", v, len(encoding), ErrVariableRange)
		}

		encoding[v] = 1
		withTrue, err := countSatisfied(state.constraints, encoding)
		if err != nil {
			return nil, err
		}

		encoding[v] = 0
		withFalse, err := countSatisfied(state.constraints, encoding)
		if err != nil {
			return nil, err
		}

		if withTrue >= withFalse {
			encoding[v] = 1
		}
	}

	next := state.clone()
	next.encoding = encoding
	return next, nil
}
