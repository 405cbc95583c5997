package qcollapse

import (
	"fmt"
	"math"
	"strings"
)

/*
ProblemType identifies the problem family a SymbolicState was encoded from.
The set is closed: every switch over ProblemType is exhaustive, and values
outside the set are rejected with ErrUnknownProblem at the encoder boundary.
*/
type ProblemType int

const (
	ProblemSAT ProblemType = iota
	ProblemVertexCover
	ProblemGraphColoring
	ProblemHamiltonianPath
	ProblemKnapsack
)

// ProblemTypes lists every supported family in declaration order.
var ProblemTypes = []ProblemType{
	ProblemSAT,
	ProblemVertexCover,
	ProblemGraphColoring,
	ProblemHamiltonianPath,
	ProblemKnapsack,
}

func (pt ProblemType) String() string {
	switch pt {
	case ProblemSAT:
		return "sat"
	case ProblemVertexCover:
		return "vertex_cover"
	case ProblemGraphColoring:
		return "graph_coloring"
	case ProblemHamiltonianPath:
		return "hamiltonian_path"
	case ProblemKnapsack:
		return "knapsack"
	default:
		return fmt.Sprintf("problem(%d)", int(pt))
	}
}

// Valid reports whether pt is one of the supported families.
func (pt ProblemType) Valid() bool {
	return pt >= ProblemSAT && pt <= ProblemKnapsack
}

// ParseProblemType resolves a family name as printed by String. Dashes and
// case are ignored, so "Vertex-Cover" parses as ProblemVertexCover.
func ParseProblemType(name string) (ProblemType, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for _, pt := range ProblemTypes {
		if pt.String() == normalized {
			return pt, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownProblem)
}

func (pt ProblemType) MarshalText() ([]byte, error) {
	if !pt.Valid() {
		return nil, fmt.Errorf("%d: %w", int(pt), ErrUnknownProblem)
	}
	return []byte(pt.String()), nil
}

func (pt *ProblemType) UnmarshalText(text []byte) error {
	parsed, err := ParseProblemType(string(text))
	if err != nil {
		return err
	}
	*pt = parsed
	return nil
}

// ConstraintType tags the role a constraint plays inside its problem family.
type ConstraintType string

const (
	ConstraintSATClause        ConstraintType = "SAT_CLAUSE"
	ConstraintVertexCoverEdge  ConstraintType = "VERTEX_COVER_EDGE"
	ConstraintColoringAssign   ConstraintType = "COLORING_ASSIGNMENT"
	ConstraintColoringConflict ConstraintType = "COLORING_CONFLICT"
	ConstraintPathPosition     ConstraintType = "PATH_POSITION"
	ConstraintPathVertex       ConstraintType = "PATH_VERTEX"
	ConstraintPathExclusion    ConstraintType = "PATH_EXCLUSION"
	ConstraintPathAdjacency    ConstraintType = "PATH_ADJACENCY"
	ConstraintKnapsackItem     ConstraintType = "KNAPSACK_ITEM"
	ConstraintKnapsackCapacity ConstraintType = "KNAPSACK_CAPACITY"
)

// DefaultConstraintType is the tag the generic encoder assigns to raw constraints.
func (pt ProblemType) DefaultConstraintType() (ConstraintType, error) {
	switch pt {
	case ProblemSAT:
		return ConstraintSATClause, nil
	case ProblemVertexCover:
		return ConstraintVertexCoverEdge, nil
	case ProblemGraphColoring:
		return ConstraintColoringConflict, nil
	case ProblemHamiltonianPath:
		return ConstraintPathExclusion, nil
	case ProblemKnapsack:
		return ConstraintKnapsackCapacity, nil
	default:
		return "", fmt.Errorf("%s: %w", pt, ErrUnknownProblem)
	}
}

/*
ReferenceStepCost is the time charged per step of a reference model when turning
a step count into a reference runtime.
*/
const ReferenceStepCost = 1e-9

// knapsackWeightSpan bounds item weights in generated knapsack instances, which
// bounds the capacity W used by the pseudo-polynomial reference model.
const knapsackWeightSpan = 10

/*
ReferenceModel is the closed-form baseline a family is compared against. It is
a fixed lookup, never measured.
*/
type ReferenceModel struct {
	Name  string
	Steps func(n int) float64
}

// Reference returns the baseline complexity model for the family.
func (pt ProblemType) Reference() (ReferenceModel, error) {
	switch pt {
	case ProblemSAT:
		return ReferenceModel{Name: "exponential 2^n", Steps: func(n int) float64 {
			return math.Pow(2, float64(n))
		}}, nil
	case ProblemVertexCover:
		return ReferenceModel{Name: "exponential 2^n", Steps: func(n int) float64 {
			return math.Pow(2, float64(n))
		}}, nil
	case ProblemGraphColoring:
		return ReferenceModel{Name: "exponential 3^n", Steps: func(n int) float64 {
			return math.Pow(3, float64(n))
		}}, nil
	case ProblemHamiltonianPath:
		return ReferenceModel{Name: "factorial n!", Steps: func(n int) float64 {
			return math.Gamma(float64(n) + 1)
		}}, nil
	case ProblemKnapsack:
		return ReferenceModel{Name: "pseudo-polynomial n*W", Steps: func(n int) float64 {
			return float64(n) * float64(knapsackWeightSpan*n)
		}}, nil
	default:
		return ReferenceModel{}, fmt.Errorf("%s: %w", pt, ErrUnknownProblem)
	}
}

// ReferenceTime is the baseline runtime in seconds for an instance of size n.
func (model ReferenceModel) ReferenceTime(n int) float64 {
	return model.Steps(n) * ReferenceStepCost
}
