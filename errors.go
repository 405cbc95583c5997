package qcollapse

import "errors"

/*
Sentinel errors returned by the engine. Every message carries the "qcollapse: "
prefix. Callers match them with errors.Is; context is added by wrapping with
fmt.Errorf("...: %w", ErrX) at the boundary that detected the problem.
*/
var (
	// ErrEncoding is returned when a constraint's variables, relations and weights
	// disagree in length, when a raw constraint cannot be split in half, or when
	// relation signs or weights are malformed.
	ErrEncoding = errors.New("qcollapse: encoding error")

	// ErrDimension is returned for a non-positive operator dimension, or when an
	// operator is applied to a state of a different dimension.
	ErrDimension = errors.New("qcollapse: dimension error")

	// ErrVariableRange is returned when a constraint references a variable index
	// outside the state's variable list.
	ErrVariableRange = errors.New("qcollapse: variable index out of range")

	// ErrUnknownProblem is returned for a problem type outside the closed set.
	ErrUnknownProblem = errors.New("qcollapse: unknown problem type")

	// ErrInsufficientData is returned when a fit has too few distinct points.
	ErrInsufficientData = errors.New("qcollapse: insufficient data")

	// ErrConfig is returned when a configuration file or value is invalid.
	ErrConfig = errors.New("qcollapse: invalid configuration")
)
