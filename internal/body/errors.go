package body

import "errors"

var (
	// ErrUnknownBody indicates a body name that is not part of the model.
	ErrUnknownBody = errors.New("body: unknown body")

	// ErrDimensionMismatch indicates a coordinate vector of the wrong length.
	ErrDimensionMismatch = errors.New("body: dimension mismatch between state and model")

	// ErrNonFinite indicates NaN or Inf in an input vector.
	ErrNonFinite = errors.New("body: non-finite value in state")

	// ErrNotRealized indicates a query before SetState/RealizeDynamics.
	ErrNotRealized = errors.New("body: model state not realized")

	// ErrInvalidTopology indicates a malformed body tree.
	ErrInvalidTopology = errors.New("body: invalid topology")
)
