package learn

import "errors"

// Sentinel kinds for model fitting.
var (
	ErrTooFewSamples  = errors.New("too few samples")
	ErrLengthMismatch = errors.New("length mismatch")
	ErrInvalidK       = errors.New("invalid cluster count")
)
