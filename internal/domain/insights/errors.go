package insights

import "errors"

// Sentinel kinds for analysis errors.
var (
	ErrEmptyTable = errors.New("empty employee table")
	ErrModel      = errors.New("model fit failed")
)
