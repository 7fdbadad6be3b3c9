package report

import "errors"

// Sentinel error kinds for this package.
var (
	ErrRenderFailed = errors.New("report render failed")
	ErrWriteFailed  = errors.New("report write failed")
)
