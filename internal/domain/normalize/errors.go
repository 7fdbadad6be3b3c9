package normalize

import "errors"

// Sentinel kinds for normalization errors.
var (
	ErrNoData = errors.New("no data available")
)
