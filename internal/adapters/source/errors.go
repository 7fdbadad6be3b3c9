package source

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrConnectionFailed  = errors.New("database connection failed")
	ErrQueryFailed       = errors.New("database query failed")
	ErrReadFailed        = errors.New("flat file read failed")
	ErrSourceUnavailable = errors.New("source unavailable")
)

// failureKind labels err for the source failure metric.
func failureKind(err error) string {
	switch {
	case errors.Is(err, ErrConnectionFailed):
		return "connection"
	case errors.Is(err, ErrQueryFailed):
		return "query"
	case errors.Is(err, ErrReadFailed):
		return "csv"
	default:
		return "unknown"
	}
}
