package simulation

import "errors"

// Sentinel error kinds for this package.
var (
	// ErrValidation marks malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")
	// ErrDataUnavailable marks an empty or unreachable opportunity corpus.
	ErrDataUnavailable = errors.New("market data unavailable")
	// ErrNoData is returned by Market for an empty corpus.
	ErrNoData = errors.New("no market data")
)
