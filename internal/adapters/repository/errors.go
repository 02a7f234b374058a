package repository

import "errors"

// Sentinel kinds for corpus errors.
var (
	ErrLoad          = errors.New("corpus load failed")
	ErrInvalidRecord = errors.New("invalid opportunity record")
)
