package model

import "errors"

// Error kinds reported by every operation. Callers classify with errors.Is;
// wrapping adds context without losing the kind.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrIOFailure       = errors.New("i/o failure")
	ErrFormat          = errors.New("malformed midi data")
)
