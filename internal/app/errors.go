package app

import "errors"

// Error taxonomy surfaced to the request gateway. The gateway maps
// ErrInvalidInput and ErrNoData to client errors, ErrBackpressure to
// 429, and everything else to a server error.
var (
	ErrInvalidInput = errors.New("candidate id is required")
	ErrNoData       = errors.New("no interactions or outcomes found for candidate")
	ErrPersist      = errors.New("failed to persist metrics summary")
	ErrBackpressure = errors.New("persistence queue is full")
	ErrNotStarted   = errors.New("service not started")
)
