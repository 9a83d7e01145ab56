package services

import "errors"

// Error taxonomy for the request boundary. Controllers match these with
// errors.Is and translate them to structured failure responses; no raw
// transport or driver detail crosses that boundary.
var (
	// ErrValidation marks malformed or out-of-range input. Never retried.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound covers both absent records and records owned by someone
	// else. The two cases must stay indistinguishable to the caller.
	ErrNotFound = errors.New("not found")

	// ErrUpstreamUnavailable marks an agents service failure (network error,
	// non-2xx, timeout). Retryable from the caller's point of view.
	ErrUpstreamUnavailable = errors.New("reasoning service unavailable")

	// ErrPersistence marks a store read/write failure. Fatal to the current
	// request, not retried automatically.
	ErrPersistence = errors.New("storage failure")
)
