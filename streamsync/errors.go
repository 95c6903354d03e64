package streamsync

import "errors"

// Errors returned during engine construction. Configuration problems are
// programmer errors and fail fast; nothing here is returned at runtime.
var (
	// ErrNilSink indicates no buffer sink was supplied.
	ErrNilSink = errors.New("nil buffer sink")

	// ErrNilTimeSource indicates no time source was supplied.
	ErrNilTimeSource = errors.New("nil time source")

	// ErrInvalidThrottle indicates a negative throttle interval.
	ErrInvalidThrottle = errors.New("throttle interval must not be negative")

	// ErrInvalidMaxChars indicates a non-positive minimal-edit size limit.
	ErrInvalidMaxChars = errors.New("minimal-edit max chars must be positive")

	// ErrInvalidChangeRatio indicates a change ratio outside (0, 1].
	ErrInvalidChangeRatio = errors.New("minimal-edit change ratio must be in (0, 1]")
)
