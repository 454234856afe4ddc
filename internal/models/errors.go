package models

import "errors"

// Error categories surfaced at the request boundary.
var (
	// ErrUnexpected marks an internal misconfiguration, such as a missing index.
	ErrUnexpected = errors.New("unexpected error")
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrTimeout    = errors.New("timeout")
)
