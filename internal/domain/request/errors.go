package request

import "errors"

var (
	// ErrRequestNotFound indicates the request doesn't exist in the snapshot.
	ErrRequestNotFound = errors.New("request not found")
	// ErrStoreUnavailable indicates the record store could not be read.
	ErrStoreUnavailable = errors.New("request store unavailable")
	// ErrInvalidInput indicates invalid input for request operations.
	ErrInvalidInput = errors.New("invalid request input")
)
