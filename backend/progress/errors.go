package progress

import "errors"

var (
	// ErrNotFound means the referenced roadmap, module or record does not
	// exist in reference data.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated means no current user identity was supplied.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrStoreUnavailable means a persistence write failed; the in-memory
	// state must not be assumed durable and the caller may retry.
	ErrStoreUnavailable = errors.New("store unavailable")
)
