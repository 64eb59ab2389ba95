package store

import "errors"

// Sentinel error kinds per the error taxonomy: checked with errors.Is.
var (
	// ErrNotFound means a job or action label was addressed but does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrInvariant means an operation would violate a structural invariant
	// (write in read mode, registry violation, bad state transition).
	ErrInvariant = errors.New("store: invariant violation")
	// ErrFatal means database creation or registry loading failed outright.
	ErrFatal = errors.New("store: fatal")
)
