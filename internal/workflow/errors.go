package workflow

import "errors"

// Sentinel errors returned by the workflows. Handlers map these onto HTTP
// status codes; everything else is treated as an upstream failure.
var (
	// ErrValidation marks a missing or malformed required field.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an unknown posting, applicant, or application.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a duplicate unique field.
	ErrConflict = errors.New("conflict")
	// ErrNotOwner marks an operation on an application the caller does not own.
	ErrNotOwner = errors.New("not owner")
	// ErrUpstream marks a storage or database transport failure.
	ErrUpstream = errors.New("upstream failure")
)
