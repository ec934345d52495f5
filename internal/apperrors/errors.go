package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that a compare-and-swap update found the row in a
// different state than expected (another driver moved the saga first).
var ErrConflict = errors.New("state changed concurrently")

// ErrInvalidTransition indicates a saga transition was attempted from a state
// that does not permit it. This is a driver bug or a race, never swallowed.
var ErrInvalidTransition = errors.New("invalid state transition")

// ErrUnavailable indicates a retryable external failure (timeout, 5xx,
// malformed response). The saga records it and stays in its current state.
var ErrUnavailable = errors.New("external service unavailable")

// ErrRejected indicates the external authority explicitly and terminally
// rejected the request. The saga moves to FAILED.
var ErrRejected = errors.New("rejected by external authority")
