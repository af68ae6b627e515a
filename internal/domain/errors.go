// internal/domain/errors.go
package domain

import "errors"

// Sentinel errors for the computation engine. Callers classify failures with
// errors.Is; the HTTP layer maps them onto status codes.
var (
	// ErrInvalidParameter marks malformed or out-of-range input, detected
	// before any persistence.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidRange marks a month range where from is after to.
	ErrInvalidRange = errors.New("invalid month range")

	// ErrNotFound marks a missing referenced entity (run, scenario, or source).
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a sequence-number collision that could not be resolved
	// by retrying.
	ErrConflict = errors.New("conflict")
)
