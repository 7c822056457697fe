// Package apperror defines the sentinel errors every service uses to report
// failure categories across the HTTP boundary. Services wrap these with
// context via fmt.Errorf("%w", ...); controllers unwrap with errors.Is.
package apperror

import "errors"

var (
	// ErrNotFound is returned when a referenced entity does not exist and the
	// operation explicitly rejects rather than no-ops.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an operation would violate a state
	// invariant, such as starting a second active test or completing an
	// already completed attempt.
	ErrConflict = errors.New("conflict")

	// ErrValidation is returned for malformed input, such as an import
	// document containing a question with too few answers.
	ErrValidation = errors.New("validation failed")
)
