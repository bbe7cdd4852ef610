package engine

import "errors"

var (
	// ErrNotFound means the referenced approval, escalation, or rule does not
	// exist. Mutating operations perform no write when they return it.
	ErrNotFound = errors.New("not found")

	// ErrValidation means the caller's input was malformed or incomplete.
	ErrValidation = errors.New("validation failed")

	// ErrConflict means a transition was attempted on an item already in a
	// terminal state; the second decision is refused rather than recorded.
	ErrConflict = errors.New("conflicting transition")
)
