package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is wrapped by every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when an id or name is not in the collection.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when adding a name or category that already exists.
	ErrDuplicate = errors.New("already exists")
)

// ValidationError rejects an input before any state change.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
