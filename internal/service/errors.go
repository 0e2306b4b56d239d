package service

import (
	"errors"
	"fmt"
)

// Failure kinds. Specific sentinels wrap one of these so callers can branch
// on either the exact condition or the broad kind with errors.Is
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

var (
	ErrSubjectNotFound     = fmt.Errorf("subject %w", ErrNotFound)
	ErrAccountNotFound     = fmt.Errorf("account %w", ErrNotFound)
	ErrGroupNotFound       = fmt.Errorf("group %w", ErrNotFound)
	ErrDependentNotFound   = fmt.Errorf("dependent %w", ErrNotFound)
	ErrClaimCodeNotFound   = fmt.Errorf("claim code %w", ErrNotFound)
	ErrPlaceholderNotFound = fmt.Errorf("placeholder account %w", ErrNotFound)

	// ErrAmbiguousName is returned when a claim by name matches more than
	// one placeholder; the caller must retry with a claim code
	ErrAmbiguousName = fmt.Errorf("%w: multiple placeholders share this name", ErrConflict)
)

// validationError builds a field-level validation failure
func validationError(field, message string) error {
	return fmt.Errorf("%w: %s: %s", ErrValidation, field, message)
}
