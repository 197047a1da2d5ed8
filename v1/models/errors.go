package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a looked-up record does not exist
var ErrNotFound = errors.New("record not found")

// ErrValidation represents a validation error in the domain layer
var ErrValidation = errors.New("validation error")

// ErrDuplicateEmail is returned when a member email is already taken
var ErrDuplicateEmail = fmt.Errorf("%w: email has already been taken", ErrValidation)

// IsNotFound checks if an error is a not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
