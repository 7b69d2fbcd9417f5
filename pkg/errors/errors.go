package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField matches any UnknownFieldError via errors.Is
	ErrUnknownField = errors.New("unknown field")
	// ErrValidation matches any ValidationError via errors.Is
	ErrValidation = errors.New("validation failed")
)

// UnknownFieldError is returned when a field name is not part of the active API registry
type UnknownFieldError struct {
	Field    string
	Registry string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("no field %s exists in the PayPal %s API", e.Field, e.Registry)
}

// Is lets errors.Is(err, ErrUnknownField) match
func (e *UnknownFieldError) Is(target error) bool {
	return target == ErrUnknownField
}

// NewUnknownFieldError creates a new unknown field error
func NewUnknownFieldError(field, registry string) *UnknownFieldError {
	return &UnknownFieldError{
		Field:    field,
		Registry: registry,
	}
}

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrValidation) match
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
