package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrPersistence = errors.New("persistence failure")
	ErrNoData      = errors.New("no cases found in the given date range")
)

// ValidationError reports a missing or malformed required input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NormalizationError reports a date value that matches none of the accepted shapes.
type NormalizationError struct {
	Input any
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("unrecognized date format: %v", e.Input)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNormalization(err error) bool {
	var n *NormalizationError
	return errors.As(err, &n)
}

// Persistence wraps a store failure so callers can match ErrPersistence
// while keeping the underlying message.
func Persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrPersistence, op, err)
}
