package score

import (
	"errors"
	"fmt"
)

// Field names reported by ValidationError.
const (
	FieldID       = "id"
	FieldName     = "name"
	FieldWPM      = "wpm"
	FieldAccuracy = "accuracy"
	FieldDate     = "date"
)

// ErrInvalid is matched by every ValidationError through errors.Is.
var ErrInvalid = errors.New("invalid score input")

// ValidationError reports which input field was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Unwrap exposes ErrInvalid.
func (e *ValidationError) Unwrap() error { return ErrInvalid }

// Invalid returns a ValidationError for field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
