package solokey

import (
	"errors"
	"fmt"
)

// ErrTooLarge is the cause of a StructuralError for input above the size limit.
var ErrTooLarge = errors.New("container too large")

// StructuralError indicates that the input is not a single JSON object.
type StructuralError struct {
	// Err is the underlying cause, if any
	Err error
}

func (e *StructuralError) Error() string {
	if e.Err == nil {
		return "firmware not in expected container format"
	}
	return fmt.Sprintf("firmware not in expected container format: %v", e.Err)
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}

// MissingFieldError indicates that a required string member is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("container invalid as it has no %q string member", e.Field)
}

// DecodeError indicates that a member holds invalid base64.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %q: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// SubParseError wraps a failure of the embedded hex payload parser.
type SubParseError struct {
	Err error
}

func (e *SubParseError) Error() string {
	return fmt.Sprintf("failed to parse embedded firmware: %v", e.Err)
}

func (e *SubParseError) Unwrap() error {
	return e.Err
}

// IsMissingField returns true if err is a MissingFieldError for the given field.
func IsMissingField(err error, field string) bool {
	var e *MissingFieldError
	return errors.As(err, &e) && e.Field == field
}
