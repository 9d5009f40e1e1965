// Package apperr holds the sentinel errors shared by the service and its boundaries.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation failed")
	ErrDecode        = errors.New("decode failed")
)

// DecodeError reports a record field that is missing, mistyped, or holds an
// unknown value. It matches ErrDecode under errors.Is.
type DecodeError struct {
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode: %s", e.Reason)
	}
	return fmt.Sprintf("decode: field %q: %s", e.Field, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return ErrDecode
}

// NewDecodeError returns a DecodeError for field.
func NewDecodeError(field, reason string) *DecodeError {
	return &DecodeError{Field: field, Reason: reason}
}
