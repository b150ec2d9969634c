package core

import (
	"errors"
	"fmt"
)

// Sentinel errors let adapters map failures to responses with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTerm       = errors.New("loan term must be at least one month")
	ErrInvalidAmount     = errors.New("amount must not be negative")
	ErrInsufficientCoins = errors.New("insufficient coin balance")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicate         = errors.New("duplicate request")

	// Field-level causes wrapped by FieldError.
	ErrRequired    = errors.New("is required")
	ErrNotNumber   = errors.New("must be a number")
	ErrNotPositive = errors.New("must be greater than zero")
)

// FieldError reports a problem with a single user-supplied value.
// It unwraps to both its cause and ErrInvalidInput.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Err.Error())
}

func (e *FieldError) Unwrap() []error {
	return []error{e.Err, ErrInvalidInput}
}

func fieldErr(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}

// invalidf builds an ErrInvalidInput-wrapping error with a user-facing message.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
