// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
	"time"
)

// Common application errors.
var (
	// Filter errors.
	ErrInvalidRange = errors.New("invalid date range")

	// Workbook errors.
	ErrSchemaMismatch = errors.New("schema mismatch")
	ErrTableNotFound  = errors.New("table not found")

	// Input errors.
	ErrInvalidNumericInput = errors.New("invalid numeric input")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// InvalidRangeError reports a custom period that cannot form a window.
type InvalidRangeError struct {
	Start  *time.Time
	End    *time.Time
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidRange, e.Reason)
}

func (e *InvalidRangeError) Unwrap() error {
	return ErrInvalidRange
}

// SchemaMismatchError reports rows whose shape disagrees with the table header.
type SchemaMismatchError struct {
	Table    string
	Expected []string
	Got      []string
	Row      int // 0 when the header itself differs
}

func (e *SchemaMismatchError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%v: table %q row %d has %d cells, header has %d",
			ErrSchemaMismatch, e.Table, e.Row, len(e.Got), len(e.Expected))
	}
	return fmt.Sprintf("%v: table %q has header %v, rows use %v",
		ErrSchemaMismatch, e.Table, e.Expected, e.Got)
}

func (e *SchemaMismatchError) Unwrap() error {
	return ErrSchemaMismatch
}

// InvalidNumericInputError reports a cell that should hold a number but does not.
type InvalidNumericInputError struct {
	Field string
	Value string
}

func (e *InvalidNumericInputError) Error() string {
	return fmt.Sprintf("%v: %s=%q", ErrInvalidNumericInput, e.Field, e.Value)
}

func (e *InvalidNumericInputError) Unwrap() error {
	return ErrInvalidNumericInput
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
