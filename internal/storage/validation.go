package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Validation errors.
var (
	ErrNilContext  = errors.New("context cannot be nil")
	ErrEmptyString = errors.New("string parameter cannot be empty")
	ErrInvalidRow  = errors.New("invalid row")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRowNumber ensures a sheet row number is 1-based.
func validateRowNumber(row int) error {
	if row < 1 {
		return fmt.Errorf("%w: row number %d must be positive", ErrInvalidRow, row)
	}
	return nil
}

// validateCells ensures a written row carries at least one cell.
func validateCells(values []any) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: no cells", ErrInvalidRow)
	}
	return nil
}
