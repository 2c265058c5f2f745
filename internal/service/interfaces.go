// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/opyta/sistema-financeiro/internal/model"
)

// Workbook is the row/column model of a spreadsheet backend.
type Workbook interface {
	// ReadTable returns the header row and every data row of the named tab.
	// A tab without any cells yields an empty table, not an error.
	ReadTable(ctx context.Context, name string) (model.Table, error)
	// UpdateRow overwrites the cells of a 1-based sheet row, starting at column A.
	UpdateRow(ctx context.Context, name string, row int, values []any) error
	// AppendRow adds a row after the last non-empty row of the tab.
	AppendRow(ctx context.Context, name string, values []any) error
}

// TableFormatter is implemented by backends that can style a written tab.
type TableFormatter interface {
	FormatTable(ctx context.Context, name string, columns int) error
}

// Identity names the spreadsheet a workbook is connected to; cached source
// tables are keyed by it.
type Identity interface {
	SpreadsheetID() string
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// ProgressFunc is called after each row an operation writes.
type ProgressFunc func(done, total int)
