// Package upsert writes identifier-keyed tables into a workbook tab, updating
// rows that already exist and appending the rest.
package upsert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/opyta/sistema-financeiro/internal/common"
	"github.com/opyta/sistema-financeiro/internal/model"
	"github.com/opyta/sistema-financeiro/internal/service"
)

// Result summarizes one upsert call.
type Result struct {
	Table         string `json:"table"`
	Updated       int    `json:"updated"`
	Appended      int    `json:"appended"`
	HeaderWritten bool   `json:"header_written"`
}

// Written returns the number of data rows written.
func (r Result) Written() int { return r.Updated + r.Appended }

// Writer upserts tables into a workbook. The first column of every table is
// the row identifier.
type Writer struct {
	workbook service.Workbook
	logger   *slog.Logger
	progress service.ProgressFunc
	format   bool
}

// Option configures a Writer.
type Option func(*Writer)

// WithProgress reports every written data row.
func WithProgress(fn service.ProgressFunc) Option {
	return func(w *Writer) { w.progress = fn }
}

// WithFormatting asks formatting-capable workbooks to style the tab after writing.
func WithFormatting(enabled bool) Option {
	return func(w *Writer) { w.format = enabled }
}

// NewWriter creates a Writer over wb.
func NewWriter(wb service.Workbook, logger *slog.Logger, opts ...Option) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Writer{workbook: wb, logger: logger, format: true}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Upsert writes table into the named tab. A tab without a header receives the
// header followed by every row. Otherwise the headers must match; rows whose
// identifier is already present are overwritten in place and the others are
// appended. Writes are neither retried nor rolled back: a failure leaves the
// rows written so far in place.
func (w *Writer) Upsert(ctx context.Context, name string, table model.Table) (Result, error) {
	result := Result{Table: name}

	if len(table.Rows) == 0 {
		return result, nil
	}
	if len(table.Header) == 0 {
		return result, fmt.Errorf("upsert %q: table has no header", name)
	}
	for i, row := range table.Rows {
		if len(row) != len(table.Header) {
			return result, &common.SchemaMismatchError{
				Table:    name,
				Expected: table.Header,
				Got:      cellStrings(row),
				Row:      i + 1,
			}
		}
	}

	existing, err := w.workbook.ReadTable(ctx, name)
	if err != nil && !errors.Is(err, common.ErrTableNotFound) {
		return result, fmt.Errorf("upsert %q: %w", name, err)
	}

	total := len(table.Rows)

	if existing.IsEmpty() {
		if err := w.workbook.AppendRow(ctx, name, headerCells(table.Header)); err != nil {
			return result, fmt.Errorf("upsert %q: write header: %w", name, err)
		}
		result.HeaderWritten = true

		for _, row := range table.Rows {
			if err := w.workbook.AppendRow(ctx, name, row); err != nil {
				return result, fmt.Errorf("upsert %q: append row: %w", name, err)
			}
			result.Appended++
			w.report(result.Written(), total)
		}
		w.finish(ctx, name, len(table.Header), result)
		return result, nil
	}

	if !sameHeader(existing.Header, table.Header) {
		return result, &common.SchemaMismatchError{Table: name, Expected: existing.Header, Got: table.Header}
	}

	// sheet row of every identifier; the header occupies row 1
	index := make(map[string]int, len(existing.Rows))
	for i, row := range existing.Rows {
		if len(row) == 0 {
			continue
		}
		id := model.CellString(row[0])
		if _, seen := index[id]; id != "" && !seen {
			index[id] = i + 2
		}
	}
	nextRow := len(existing.Rows) + 2

	for _, row := range table.Rows {
		id := model.CellString(row[0])

		if sheetRow, ok := index[id]; ok {
			if err := w.workbook.UpdateRow(ctx, name, sheetRow, row); err != nil {
				return result, fmt.Errorf("upsert %q: update row %d: %w", name, sheetRow, err)
			}
			result.Updated++
		} else {
			if err := w.workbook.AppendRow(ctx, name, row); err != nil {
				return result, fmt.Errorf("upsert %q: append row: %w", name, err)
			}
			if id != "" {
				index[id] = nextRow
			}
			nextRow++
			result.Appended++
		}
		w.report(result.Written(), total)
	}

	w.finish(ctx, name, len(table.Header), result)
	return result, nil
}

func (w *Writer) report(done, total int) {
	if w.progress != nil {
		w.progress(done, total)
	}
}

// finish logs the outcome and formats the tab. Formatting failures are logged only.
func (w *Writer) finish(ctx context.Context, name string, columns int, result Result) {
	w.logger.Info("upserted table",
		"table", name,
		"updated", result.Updated,
		"appended", result.Appended,
		"header_written", result.HeaderWritten)

	if !w.format {
		return
	}
	formatter, ok := w.workbook.(service.TableFormatter)
	if !ok {
		return
	}
	if err := formatter.FormatTable(ctx, name, columns); err != nil {
		w.logger.Warn("failed to format table", "table", name, "error", err)
	}
}

func sameHeader(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func headerCells(header []string) []any {
	out := make([]any, len(header))
	for i, h := range header {
		out[i] = h
	}
	return out
}

func cellStrings(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = model.CellString(v)
	}
	return out
}
