package storage

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/opyta/sistema-financeiro/internal/model"
)

// ErrEmptyCSV is returned when an imported file has no header row.
var ErrEmptyCSV = errors.New("csv file has no header row")

type csvOptions struct {
	delimiter rune
}

// CSVOption configures CSV import and export.
type CSVOption func(*csvOptions)

// WithDelimiter sets the field delimiter (default is comma).
func WithDelimiter(d rune) CSVOption {
	return func(o *csvOptions) {
		o.delimiter = d
	}
}

func newCSVOptions(opts []CSVOption) csvOptions {
	o := csvOptions{delimiter: ','}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ImportCSV replaces a tab with the contents of a CSV file whose first record
// is the header. A UTF-8 byte order mark is ignored. It returns the number of
// data rows imported.
func (w *Workbook) ImportCSV(ctx context.Context, name string, r io.Reader, opts ...CSVOption) (int, error) {
	o := newCSVOptions(opts)

	buf := bufio.NewReader(r)
	if bom, err := buf.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = buf.Discard(3)
	}

	reader := csv.NewReader(buf)
	reader.Comma = o.delimiter
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return 0, ErrEmptyCSV
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read header: %w", err)
	}

	table := model.Table{Header: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read csv line %d: %w", len(table.Rows)+2, err)
		}

		row := make([]any, len(record))
		for i, field := range record {
			row[i] = field
		}
		table.Rows = append(table.Rows, row)
	}

	if err := w.SetTable(ctx, name, table); err != nil {
		return 0, err
	}
	return len(table.Rows), nil
}

// ExportCSV writes a tab, header first, as CSV.
func (w *Workbook) ExportCSV(ctx context.Context, name string, out io.Writer, opts ...CSVOption) error {
	o := newCSVOptions(opts)

	table, err := w.ReadTable(ctx, name)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(out)
	writer.Comma = o.delimiter

	if err := writer.Write(table.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range table.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = model.CellString(v)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
