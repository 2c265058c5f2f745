package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Table is a spreadsheet tab: an ordered header row followed by data rows.
// The header is data, not a compile-time structure.
type Table struct {
	Header []string
	Rows   [][]any
}

// IsEmpty reports whether the table has no header row at all.
func (t Table) IsEmpty() bool {
	return len(t.Header) == 0
}

// Column returns the index of the named column or -1.
func (t Table) Column(name string) int {
	for i, h := range t.Header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the header contains the named column.
func (t Table) HasColumn(name string) bool {
	return t.Column(name) >= 0
}

// Record is a header-keyed view of a data row.
type Record struct {
	cells map[string]any
	// Row is the 1-based sheet row number (the header is row 1).
	Row int
}

// Get returns the cell for the column and whether the column exists.
func (r Record) Get(column string) (any, bool) {
	v, ok := r.cells[column]
	return v, ok
}

// String returns the trimmed text of the cell, or "" when absent.
func (r Record) String(column string) string {
	v, ok := r.cells[column]
	if !ok {
		return ""
	}
	return CellString(v)
}

// Records converts data rows into header-keyed records. Short rows are padded
// with empty cells and completely blank rows are skipped.
func (t Table) Records() []Record {
	records := make([]Record, 0, len(t.Rows))
	for i, row := range t.Rows {
		if isBlank(row) {
			continue
		}
		cells := make(map[string]any, len(t.Header))
		for c, h := range t.Header {
			name := strings.TrimSpace(h)
			if name == "" {
				continue
			}
			if c < len(row) {
				cells[name] = row[c]
			} else {
				cells[name] = ""
			}
		}
		records = append(records, Record{cells: cells, Row: i + 2})
	}
	return records
}

// CellString renders a cell value as trimmed text.
func CellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

func isBlank(row []any) bool {
	for _, v := range row {
		if CellString(v) != "" {
			return false
		}
	}
	return true
}
