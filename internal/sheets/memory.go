package sheets

import (
	"context"
	"fmt"
	"sync"

	"github.com/opyta/sistema-financeiro/internal/common"
	"github.com/opyta/sistema-financeiro/internal/model"
	"github.com/opyta/sistema-financeiro/internal/service"
)

var (
	_ service.Workbook       = (*MemoryWorkbook)(nil)
	_ service.TableFormatter = (*MemoryWorkbook)(nil)
	_ service.Identity       = (*MemoryWorkbook)(nil)
)

// MemoryWorkbook is an in-process workbook. Each tab is a grid of rows where
// row 1 is the header.
type MemoryWorkbook struct {
	tabs      map[string][][]any
	formatted map[string]int
	id        string
	mu        sync.RWMutex
}

// NewMemoryWorkbook creates an empty workbook with the given identifier.
func NewMemoryWorkbook(id string) *MemoryWorkbook {
	return &MemoryWorkbook{
		id:        id,
		tabs:      make(map[string][][]any),
		formatted: make(map[string]int),
	}
}

// SpreadsheetID returns the workbook identifier.
func (m *MemoryWorkbook) SpreadsheetID() string { return m.id }

// SetTable replaces a tab with the header and rows of t.
func (m *MemoryWorkbook) SetTable(name string, t model.Table) {
	m.mu.Lock()
	defer m.mu.Unlock()

	grid := make([][]any, 0, len(t.Rows)+1)
	if !t.IsEmpty() {
		header := make([]any, len(t.Header))
		for i, h := range t.Header {
			header[i] = h
		}
		grid = append(grid, header)
	}
	for _, row := range t.Rows {
		grid = append(grid, append([]any(nil), row...))
	}
	m.tabs[name] = grid
}

// ReadTable returns a copy of the tab.
func (m *MemoryWorkbook) ReadTable(_ context.Context, name string) (model.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	grid, ok := m.tabs[name]
	if !ok {
		return model.Table{}, fmt.Errorf("%w: %s", common.ErrTableNotFound, name)
	}
	return gridTable(grid), nil
}

// UpdateRow overwrites the leading cells of a row, growing the tab if needed.
func (m *MemoryWorkbook) UpdateRow(_ context.Context, name string, row int, values []any) error {
	if row < 1 {
		return fmt.Errorf("invalid row %d", row)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	grid := m.tabs[name]
	for len(grid) < row {
		grid = append(grid, nil)
	}

	target := grid[row-1]
	if len(target) < len(values) {
		target = append(target, make([]any, len(values)-len(target))...)
	}
	copy(target, values)
	grid[row-1] = target
	m.tabs[name] = grid
	return nil
}

// AppendRow adds a row after the last row of the tab, creating the tab if needed.
func (m *MemoryWorkbook) AppendRow(_ context.Context, name string, values []any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tabs[name] = append(m.tabs[name], append([]any(nil), values...))
	return nil
}

// FormatTable records the formatted column count.
func (m *MemoryWorkbook) FormatTable(_ context.Context, name string, columns int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.formatted[name] = columns
	return nil
}

// Formatted returns the column count of the last FormatTable call for the tab.
func (m *MemoryWorkbook) Formatted(name string) (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.formatted[name]
	return n, ok
}

// gridTable splits a cell grid into header and data rows.
func gridTable(grid [][]any) model.Table {
	if len(grid) == 0 {
		return model.Table{}
	}

	t := model.Table{Header: make([]string, len(grid[0]))}
	for i, v := range grid[0] {
		t.Header[i] = model.CellString(v)
	}
	t.Rows = make([][]any, 0, len(grid)-1)
	for _, row := range grid[1:] {
		t.Rows = append(t.Rows, append([]any(nil), row...))
	}
	return t
}
