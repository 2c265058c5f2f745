package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/opyta/sistema-financeiro/internal/common"
	"github.com/opyta/sistema-financeiro/internal/model"
)

// ReadTable returns the header and data rows of a tab. Missing row numbers
// come back as empty rows.
func (w *Workbook) ReadTable(ctx context.Context, name string) (model.Table, error) {
	if err := validateContext(ctx); err != nil {
		return model.Table{}, err
	}
	if err := validateString(name, "name"); err != nil {
		return model.Table{}, err
	}

	var exists int
	err := w.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tabs WHERE name = ?`, name).Scan(&exists)
	if err != nil {
		return model.Table{}, fmt.Errorf("failed to look up tab %q: %w", name, err)
	}
	if exists == 0 {
		return model.Table{}, fmt.Errorf("%w: %s", common.ErrTableNotFound, name)
	}

	rows, err := w.db.QueryContext(ctx,
		`SELECT row_number, cells FROM tab_rows WHERE tab = ? ORDER BY row_number`, name)
	if err != nil {
		return model.Table{}, fmt.Errorf("failed to read tab %q: %w", name, err)
	}
	defer func() { _ = rows.Close() }()

	var grid [][]any
	for rows.Next() {
		var (
			number int
			raw    string
		)
		if err := rows.Scan(&number, &raw); err != nil {
			return model.Table{}, fmt.Errorf("failed to scan row: %w", err)
		}

		var cells []any
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return model.Table{}, fmt.Errorf("tab %q row %d: corrupt cells: %w", name, number, err)
		}
		for len(grid) < number-1 {
			grid = append(grid, nil)
		}
		grid = append(grid, cells)
	}
	if err := rows.Err(); err != nil {
		return model.Table{}, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return gridTable(grid), nil
}

// UpdateRow overwrites the leading cells of a row. Cells past the written
// values keep their content.
func (w *Workbook) UpdateRow(ctx context.Context, name string, row int, values []any) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}
	if err := validateRowNumber(row); err != nil {
		return err
	}
	if err := validateCells(values); err != nil {
		return err
	}

	return w.withTx(ctx, func(tx *sql.Tx) error {
		if err := ensureTab(ctx, tx, name); err != nil {
			return err
		}

		var current []any
		var raw string
		err := tx.QueryRowContext(ctx,
			`SELECT cells FROM tab_rows WHERE tab = ? AND row_number = ?`, name, row).Scan(&raw)
		switch {
		case err == sql.ErrNoRows:
		case err != nil:
			return fmt.Errorf("failed to read row %d: %w", row, err)
		default:
			if err := json.Unmarshal([]byte(raw), &current); err != nil {
				return fmt.Errorf("tab %q row %d: corrupt cells: %w", name, row, err)
			}
		}

		if len(current) < len(values) {
			current = append(current, make([]any, len(values)-len(current))...)
		}
		copy(current, values)

		return putRow(ctx, tx, name, row, current)
	})
}

// AppendRow writes values after the last row of the tab, creating the tab if needed.
func (w *Workbook) AppendRow(ctx context.Context, name string, values []any) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}
	if err := validateCells(values); err != nil {
		return err
	}

	return w.withTx(ctx, func(tx *sql.Tx) error {
		if err := ensureTab(ctx, tx, name); err != nil {
			return err
		}

		var last int
		err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(row_number), 0) FROM tab_rows WHERE tab = ?`, name).Scan(&last)
		if err != nil {
			return fmt.Errorf("failed to find last row: %w", err)
		}

		return putRow(ctx, tx, name, last+1, values)
	})
}

// SetTable replaces the whole tab with the header and rows of t.
func (w *Workbook) SetTable(ctx context.Context, name string, t model.Table) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	return w.withTx(ctx, func(tx *sql.Tx) error {
		if err := ensureTab(ctx, tx, name); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tab_rows WHERE tab = ?`, name); err != nil {
			return fmt.Errorf("failed to clear tab %q: %w", name, err)
		}
		if t.IsEmpty() {
			return nil
		}

		header := make([]any, len(t.Header))
		for i, h := range t.Header {
			header[i] = h
		}
		if err := putRow(ctx, tx, name, 1, header); err != nil {
			return err
		}
		for i, row := range t.Rows {
			if err := putRow(ctx, tx, name, i+2, row); err != nil {
				return err
			}
		}
		return nil
	})
}

// Tabs lists the tab names in creation order.
func (w *Workbook) Tabs(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := w.db.QueryContext(ctx, `SELECT name FROM tabs ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tabs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan tab: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (w *Workbook) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func ensureTab(ctx context.Context, tx *sql.Tx, name string) error {
	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO tabs (name) VALUES (?)`, name); err != nil {
		return fmt.Errorf("failed to create tab %q: %w", name, err)
	}
	return nil
}

func putRow(ctx context.Context, tx *sql.Tx, name string, row int, values []any) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode row %d: %w", row, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tab_rows (tab, row_number, cells, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (tab, row_number) DO UPDATE SET cells = excluded.cells`,
		name, row, string(raw))
	if err != nil {
		return fmt.Errorf("failed to write row %d of tab %q: %w", row, name, err)
	}
	return nil
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
	t.Rows = grid[1:]
	return t
}
