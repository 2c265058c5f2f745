// Package storage keeps a local workbook in SQLite. Each tab is a set of
// numbered rows whose cells are stored as JSON arrays, mirroring the row and
// column model of a spreadsheet.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/opyta/sistema-financeiro/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

var (
	_ service.Workbook = (*Workbook)(nil)
	_ service.Identity = (*Workbook)(nil)
)

// Workbook implements service.Workbook on a SQLite database.
type Workbook struct {
	db     *sql.DB
	dbPath string
}

// NewWorkbook opens (or creates) the workbook database at dbPath.
func NewWorkbook(dbPath string) (*Workbook, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Workbook{db: db, dbPath: dbPath}, nil
}

// Open opens the workbook and applies pending migrations.
func Open(ctx context.Context, dbPath string) (*Workbook, error) {
	wb, err := NewWorkbook(dbPath)
	if err != nil {
		return nil, err
	}
	if err := wb.Migrate(ctx); err != nil {
		_ = wb.Close()
		return nil, err
	}
	return wb, nil
}

// Close closes the database connection.
func (w *Workbook) Close() error {
	return w.db.Close()
}

// SpreadsheetID identifies the workbook by its database path.
func (w *Workbook) SpreadsheetID() string {
	return "sqlite:" + w.dbPath
}
