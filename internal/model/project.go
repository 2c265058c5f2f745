// Package model defines the core domain models used throughout the application.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllSelector is the selector value that disables a client or project filter.
const AllSelector = "All"

// Project represents a row of the projects tab.
type Project struct {
	// RevenueTarget and Budget hold the raw cell text; nil means the column is absent.
	RevenueTarget *string
	Budget        *string
	Code          string
	Client        string
}

// RevenueRecord represents a received payment.
type RevenueRecord struct {
	Date    time.Time
	Project string
	Amount  decimal.Decimal
	Row     int // 1-based sheet row the record was read from
}

// ProjectCode returns the referenced project code.
func (r RevenueRecord) ProjectCode() string { return r.Project }

// ExpenseRecord represents a paid expense.
type ExpenseRecord struct {
	Date    time.Time
	Project string
	Amount  decimal.Decimal
	Row     int
}

// ProjectCode returns the referenced project code.
func (e ExpenseRecord) ProjectCode() string { return e.Project }

// CostRecord represents a fixed or variable cost line.
type CostRecord struct {
	Category string
	Amount   decimal.Decimal
}

// Sources bundles every decoded source tab of the spreadsheet.
type Sources struct {
	Projects      []Project
	Revenue       []RevenueRecord
	Expenses      []ExpenseRecord
	Costs         []CostRecord
	TaxParameters []TaxParameter
	// Notices collects rows skipped while decoding.
	Notices []Notice
}
