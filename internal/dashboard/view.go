package dashboard

import (
	"time"

	"github.com/opyta/sistema-financeiro/internal/finance"
	"github.com/opyta/sistema-financeiro/internal/model"
	"github.com/opyta/sistema-financeiro/internal/upsert"
	"github.com/shopspring/decimal"
)

// View is everything one dashboard render shows.
type View struct {
	Today           time.Time               `json:"today"`
	GeneratedAt     time.Time               `json:"generated_at"`
	Window          *finance.Window         `json:"window,omitempty"`
	Sync            *upsert.Result          `json:"sync,omitempty"`
	Filter          finance.Filter          `json:"filter"`
	Taxes           Grid                    `json:"taxes"`
	Revenue         []Movement              `json:"revenue"`
	Expenses        []Movement              `json:"expenses"`
	Series          []finance.SeriesPoint   `json:"series"`
	Costs           []finance.CategoryShare `json:"costs"`
	Alerts          []finance.ProjectAlert  `json:"alerts"`
	Notices         []model.Notice          `json:"notices"`
	TaxCalculations []model.TaxCalculation  `json:"-"`
	Totals          finance.Totals          `json:"totals"`

	taxTable model.Table
}

// Movement is one row of the revenue or expense table.
type Movement struct {
	Date    time.Time       `json:"date"`
	Project string          `json:"project"`
	Amount  decimal.Decimal `json:"amount"`
	// Highlight marks the largest received amount.
	Highlight bool `json:"highlight,omitempty"`
	// Negative marks amounts shown in red.
	Negative bool `json:"negative,omitempty"`
}

// Grid is a header plus rows of cells, ready to print.
type Grid struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// NewGrid copies a table into a Grid.
func NewGrid(t model.Table) Grid {
	g := Grid{Columns: append([]string(nil), t.Header...), Rows: make([][]any, 0, len(t.Rows))}
	for _, row := range t.Rows {
		g.Rows = append(g.Rows, append([]any(nil), row...))
	}
	return g
}

// HasSeries reports whether there is enough data for the revenue vs expense chart.
func (v View) HasSeries() bool {
	return len(v.Series) > 0
}

func revenueRows(revenue []model.RevenueRecord) []Movement {
	top, ok := finance.MaxRevenue(revenue)
	out := make([]Movement, 0, len(revenue))
	for _, r := range revenue {
		out = append(out, Movement{
			Date:      r.Date,
			Project:   r.Project,
			Amount:    r.Amount,
			Highlight: ok && r.Amount.Equal(top),
			Negative:  r.Amount.IsNegative(),
		})
	}
	return out
}

func expenseRows(expenses []model.ExpenseRecord) []Movement {
	out := make([]Movement, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, Movement{
			Date:     e.Date,
			Project:  e.Project,
			Amount:   e.Amount,
			Negative: e.Amount.IsNegative(),
		})
	}
	return out
}
