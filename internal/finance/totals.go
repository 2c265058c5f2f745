package finance

import (
	"sort"
	"time"

	"github.com/opyta/sistema-financeiro/internal/model"
	"github.com/shopspring/decimal"
)

// Totals are the five headline metrics.
type Totals struct {
	Revenue  decimal.Decimal `json:"revenue"`
	Expense  decimal.Decimal `json:"expense"`
	Cost     decimal.Decimal `json:"cost"`
	Profit   decimal.Decimal `json:"profit"`
	CashFlow decimal.Decimal `json:"cash_flow"`
}

// ComputeTotals sums revenue, expenses and costs.
// Profit = revenue - expense - cost; cash flow = revenue - expense.
func ComputeTotals(revenue []model.RevenueRecord, expenses []model.ExpenseRecord, costs []model.CostRecord) Totals {
	var t Totals
	for _, r := range revenue {
		t.Revenue = t.Revenue.Add(r.Amount)
	}
	for _, e := range expenses {
		t.Expense = t.Expense.Add(e.Amount)
	}
	for _, c := range costs {
		t.Cost = t.Cost.Add(c.Amount)
	}
	t.Profit = t.Revenue.Sub(t.Expense).Sub(t.Cost)
	t.CashFlow = t.Revenue.Sub(t.Expense)
	return t
}

// CategoryShare is one slice of the cost breakdown.
type CategoryShare struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Percent  decimal.Decimal `json:"percent"`
}

// CostsByCategory groups costs by category in first-seen order. Percent is the
// share of the absolute total, zero when there is nothing to share.
func CostsByCategory(costs []model.CostRecord) []CategoryShare {
	index := make(map[string]int)
	out := make([]CategoryShare, 0)
	for _, c := range costs {
		i, ok := index[c.Category]
		if !ok {
			i = len(out)
			index[c.Category] = i
			out = append(out, CategoryShare{Category: c.Category})
		}
		out[i].Amount = out[i].Amount.Add(c.Amount)
	}

	total := decimal.Zero
	for _, s := range out {
		total = total.Add(s.Amount.Abs())
	}
	if total.IsZero() {
		return out
	}
	for i := range out {
		out[i].Percent = out[i].Amount.Abs().Div(total).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return out
}

// SeriesPoint is the revenue and expense received or paid on one day.
type SeriesPoint struct {
	Date    time.Time       `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Expense decimal.Decimal `json:"expense"`
}

// TimeSeries sums revenue and expenses per day, sorted by date. It is empty
// unless both inputs have rows.
func TimeSeries(revenue []model.RevenueRecord, expenses []model.ExpenseRecord) []SeriesPoint {
	if len(revenue) == 0 || len(expenses) == 0 {
		return nil
	}

	points := make(map[time.Time]*SeriesPoint)
	point := func(t time.Time) *SeriesPoint {
		d := civilDate(t)
		p, ok := points[d]
		if !ok {
			p = &SeriesPoint{Date: d}
			points[d] = p
		}
		return p
	}

	for _, r := range revenue {
		p := point(r.Date)
		p.Revenue = p.Revenue.Add(r.Amount)
	}
	for _, e := range expenses {
		p := point(e.Date)
		p.Expense = p.Expense.Add(e.Amount)
	}

	out := make([]SeriesPoint, 0, len(points))
	for _, p := range points {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// MaxRevenue returns the largest received amount.
func MaxRevenue(revenue []model.RevenueRecord) (decimal.Decimal, bool) {
	if len(revenue) == 0 {
		return decimal.Zero, false
	}
	top := revenue[0].Amount
	for _, r := range revenue[1:] {
		if r.Amount.GreaterThan(top) {
			top = r.Amount
		}
	}
	return top, true
}
