// Package finance holds the dashboard computations: row filters, tax
// calculation, headline totals, budget alerts and chart series.
package finance

import (
	"slices"
	"time"

	"github.com/opyta/sistema-financeiro/internal/model"
)

// clientAlias is the Portuguese spelling of the wildcard used by the original sheet.
const clientAlias = "Todos"

// ProjectRow is a row that references a project.
type ProjectRow interface {
	ProjectCode() string
}

// Filter is the selector state of the dashboard.
type Filter struct {
	Start   *time.Time `json:"start,omitempty"`
	End     *time.Time `json:"end,omitempty"`
	Client  string     `json:"client"`
	Project string     `json:"project"`
	Period  PeriodKind `json:"period"`
}

// IsAll reports whether a selector value disables its filter.
func IsAll(v string) bool {
	return v == "" || v == model.AllSelector || v == clientAlias
}

// FilterProject keeps the rows of one project.
func FilterProject[T ProjectRow](rows []T, code string) []T {
	if IsAll(code) {
		return slices.Clone(rows)
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if r.ProjectCode() == code {
			out = append(out, r)
		}
	}
	return out
}

// FilterClient keeps the rows whose project belongs to client.
func FilterClient[T ProjectRow](rows []T, projects []model.Project, client string) []T {
	if IsAll(client) {
		return slices.Clone(rows)
	}

	codes := make(map[string]struct{})
	for _, p := range projects {
		if p.Client == client {
			codes[p.Code] = struct{}{}
		}
	}

	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if _, ok := codes[r.ProjectCode()]; ok {
			out = append(out, r)
		}
	}
	return out
}

// FilterPeriod keeps the rows whose date falls inside the period window.
// Unknown kinds return the rows unchanged.
func FilterPeriod[T any](rows []T, kind PeriodKind, start, end *time.Time, dateOf func(T) time.Time, today time.Time) ([]T, error) {
	window, ok, err := PeriodWindow(kind, start, end, today)
	if err != nil {
		return nil, err
	}
	if !ok {
		return slices.Clone(rows), nil
	}

	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if window.Contains(dateOf(r)) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Filtered holds the revenue and expense rows left after applying a Filter.
type Filtered struct {
	Window   *Window
	Revenue  []model.RevenueRecord
	Expenses []model.ExpenseRecord
}

func revenueDate(r model.RevenueRecord) time.Time { return r.Date }
func expenseDate(e model.ExpenseRecord) time.Time { return e.Date }

// Apply narrows revenue and expenses by project, then client, then period.
func Apply(f Filter, src model.Sources, today time.Time) (Filtered, error) {
	revenue := FilterProject(src.Revenue, f.Project)
	revenue = FilterClient(revenue, src.Projects, f.Client)
	revenue, err := FilterPeriod(revenue, f.Period, f.Start, f.End, revenueDate, today)
	if err != nil {
		return Filtered{}, err
	}

	expenses := FilterProject(src.Expenses, f.Project)
	expenses = FilterClient(expenses, src.Projects, f.Client)
	expenses, err = FilterPeriod(expenses, f.Period, f.Start, f.End, expenseDate, today)
	if err != nil {
		return Filtered{}, err
	}

	out := Filtered{Revenue: revenue, Expenses: expenses}
	if w, ok, _ := PeriodWindow(f.Period, f.Start, f.End, today); ok {
		out.Window = &w
	}
	return out, nil
}

// Clients lists the distinct clients in sheet order.
func Clients(projects []model.Project) []string {
	seen := make(map[string]struct{}, len(projects))
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		if _, ok := seen[p.Client]; ok || p.Client == "" {
			continue
		}
		seen[p.Client] = struct{}{}
		out = append(out, p.Client)
	}
	return out
}

// ProjectCodes lists the project codes offered for a client selection.
func ProjectCodes(projects []model.Project, client string) []string {
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		if IsAll(client) || p.Client == client {
			out = append(out, p.Code)
		}
	}
	return out
}
