package sheets

import (
	"context"
	"fmt"
	"time"

	"github.com/opyta/sistema-financeiro/internal/model"
	"github.com/opyta/sistema-financeiro/internal/money"
	"github.com/opyta/sistema-financeiro/internal/service"
	"github.com/shopspring/decimal"
)

// SourceTables holds the raw source tabs before decoding.
type SourceTables struct {
	Projects      model.Table
	Revenue       model.Table
	Expenses      model.Table
	Costs         model.Table
	TaxParameters model.Table
}

// ReadSources fetches the five source tabs named by layout.
func ReadSources(ctx context.Context, wb service.Workbook, layout Layout) (SourceTables, error) {
	var tables SourceTables

	reads := []struct {
		dst *model.Table
		tab string
	}{
		{&tables.Projects, layout.Projects.Tab},
		{&tables.Revenue, layout.Revenue.Tab},
		{&tables.Expenses, layout.Expenses.Tab},
		{&tables.Costs, layout.Costs.Tab},
		{&tables.TaxParameters, layout.TaxParameters.Tab},
	}

	for _, r := range reads {
		table, err := wb.ReadTable(ctx, r.tab)
		if err != nil {
			return SourceTables{}, err
		}
		*r.dst = table
	}

	return tables, nil
}

// Load reads and decodes the source tabs.
func Load(ctx context.Context, wb service.Workbook, layout Layout) (model.Sources, error) {
	tables, err := ReadSources(ctx, wb, layout)
	if err != nil {
		return model.Sources{}, err
	}
	return Decode(tables, layout), nil
}

// Decode converts raw tabs into typed records. Rows that cannot be decoded are
// skipped and reported as notices.
func Decode(tables SourceTables, layout Layout) model.Sources {
	d := &decoder{layout: layout}

	src := model.Sources{
		Projects:      d.projects(tables.Projects),
		Revenue:       d.revenue(tables.Revenue),
		Expenses:      d.expenses(tables.Expenses),
		Costs:         d.costs(tables.Costs),
		TaxParameters: d.taxParameters(tables.TaxParameters),
	}
	src.Notices = d.notices
	return src
}

type decoder struct {
	notices []model.Notice
	layout  Layout
}

func (d *decoder) skip(tab string, row int, err error) {
	d.notices = append(d.notices, model.Notice{
		Level:   model.NoticeWarning,
		Message: fmt.Sprintf("%s row %d skipped: %v", tab, row, err),
	})
}

func (d *decoder) projects(t model.Table) []model.Project {
	cols := d.layout.Projects
	out := make([]model.Project, 0, len(t.Rows))

	for _, rec := range t.Records() {
		code := rec.String(cols.Code)
		if code == "" {
			d.skip(cols.Tab, rec.Row, fmt.Errorf("missing %s", cols.Code))
			continue
		}

		p := model.Project{Code: code, Client: rec.String(cols.Client)}
		if _, ok := rec.Get(cols.RevenueTarget); ok {
			v := rec.String(cols.RevenueTarget)
			p.RevenueTarget = &v
		}
		if _, ok := rec.Get(cols.Budget); ok {
			v := rec.String(cols.Budget)
			p.Budget = &v
		}
		out = append(out, p)
	}
	return out
}

func (d *decoder) revenue(t model.Table) []model.RevenueRecord {
	cols := d.layout.Revenue
	out := make([]model.RevenueRecord, 0, len(t.Rows))

	for _, rec := range t.Records() {
		project, amount, date, err := d.movement(rec, cols)
		if err != nil {
			d.skip(cols.Tab, rec.Row, err)
			continue
		}
		out = append(out, model.RevenueRecord{Project: project, Amount: amount, Date: date, Row: rec.Row})
	}
	return out
}

func (d *decoder) expenses(t model.Table) []model.ExpenseRecord {
	cols := d.layout.Expenses
	out := make([]model.ExpenseRecord, 0, len(t.Rows))

	for _, rec := range t.Records() {
		project, amount, date, err := d.movement(rec, cols)
		if err != nil {
			d.skip(cols.Tab, rec.Row, err)
			continue
		}
		out = append(out, model.ExpenseRecord{Project: project, Amount: amount, Date: date, Row: rec.Row})
	}
	return out
}

func (d *decoder) movement(rec model.Record, cols MovementColumns) (string, decimal.Decimal, time.Time, error) {
	amountCell, _ := rec.Get(cols.Amount)
	amount, err := money.ParseAmount(cols.Amount, amountCell)
	if err != nil {
		return "", decimal.Zero, time.Time{}, err
	}

	dateCell, _ := rec.Get(cols.Date)
	date, err := ParseDate(cols.Date, dateCell)
	if err != nil {
		return "", decimal.Zero, time.Time{}, err
	}

	return rec.String(cols.Project), amount, date, nil
}

func (d *decoder) costs(t model.Table) []model.CostRecord {
	cols := d.layout.Costs
	out := make([]model.CostRecord, 0, len(t.Rows))

	for _, rec := range t.Records() {
		cell, _ := rec.Get(cols.Amount)
		amount, err := money.ParseAmount(cols.Amount, cell)
		if err != nil {
			d.skip(cols.Tab, rec.Row, err)
			continue
		}
		out = append(out, model.CostRecord{Category: rec.String(cols.Category), Amount: amount})
	}
	return out
}

func (d *decoder) taxParameters(t model.Table) []model.TaxParameter {
	cols := d.layout.TaxParameters
	out := make([]model.TaxParameter, 0, len(t.Rows))

	for _, rec := range t.Records() {
		name := rec.String(cols.Name)
		if name == "" {
			d.skip(cols.Tab, rec.Row, fmt.Errorf("missing %s", cols.Name))
			continue
		}
		cell, _ := rec.Get(cols.Rate)
		rate, err := money.ParseAmount(cols.Rate, cell)
		if err != nil {
			d.skip(cols.Tab, rec.Row, err)
			continue
		}
		out = append(out, model.TaxParameter{Name: name, Rate: rate})
	}
	return out
}
