package finance

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/opyta/sistema-financeiro/internal/model"
	"github.com/shopspring/decimal"
)

// taxNamespace scopes the name-based identifiers of tax calculation rows.
var taxNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://opyta.com.br/calculo-impostos"))

// IDFunc assigns the identifier of the tax row computed for a revenue record.
// occurrence counts earlier revenue records with the same project, date and amount.
type IDFunc func(r model.RevenueRecord, occurrence int) string

// DeterministicID derives a UUIDv5 from the revenue record, so recomputing the
// same revenue yields the same identifier.
func DeterministicID(r model.RevenueRecord, occurrence int) string {
	name := fmt.Sprintf("%s|%s|%s|%d", r.Project, r.Date.Format("2006-01-02"), r.Amount.String(), occurrence)
	return uuid.NewSHA1(taxNamespace, []byte(name)).String()
}

// taxRates sums the rates per tax name, keeping first-seen order.
func taxRates(params []model.TaxParameter) ([]string, map[string]decimal.Decimal) {
	names := make([]string, 0, len(params))
	rates := make(map[string]decimal.Decimal, len(params))
	for _, p := range params {
		if _, ok := rates[p.Name]; !ok {
			names = append(names, p.Name)
			rates[p.Name] = decimal.Zero
		}
		rates[p.Name] = rates[p.Name].Add(p.Rate)
	}
	return names, rates
}

// TaxNames returns the distinct tax names in first-seen order.
func TaxNames(params []model.TaxParameter) []string {
	names, _ := taxRates(params)
	return names
}

// ComputeTaxes applies every tax parameter to every revenue record. Amounts are
// exact: no rounding is applied.
func ComputeTaxes(revenue []model.RevenueRecord, params []model.TaxParameter, idFn IDFunc) []model.TaxCalculation {
	if idFn == nil {
		idFn = DeterministicID
	}

	names, rates := taxRates(params)
	seen := make(map[string]int, len(revenue))
	out := make([]model.TaxCalculation, 0, len(revenue))

	for _, r := range revenue {
		key := fmt.Sprintf("%s|%s|%s", r.Project, r.Date.Format("2006-01-02"), r.Amount.String())
		occurrence := seen[key]
		seen[key]++

		calc := model.TaxCalculation{
			ID:            idFn(r, occurrence),
			Project:       r.Project,
			RevenueAmount: r.Amount,
			Taxes:         make([]model.TaxAmount, 0, len(names)),
			Total:         decimal.Zero,
		}
		for _, name := range names {
			amount := r.Amount.Mul(rates[name])
			calc.Taxes = append(calc.Taxes, model.TaxAmount{Name: name, Amount: amount})
			calc.Total = calc.Total.Add(amount)
		}
		out = append(out, calc)
	}
	return out
}

// TaxTable lays the calculations out as the tax tab: ID, project, revenue,
// one column per tax and the total.
func TaxTable(calcs []model.TaxCalculation, params []model.TaxParameter, cols model.TaxTableColumns) model.Table {
	names := TaxNames(params)

	header := make([]string, 0, len(names)+4)
	header = append(header, cols.ID, cols.Project, cols.RevenueAmount)
	header = append(header, names...)
	header = append(header, cols.Total)

	rows := make([][]any, 0, len(calcs))
	for _, c := range calcs {
		row := make([]any, 0, len(header))
		row = append(row, c.ID, c.Project, cell(c.RevenueAmount))
		for _, name := range names {
			amount, _ := c.Amount(name)
			row = append(row, cell(amount))
		}
		row = append(row, cell(c.Total))
		rows = append(rows, row)
	}

	return model.Table{Header: header, Rows: rows}
}

// cell converts an amount into a value the workbook stores as a number.
func cell(d decimal.Decimal) any {
	return d.InexactFloat64()
}
