package model

import "github.com/shopspring/decimal"

// TaxParameter is a flat levy applied to revenue. Rate is a fraction (0.05 = 5%).
type TaxParameter struct {
	Name string
	Rate decimal.Decimal
}

// TaxAmount is the computed value of one tax for one revenue row.
type TaxAmount struct {
	Name   string
	Amount decimal.Decimal
}

// TaxTableColumns names the generated tax tab. Tax columns sit between
// RevenueAmount and Total and are named after the parameters.
type TaxTableColumns struct {
	Tab           string `mapstructure:"tab"`
	ID            string `mapstructure:"id"`
	Project       string `mapstructure:"project"`
	RevenueAmount string `mapstructure:"revenue_amount"`
	Total         string `mapstructure:"total"`
}

// TaxCalculation is the tax breakdown of a single revenue row.
type TaxCalculation struct {
	ID            string
	Project       string
	RevenueAmount decimal.Decimal
	Taxes         []TaxAmount
	Total         decimal.Decimal
}

// Amount returns the computed amount for the named tax.
func (c TaxCalculation) Amount(name string) (decimal.Decimal, bool) {
	for _, t := range c.Taxes {
		if t.Name == name {
			return t.Amount, true
		}
	}
	return decimal.Zero, false
}
