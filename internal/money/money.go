// Package money formats amounts the way the Opyta team reads them: Brazilian
// reais with pt-BR digit grouping.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// BRL formats an amount as "R$ 1.234,56". Negative amounts carry a leading minus.
func BRL(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + "R$ " + printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// Percent formats a percentage value such as 85.5 as "85,50%".
func Percent(d decimal.Decimal) string {
	return printer.Sprintf("%.2f", d.Round(2).InexactFloat64()) + "%"
}

// Number formats a plain amount with two decimals and pt-BR grouping.
func Number(d decimal.Decimal) string {
	return printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}
