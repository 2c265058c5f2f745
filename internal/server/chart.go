package server

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/opyta/sistema-financeiro/internal/finance"
	"github.com/shopspring/decimal"
)

// Chart colors shared with the alert boxes.
const (
	revenueColor = "#87A96B"
	expenseColor = "#FF4B4B"
)

var slicePalette = []string{"#4E79A7", "#F28E2B", "#E15759", "#76B7B2", "#59A14F", "#EDC948", "#B07AA1", "#FF9DA7", "#9C755F", "#BAB0AC"}

const (
	chartWidth   = 800
	chartHeight  = 260
	chartPadding = 40
)

// areaChart is the SVG geometry of the revenue vs expense chart.
type areaChart struct {
	Revenue string
	Expense string
	Labels  []axisLabel
	Width   int
	Height  int
	Top     string
}

type axisLabel struct {
	Text string
	X    float64
}

// buildAreaChart lays the series out on a date axis. Amounts below zero are
// drawn on the baseline.
func buildAreaChart(series []finance.SeriesPoint) areaChart {
	chart := areaChart{Width: chartWidth, Height: chartHeight}
	if len(series) == 0 {
		return chart
	}

	top := decimal.Zero
	for _, p := range series {
		top = decimal.Max(top, p.Revenue, p.Expense)
	}
	if !top.IsPositive() {
		top = decimal.NewFromInt(1)
	}
	chart.Top = top.StringFixed(2)

	first, last := series[0].Date, series[len(series)-1].Date
	span := last.Sub(first).Hours()
	plotW := float64(chartWidth - 2*chartPadding)
	plotH := float64(chartHeight - 2*chartPadding)
	baseline := float64(chartHeight - chartPadding)

	x := func(i int) float64 {
		if span <= 0 {
			return chartPadding + plotW/2
		}
		return chartPadding + series[i].Date.Sub(first).Hours()/span*plotW
	}
	y := func(v decimal.Decimal) float64 {
		if v.IsNegative() {
			return baseline
		}
		return baseline - v.Div(top).InexactFloat64()*plotH
	}

	var revenue, expense strings.Builder
	fmt.Fprintf(&revenue, "%.1f,%.1f", x(0), baseline)
	fmt.Fprintf(&expense, "%.1f,%.1f", x(0), baseline)
	for i, p := range series {
		fmt.Fprintf(&revenue, " %.1f,%.1f", x(i), y(p.Revenue))
		fmt.Fprintf(&expense, " %.1f,%.1f", x(i), y(p.Expense))
	}
	fmt.Fprintf(&revenue, " %.1f,%.1f", x(len(series)-1), baseline)
	fmt.Fprintf(&expense, " %.1f,%.1f", x(len(series)-1), baseline)

	chart.Revenue = revenue.String()
	chart.Expense = expense.String()
	chart.Labels = []axisLabel{{Text: first.Format("02/01/2006"), X: x(0)}}
	if len(series) > 1 {
		chart.Labels = append(chart.Labels, axisLabel{Text: last.Format("02/01/2006"), X: x(len(series) - 1)})
	}
	return chart
}

// pieGradient renders the cost breakdown as a CSS conic gradient.
func pieGradient(shares []finance.CategoryShare) template.CSS {
	if len(shares) == 0 {
		return template.CSS("background: #eee")
	}

	var b strings.Builder
	b.WriteString("background: conic-gradient(")
	start := 0.0
	for i, s := range shares {
		end := start + s.Percent.InexactFloat64()
		if i == len(shares)-1 {
			end = 100
		}
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s %.2f%% %.2f%%", sliceColor(i), start, end)
		start = end
	}
	b.WriteString(")")
	return template.CSS(b.String()) // #nosec G203 -- built from numbers and palette constants
}

func sliceColor(i int) string {
	return slicePalette[i%len(slicePalette)]
}
