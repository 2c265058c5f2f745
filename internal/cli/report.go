package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/opyta/sistema-financeiro/internal/dashboard"
	"github.com/opyta/sistema-financeiro/internal/model"
	"github.com/opyta/sistema-financeiro/internal/money"
	"github.com/shopspring/decimal"
)

const costBarWidth = 30

var headerCellStyle = lipgloss.NewStyle().Bold(true).PaddingRight(2)

// RenderReport writes a styled terminal version of the dashboard view.
func RenderReport(w io.Writer, v dashboard.View) error {
	sections := []string{
		TitleStyle.Render("Sistema Financeiro Simplificado - Opyta"),
		period(v),
		metrics(v),
	}

	if notes := notices(v); notes != "" {
		sections = append(sections, notes)
	}

	sections = append(sections,
		FormatTitle(ChartIcon, "Evolução de Receitas e Despesas"),
		series(v),
		FormatTitle(TableIcon, "Receitas Detalhadas"),
		movements(v.Revenue, "Valor Recebido", "Data Recebimento"),
		FormatTitle(TableIcon, "Despesas Detalhadas"),
		movements(v.Expenses, "Valor Pago", "Data Pagamento"),
		FormatTitle(AlertIcon, "Alertas"),
		alerts(v),
		FormatTitle(CostIcon, "Custos por Categoria"),
		costs(v),
		FormatTitle("", "Impostos Calculados"),
		taxes(v.Taxes),
	)

	_, err := fmt.Fprintln(w, strings.Join(sections, "\n"))
	return err
}

func period(v dashboard.View) string {
	if v.Window == nil {
		return SubtitleStyle.Render("Período: todos os lançamentos")
	}
	return SubtitleStyle.Render(fmt.Sprintf("Período: %s a %s",
		v.Window.Start.Format("02/01/2006"), v.Window.End.Format("02/01/2006")))
}

func metrics(v dashboard.View) string {
	box := func(label, value string) string {
		return MetricStyle.Render(SubtitleStyle.Render(label) + "\n" + lipgloss.NewStyle().Bold(true).Render(value))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		box("Receita Total", money.BRL(v.Totals.Revenue)),
		box("Despesa Total", money.BRL(v.Totals.Expense)),
		box("Custos Fixos/Var.", money.BRL(v.Totals.Cost)),
		box("Lucro Total", money.BRL(v.Totals.Profit)),
		box("Fluxo de Caixa", money.BRL(v.Totals.CashFlow)),
	)
}

func notices(v dashboard.View) string {
	lines := make([]string, 0, len(v.Notices)+1)
	for _, n := range v.Notices {
		switch n.Level {
		case model.NoticeError:
			lines = append(lines, FormatError(n.Message))
		case model.NoticeWarning:
			lines = append(lines, FormatWarning(n.Message))
		default:
			lines = append(lines, FormatInfo(n.Message))
		}
	}
	if v.Sync != nil {
		lines = append(lines, FormatSuccess(fmt.Sprintf("%s: %d atualizadas, %d adicionadas",
			v.Sync.Table, v.Sync.Updated, v.Sync.Appended)))
	}
	return strings.Join(lines, "\n")
}

func series(v dashboard.View) string {
	if !v.HasSeries() {
		return FormatInfo("Sem dados suficientes para o gráfico de evolução.")
	}

	t := newTable("Data", "Receita", "Despesa")
	for _, p := range v.Series {
		t.Row(p.Date.Format("02/01/2006"), money.BRL(p.Revenue), money.BRL(p.Expense))
	}
	return t.String()
}

func movements(rows []dashboard.Movement, amountHeader, dateHeader string) string {
	t := newTable("Projeto", amountHeader, dateHeader)
	for _, m := range rows {
		t.Row(m.Project, money.BRL(m.Amount), m.Date.Format("02/01/2006"))
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerCellStyle
		}
		if col == 1 && row >= 0 && row < len(rows) {
			switch {
			case rows[row].Negative:
				return TableCellStyle.Foreground(ErrorColor)
			case rows[row].Highlight:
				return TableCellStyle.Inherit(HighlightStyle)
			}
		}
		return TableCellStyle
	})
	return t.String()
}

func alerts(v dashboard.View) string {
	if len(v.Alerts) == 0 {
		return SubtitleStyle.Render("Nenhum projeto com meta e orçamento.")
	}

	boxes := make([]string, 0, len(v.Alerts))
	for _, a := range v.Alerts {
		boxes = append(boxes, AlertStyle.
			Background(lipgloss.Color(a.Color)).
			Render(fmt.Sprintf("%s\nGasto: %s", a.Project, money.Percent(a.SpentRatio))))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func costs(v dashboard.View) string {
	if len(v.Costs) == 0 {
		return SubtitleStyle.Render("Nenhum custo lançado.")
	}

	lines := make([]string, 0, len(v.Costs))
	for _, c := range v.Costs {
		width := int(c.Percent.InexactFloat64() / 100 * costBarWidth)
		bar := InfoStyle.Render(strings.Repeat("█", width)) + strings.Repeat(" ", costBarWidth-width)
		lines = append(lines, fmt.Sprintf("%-20s %s %s (%s)", c.Category, bar, money.BRL(c.Amount), money.Percent(c.Percent)))
	}
	return strings.Join(lines, "\n")
}

func taxes(g dashboard.Grid) string {
	if len(g.Rows) == 0 {
		return SubtitleStyle.Render("Nenhuma receita no período.")
	}

	t := newTable(g.Columns...)
	for _, row := range g.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = taxCell(v)
		}
		t.Row(cells...)
	}
	return t.String()
}

func taxCell(v any) string {
	if f, ok := v.(float64); ok {
		return money.Number(decimal.NewFromFloat(f))
	}
	return model.CellString(v)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(SubtleColor)).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCellStyle
			}
			return TableCellStyle
		})
}
