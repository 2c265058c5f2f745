package server

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/opyta/sistema-financeiro/internal/model"
	"github.com/opyta/sistema-financeiro/internal/money"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFiles embed.FS

type pages struct {
	index *template.Template
}

var templateFuncs = template.FuncMap{
	"brl":        money.BRL,
	"percent":    money.Percent,
	"date":       func(t time.Time) string { return t.Format("02/01/2006") },
	"dateInput":  dateInput,
	"cell":       cell,
	"areaChart":  buildAreaChart,
	"pie":        pieGradient,
	"sliceColor": sliceColor,
	"revenueColor": func() string {
		return revenueColor
	},
	"expenseColor": func() string {
		return expenseColor
	},
}

func mustParsePages() *pages {
	index := template.Must(template.New("dashboard.html").Funcs(templateFuncs).ParseFS(templateFiles, "templates/dashboard.html"))
	return &pages{index: index}
}

// render executes the page into a buffer first so a template error never
// produces a half-written response.
func (p *pages) render(w http.ResponseWriter, status int, data indexPage, logger *slog.Logger) {
	var buf bytes.Buffer
	if err := p.index.Execute(&buf, data); err != nil {
		logger.Error("failed to render dashboard", "error", err)
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("failed to write dashboard", "error", err)
	}
}

func dateInput(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

// cell formats a tax tab cell: amounts in pt-BR, everything else as text.
func cell(v any) string {
	switch val := v.(type) {
	case float64:
		return money.Number(decimal.NewFromFloat(val))
	case decimal.Decimal:
		return money.Number(val)
	default:
		return model.CellString(v)
	}
}
