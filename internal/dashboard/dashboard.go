// Package dashboard ties the source workbook to the finance computations. A
// Dashboard is built once per process and shared by every presentation surface.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/opyta/sistema-financeiro/internal/common"
	"github.com/opyta/sistema-financeiro/internal/finance"
	"github.com/opyta/sistema-financeiro/internal/model"
	"github.com/opyta/sistema-financeiro/internal/service"
	"github.com/opyta/sistema-financeiro/internal/sheets"
	"github.com/opyta/sistema-financeiro/internal/upsert"
)

const defaultCacheKey = "default"

// Dashboard memoizes the decoded source tabs per spreadsheet and computes views.
type Dashboard struct {
	workbook     service.Workbook
	logger       *slog.Logger
	now          func() time.Time
	location     *time.Location
	cache        map[string]model.Sources
	writerOpts   []upsert.Option
	layout       sheets.Layout
	mu           sync.RWMutex
	syncOnRender bool
}

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithClock replaces the wall clock used to resolve relative periods.
func WithClock(now func() time.Time) Option {
	return func(d *Dashboard) { d.now = now }
}

// WithLocation sets the time zone in which "today" is evaluated.
func WithLocation(loc *time.Location) Option {
	return func(d *Dashboard) {
		if loc != nil {
			d.location = loc
		}
	}
}

// WithSyncOnRender writes the tax tab every time a view is built.
func WithSyncOnRender(enabled bool) Option {
	return func(d *Dashboard) { d.syncOnRender = enabled }
}

// WithWriterOptions passes options to the tax tab writer.
func WithWriterOptions(opts ...upsert.Option) Option {
	return func(d *Dashboard) { d.writerOpts = append(d.writerOpts, opts...) }
}

// New creates a Dashboard reading from wb with the given layout.
func New(wb service.Workbook, layout sheets.Layout, logger *slog.Logger, opts ...Option) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dashboard{
		workbook: wb,
		layout:   layout,
		logger:   logger,
		now:      time.Now,
		location: time.UTC,
		cache:    make(map[string]model.Sources),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Layout returns the spreadsheet layout the dashboard reads.
func (d *Dashboard) Layout() sheets.Layout {
	return d.layout
}

// Today returns the current calendar date in the dashboard time zone.
func (d *Dashboard) Today() time.Time {
	now := d.now().In(d.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (d *Dashboard) cacheKey() string {
	if id, ok := d.workbook.(service.Identity); ok {
		return id.SpreadsheetID()
	}
	return defaultCacheKey
}

// Sources returns the decoded source tabs, reading them on first use.
func (d *Dashboard) Sources(ctx context.Context) (model.Sources, error) {
	key := d.cacheKey()

	d.mu.RLock()
	src, ok := d.cache[key]
	d.mu.RUnlock()
	if ok {
		return src, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if src, ok := d.cache[key]; ok {
		return src, nil
	}

	start := time.Now()
	src, err := sheets.Load(ctx, d.workbook, d.layout)
	if err != nil {
		return model.Sources{}, fmt.Errorf("failed to load spreadsheet %s: %w", key, err)
	}
	d.cache[key] = src

	d.logger.Info("loaded source tabs",
		"spreadsheet", key,
		"projects", len(src.Projects),
		"revenue", len(src.Revenue),
		"expenses", len(src.Expenses),
		"costs", len(src.Costs),
		"tax_parameters", len(src.TaxParameters),
		"skipped", len(src.Notices),
		"duration", time.Since(start))
	return src, nil
}

// Invalidate drops the cached source tabs so the next call reads them again.
func (d *Dashboard) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()

	clear(d.cache)
	d.logger.Debug("source cache invalidated")
}

// Options lists the selector choices for a client selection.
type Options struct {
	Clients  []string `json:"clients"`
	Projects []string `json:"projects"`
	Periods  []string `json:"periods"`
}

// Options returns the client, project and period choices. Projects depend on client.
func (d *Dashboard) Options(ctx context.Context, client string) (Options, error) {
	src, err := d.Sources(ctx)
	if err != nil {
		return Options{}, err
	}

	periods := make([]string, len(finance.Periods))
	for i, p := range finance.Periods {
		periods[i] = string(p)
	}

	return Options{
		Clients:  append([]string{model.AllSelector}, finance.Clients(src.Projects)...),
		Projects: append([]string{model.AllSelector}, finance.ProjectCodes(src.Projects, client)...),
		Periods:  periods,
	}, nil
}

// Build computes the full view for a filter. Only a failure to read the
// spreadsheet is returned as an error; every other problem becomes a notice.
func (d *Dashboard) Build(ctx context.Context, f finance.Filter) (View, error) {
	src, err := d.Sources(ctx)
	if err != nil {
		return View{}, err
	}

	view := d.compute(src, f)

	if d.syncOnRender && len(view.TaxCalculations) > 0 {
		result, err := d.writeTaxes(ctx, view.taxTable, nil)
		if err != nil {
			d.logger.Error("failed to write tax tab", "error", err)
			view.Notices = append(view.Notices, model.Notice{
				Level:   model.NoticeError,
				Message: fmt.Sprintf("could not write %s: %v", d.layout.TaxCalculations.Tab, err),
			})
		} else {
			view.Sync = &result
		}
	}

	return view, nil
}

// SyncTaxes recomputes the taxes for a filter and upserts them into the tax tab.
func (d *Dashboard) SyncTaxes(ctx context.Context, f finance.Filter, progress service.ProgressFunc) (upsert.Result, error) {
	src, err := d.Sources(ctx)
	if err != nil {
		return upsert.Result{}, err
	}

	filtered, err := finance.Apply(f, src, d.Today())
	if err != nil {
		return upsert.Result{}, common.NewUserError("invalid filter", err)
	}

	calcs := finance.ComputeTaxes(filtered.Revenue, src.TaxParameters, nil)
	table := finance.TaxTable(calcs, src.TaxParameters, d.layout.TaxCalculations)
	return d.writeTaxes(ctx, table, progress)
}

func (d *Dashboard) writeTaxes(ctx context.Context, table model.Table, progress service.ProgressFunc) (upsert.Result, error) {
	opts := d.writerOpts
	if progress != nil {
		opts = append(append([]upsert.Option(nil), opts...), upsert.WithProgress(progress))
	}
	writer := upsert.NewWriter(d.workbook, d.logger, opts...)

	result, err := writer.Upsert(ctx, d.layout.TaxCalculations.Tab, table)
	if result.Written() > 0 || result.HeaderWritten {
		// the tab changed, even if only partially
		d.Invalidate()
	}
	return result, err
}

// compute runs the pure part of Build on already loaded sources.
func (d *Dashboard) compute(src model.Sources, f finance.Filter) View {
	today := d.Today()
	view := View{
		Filter:      f,
		Today:       today,
		GeneratedAt: d.now(),
	}
	view.Notices = append(view.Notices, src.Notices...)

	filtered, err := finance.Apply(f, src, today)
	if err != nil {
		var rangeErr *common.InvalidRangeError
		if !errors.As(err, &rangeErr) {
			d.logger.Warn("filter failed", "error", err)
		}
		view.Notices = append(view.Notices, model.Notice{
			Level:   model.NoticeError,
			Message: fmt.Sprintf("period filter ignored: %v", err),
		})
		unbounded := f
		unbounded.Period = ""
		filtered, _ = finance.Apply(unbounded, src, today)
	}
	view.Window = filtered.Window

	view.Totals = finance.ComputeTotals(filtered.Revenue, filtered.Expenses, src.Costs)
	view.Series = finance.TimeSeries(filtered.Revenue, filtered.Expenses)
	view.Costs = finance.CostsByCategory(src.Costs)

	alerts, notices := finance.EvaluateAlerts(src.Projects, filtered.Revenue, filtered.Expenses)
	view.Alerts = alerts
	view.Notices = append(view.Notices, notices...)

	view.TaxCalculations = finance.ComputeTaxes(filtered.Revenue, src.TaxParameters, nil)
	view.taxTable = finance.TaxTable(view.TaxCalculations, src.TaxParameters, d.layout.TaxCalculations)
	view.Taxes = NewGrid(view.taxTable)

	view.Revenue = revenueRows(filtered.Revenue)
	view.Expenses = expenseRows(filtered.Expenses)

	return view
}
