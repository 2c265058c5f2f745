package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/opyta/sistema-financeiro/internal/config"
	"github.com/opyta/sistema-financeiro/internal/dashboard"
	"github.com/opyta/sistema-financeiro/internal/finance"
	"github.com/opyta/sistema-financeiro/internal/model"
	"github.com/opyta/sistema-financeiro/internal/service"
	"github.com/opyta/sistema-financeiro/internal/sheets"
	"github.com/opyta/sistema-financeiro/internal/storage"
	"github.com/opyta/sistema-financeiro/internal/upsert"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// openWorkbook connects to the configured backend. The returned function
// releases it.
func openWorkbook(ctx context.Context, app config.App) (service.Workbook, func() error, error) {
	switch app.Backend {
	case config.BackendSQLite:
		wb, err := storage.Open(ctx, app.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open workbook %s: %w", app.SQLitePath, err)
		}
		slog.Debug("Using SQLite workbook", "path", app.SQLitePath)
		return wb, wb.Close, nil

	default:
		sheetsConfig, err := config.LoadSheetsConfig(viper.GetViper())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load Google Sheets config: %w", err)
		}
		client, err := sheets.NewClient(ctx, *sheetsConfig, slog.Default())
		if err != nil {
			return nil, nil, err
		}
		slog.Debug("Using Google Sheets", "spreadsheet_id", sheetsConfig.SpreadsheetID)
		return client, func() error { return nil }, nil
	}
}

// newDashboard builds the process-wide dashboard from configuration.
func newDashboard(ctx context.Context) (*dashboard.Dashboard, config.App, func() error, error) {
	v := viper.GetViper()

	app, err := config.LoadApp(v)
	if err != nil {
		return nil, config.App{}, nil, err
	}
	layout, err := config.LoadLayout(v)
	if err != nil {
		return nil, config.App{}, nil, err
	}

	wb, closeFn, err := openWorkbook(ctx, app)
	if err != nil {
		return nil, config.App{}, nil, err
	}

	dash := dashboard.New(wb, layout, slog.Default(),
		dashboard.WithLocation(app.Timezone),
		dashboard.WithSyncOnRender(app.SyncOnRender),
		dashboard.WithWriterOptions(upsert.WithFormatting(v.GetBool("sheets.enable_formatting"))),
	)
	return dash, app, closeFn, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("client", model.AllSelector, "client to show (All for every client)")
	cmd.Flags().String("project", model.AllSelector, "project code to show (All for every project)")
	cmd.Flags().String("period", string(finance.DefaultPeriod),
		`period: "This Month", "Last Month", "This Year", "Last Year" or "Custom"`)
	cmd.Flags().String("start", "", "start date of a custom period (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "end date of a custom period (YYYY-MM-DD)")
}

func filterFromFlags(cmd *cobra.Command) (finance.Filter, error) {
	client, _ := cmd.Flags().GetString("client")
	project, _ := cmd.Flags().GetString("project")
	period, _ := cmd.Flags().GetString("period")

	f := finance.Filter{
		Client:  strings.TrimSpace(client),
		Project: strings.TrimSpace(project),
		Period:  finance.ParsePeriod(period),
	}
	if !f.Period.Known() {
		slog.Warn("Unknown period, showing every entry", "period", period)
	}

	for _, name := range []string{"start", "end"} {
		raw, _ := cmd.Flags().GetString(name)
		if raw == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return finance.Filter{}, fmt.Errorf("invalid --%s %q: expected YYYY-MM-DD", name, raw)
		}
		if name == "start" {
			f.Start = &t
		} else {
			f.End = &t
		}
	}

	return f, nil
}
