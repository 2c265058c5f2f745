package main

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/opyta/sistema-financeiro/internal/cli"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the dashboard in the terminal",
		Long: `Print the dashboard in the terminal. Like the web dashboard, it upserts the
computed taxes into the tax calculation tab unless dashboard.sync_on_render
is false.`,
		Example: `  opyta report --period "Last Month"
  opyta report --client Acme --period Custom --start 2024-01-01 --end 2024-03-31
  opyta report --json`,
		RunE: runReport,
	}

	addFilterFlags(cmd)
	cmd.Flags().Bool("json", false, "print the view as JSON")

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}

	dash, _, closeWorkbook, err := newDashboard(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeWorkbook(); err != nil {
			slog.Warn("Failed to close workbook", "error", err)
		}
	}()

	view, err := dash.Build(ctx, filter)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	return cli.RenderReport(os.Stdout, view)
}
