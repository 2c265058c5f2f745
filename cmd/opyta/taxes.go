package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/opyta/sistema-financeiro/internal/cli"
	"github.com/spf13/cobra"
)

func taxesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxes",
		Short: "Compute and store per-revenue taxes",
	}

	cmd.AddCommand(taxesSyncCmd())

	return cmd
}

func taxesSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Write the computed taxes to the tax calculation tab",
		Long: `Compute taxes for every revenue entry in the selected period and upsert
them into the tax calculation tab by ID. Rows with an existing ID are
updated in place, new ones are appended. Running it twice is harmless.`,
		RunE: runTaxesSync,
	}

	addFilterFlags(cmd)
	cmd.Flags().Bool("no-progress", false, "disable the progress bar")

	return cmd
}

func runTaxesSync(cmd *cobra.Command, _ []string) error {
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

	progress := cli.NewSyncProgress(os.Stderr, "Gravando impostos")
	reporter := progress.Func()
	if noProgress, _ := cmd.Flags().GetBool("no-progress"); noProgress {
		reporter = nil
	}

	result, err := dash.SyncTaxes(ctx, filter, reporter)
	if err != nil {
		return err
	}

	if result.Written() == 0 {
		fmt.Println(cli.FormatInfo("Nenhuma receita no período; nada a gravar."))
		return nil
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("%s: %d atualizadas, %d adicionadas",
		result.Table, result.Updated, result.Appended)))
	return nil
}
