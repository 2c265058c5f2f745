package main

import (
	"fmt"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/opyta/sistema-financeiro/internal/cli"
	"github.com/opyta/sistema-financeiro/internal/config"
	"github.com/opyta/sistema-financeiro/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func workbookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workbook",
		Short: "Manage the local SQLite workbook",
		Long: `Manage the SQLite workbook used by the sqlite backend. Tabs are loaded
from and saved to CSV files exported from the finance spreadsheet.`,
	}

	cmd.PersistentFlags().String("db", "", "workbook path (overrides source.sqlite_path)")

	cmd.AddCommand(workbookImportCmd())
	cmd.AddCommand(workbookExportCmd())
	cmd.AddCommand(workbookTabsCmd())

	return cmd
}

func workbookImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Replace a tab with the contents of a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, _ := cmd.Flags().GetString("tab")
			opts, err := csvOptions(cmd)
			if err != nil {
				return err
			}

			wb, err := openSQLiteWorkbook(cmd)
			if err != nil {
				return err
			}
			defer closeSQLite(wb)

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer func() { _ = f.Close() }()

			rows, err := wb.ImportCSV(cmd.Context(), tab, f, opts...)
			if err != nil {
				return fmt.Errorf("failed to import %s: %w", args[0], err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("%s: %d linhas importadas", tab, rows)))
			return nil
		},
	}

	cmd.Flags().String("tab", "", "tab to replace")
	cmd.Flags().String("delimiter", ",", "field delimiter")
	_ = cmd.MarkFlagRequired("tab")

	return cmd
}

func workbookExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a tab as CSV to stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tab, _ := cmd.Flags().GetString("tab")
			opts, err := csvOptions(cmd)
			if err != nil {
				return err
			}

			wb, err := openSQLiteWorkbook(cmd)
			if err != nil {
				return err
			}
			defer closeSQLite(wb)

			return wb.ExportCSV(cmd.Context(), tab, os.Stdout, opts...)
		},
	}

	cmd.Flags().String("tab", "", "tab to export")
	cmd.Flags().String("delimiter", ",", "field delimiter")
	_ = cmd.MarkFlagRequired("tab")

	return cmd
}

func workbookTabsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tabs",
		Short: "List the tabs stored in the workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			wb, err := openSQLiteWorkbook(cmd)
			if err != nil {
				return err
			}
			defer closeSQLite(wb)

			tabs, err := wb.Tabs(cmd.Context())
			if err != nil {
				return err
			}
			if len(tabs) == 0 {
				fmt.Println(cli.FormatInfo("Nenhuma aba no workbook."))
				return nil
			}
			for _, tab := range tabs {
				fmt.Println(tab)
			}
			return nil
		},
	}
}

func openSQLiteWorkbook(cmd *cobra.Command) (*storage.Workbook, error) {
	path := viper.GetString("source.sqlite_path")
	if flagPath, _ := cmd.Flags().GetString("db"); flagPath != "" {
		path = flagPath
	}
	if path == "" {
		return nil, fmt.Errorf("no workbook path: set source.sqlite_path or use --db")
	}
	return storage.Open(cmd.Context(), config.ExpandPath(path))
}

func closeSQLite(wb *storage.Workbook) {
	if err := wb.Close(); err != nil {
		slog.Warn("Failed to close workbook", "error", err)
	}
}

func csvOptions(cmd *cobra.Command) ([]storage.CSVOption, error) {
	delimiter, _ := cmd.Flags().GetString("delimiter")
	if delimiter == "\\t" || delimiter == "tab" {
		delimiter = "\t"
	}
	if utf8.RuneCountInString(delimiter) != 1 {
		return nil, fmt.Errorf("delimiter must be a single character, got %q", delimiter)
	}
	r, _ := utf8.DecodeRuneInString(delimiter)
	return []storage.CSVOption{storage.WithDelimiter(r)}, nil
}
