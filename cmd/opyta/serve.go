package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/opyta/sistema-financeiro/internal/server"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web dashboard",
		Long: `Serve the dashboard over HTTP. Every page load reads the spreadsheet once
per spreadsheet identity; POST /api/cache/invalidate forces a reload.

Every render also upserts the computed taxes into the tax calculation tab.
Row IDs are derived from the revenue entries, so repeated renders update the
same rows. Set dashboard.sync_on_render to false to keep serve read-only.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (overrides server.address)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	dash, app, closeWorkbook, err := newDashboard(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeWorkbook(); err != nil {
			slog.Warn("Failed to close workbook", "error", err)
		}
	}()

	addr := app.ServerAddress
	if flagAddr, _ := cmd.Flags().GetString("addr"); flagAddr != "" {
		addr = flagAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.NewHandler(dash, slog.Default(), version),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("Serving dashboard", "addr", addr, "backend", app.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}
