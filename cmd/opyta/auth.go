package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/opyta/sistema-financeiro/internal/config"
	"github.com/opyta/sistema-financeiro/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
	}

	cmd.AddCommand(authSheetsCmd())

	return cmd
}

func authSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Authorize access to the finance spreadsheet",
		Long: `Run the Google OAuth2 flow in the browser and save the resulting token.

Later commands pick the refresh token up from the token file when
sheets.refresh_token is not configured.`,
		RunE: runAuthSheets,
	}

	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")
	cmd.Flags().String("callback", sheets.DefaultCallbackAddr, "address the local callback server listens on")

	return cmd
}

func runAuthSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	clientID := viper.GetString("sheets.client_id")
	clientSecret := viper.GetString("sheets.client_secret")

	if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
		clientID = flagID
	}
	if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
		clientSecret = flagSecret
	}

	if clientID == "" {
		clientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if clientSecret == "" {
		clientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}

	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("OAuth2 credentials not found. Please set sheets.client_id and sheets.client_secret in config or use --client-id and --client-secret flags")
	}

	app, err := config.LoadApp(viper.GetViper())
	if err != nil {
		return err
	}
	callback, _ := cmd.Flags().GetString("callback")

	slog.Info("Starting Google Sheets authentication", "token_file", app.TokenFile)

	token, err := sheets.AuthenticateOAuth2Interactive(ctx, sheets.OAuth2Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    app.TokenFile,
		CallbackAddr: callback,
	})
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	if token.RefreshToken == "" {
		slog.Warn("Google did not return a refresh token; revoke the app's access and try again")
	}

	slog.Info("✅ Authentication successful!")
	slog.Info("Run 'opyta serve' to open the dashboard.")

	return nil
}
