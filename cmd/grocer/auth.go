package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/Veraticus/grocer/internal/cli"
	"github.com/Veraticus/grocer/internal/common"
	"github.com/Veraticus/grocer/internal/sheets"
	"github.com/spf13/cobra"
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
		Short: "Authorize grocer to write to Google Sheets",
		Long: `Run the Google OAuth2 consent flow in your browser and store the resulting
token. The client ID and secret come from sheets.client_id and
sheets.client_secret (or GOOGLE_SHEETS_CLIENT_ID / GOOGLE_SHEETS_CLIENT_SECRET).`,
		Args: cobra.NoArgs,
		RunE: runAuthSheets,
	}

	cmd.Flags().String("token-file", "", "Where to store the token (default: $HOME/.config/grocer/sheets-token.json)")
	cmd.Flags().String("listen", "localhost:8085", "Address for the OAuth2 callback")
	cmd.Flags().Duration("timeout", 5*time.Minute, "How long to wait for consent")

	return cmd
}

func runAuthSheets(cmd *cobra.Command, _ []string) error {
	tokenFile, _ := cmd.Flags().GetString("token-file")
	listen, _ := cmd.Flags().GetString("listen")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	clientID := firstSet(cfg.Sheets.ClientID, os.Getenv("GOOGLE_SHEETS_CLIENT_ID"))
	clientSecret := firstSet(cfg.Sheets.ClientSecret, os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET"))
	if clientID == "" || clientSecret == "" {
		return common.NewUserError("Set sheets.client_id and sheets.client_secret first", common.ErrMissingConfig)
	}

	if tokenFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		tokenFile = filepath.Join(home, ".config", "grocer", "sheets-token.json")
	}

	out := cmd.OutOrStdout()
	token, err := sheets.GetOrCreateToken(cmd.Context(), sheets.OAuth2Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    tokenFile,
		ListenAddr:   listen,
		Timeout:      timeout,
	}, func(url string) {
		fmt.Fprintln(out, cli.FormatInfo("Opening your browser to authorize Google Sheets access."))
		fmt.Fprintln(out, "If it does not open, visit:\n  "+url)
		openBrowser(url)
	})
	if err != nil {
		return fmt.Errorf("google sheets authorization failed: %w", err)
	}

	fmt.Fprintln(out, cli.FormatSuccess("Token saved to "+tokenFile))
	if token.RefreshToken != "" {
		fmt.Fprintln(out, cli.RenderBox("Add to your config",
			"sheets:\n  refresh_token: "+token.RefreshToken))
	}
	return nil
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func openBrowser(url string) {
	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start() //nolint:gosec
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start() //nolint:gosec
	case "darwin":
		err = exec.Command("open", url).Start() //nolint:gosec
	}
	if err != nil {
		slog.Debug("Failed to open browser", "error", err)
	}
}
