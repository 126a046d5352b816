package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Veraticus/grocer/internal/cli"
	"github.com/Veraticus/grocer/internal/common"
	"github.com/Veraticus/grocer/internal/export"
	"github.com/Veraticus/grocer/internal/service"
	"github.com/Veraticus/grocer/internal/sheets"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the combined shopping list",
		Long: `Export the combined shopping list as CSV, JSON or plain text, or write it
to a Google Sheets spreadsheet with --sheets.`,
		Example: `  grocer export --format csv --output list.csv
  grocer export --sheets`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	cmd.Flags().StringP("format", "f", "text", "Output format (csv, json, text)")
	cmd.Flags().StringP("output", "o", "", "Output file (default: standard output)")
	cmd.Flags().Bool("sheets", false, "Write to Google Sheets instead of a file")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	formatName, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	toSheets, _ := cmd.Flags().GetBool("sheets")

	format, err := export.ParseFormat(formatName)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("Unknown format %q", formatName), err)
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if toSheets {
		sheetsCfg, err := a.cfg.SheetsWriterConfig()
		if err != nil {
			return common.NewUserError("Google Sheets is not configured; run 'grocer auth sheets' first", err)
		}
		writer, err := sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
		if err != nil {
			return err
		}
		if err := writeReport(cmd, writer, a); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Shopping list written to "+sheetsCfg.SpreadsheetName))
		return nil
	}

	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output) //nolint:gosec // user-supplied path is the point
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				slog.Warn("Failed to close export file", "error", err)
			}
		}()
		w = f
	}

	if err := export.Write(w, a.list, format); err != nil {
		return conflictError(err)
	}
	if output != "" {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Wrote "+output))
	}
	return nil
}

// writeReport sends the combined rows to any report writer.
func writeReport(cmd *cobra.Command, writer service.ReportWriter, a *app) error {
	rows, err := a.list.Rows()
	if err != nil {
		return conflictError(err)
	}
	summary := service.ReportSummary{
		GeneratedAt:     time.Now(),
		Recipes:         a.list.Recipes(),
		IngredientCount: len(rows),
	}
	return writer.Write(cmd.Context(), rows, summary)
}
