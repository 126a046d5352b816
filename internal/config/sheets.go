package config

import (
	"os"

	"github.com/Veraticus/grocer/internal/sheets"
)

// SheetsWriterConfig converts the sheets section into a writer config.
// Direct GOOGLE_SHEETS_* environment variables fill any gaps.
func (c *Config) SheetsWriterConfig() (*sheets.Config, error) {
	out := sheets.DefaultConfig()

	s := c.Sheets
	out.ClientID = firstNonEmpty(s.ClientID, os.Getenv("GOOGLE_SHEETS_CLIENT_ID"))
	out.ClientSecret = firstNonEmpty(s.ClientSecret, os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET"))
	out.RefreshToken = firstNonEmpty(s.RefreshToken, os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN"))
	out.ServiceAccountPath = ExpandPath(firstNonEmpty(s.ServiceAccountPath, os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH")))
	out.SpreadsheetID = firstNonEmpty(s.SpreadsheetID, os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"))
	out.SpreadsheetName = firstNonEmpty(s.SpreadsheetName, os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME"), out.SpreadsheetName)

	if s.BatchSize > 0 {
		out.BatchSize = s.BatchSize
	}
	if s.RetryAttempts > 0 {
		out.RetryAttempts = s.RetryAttempts
	}
	if s.RetryDelay > 0 {
		out.RetryDelay = s.RetryDelay
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
