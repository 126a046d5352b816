// Package config loads grocer settings from viper into typed sections.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/grocer/internal/common"
	"github.com/Veraticus/grocer/internal/model"
	"github.com/spf13/viper"
)

// Config is the typed view of everything viper knows about.
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Server     ServerConfig     `mapstructure:"server"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Embeddings EmbeddingsConfig `mapstructure:"embeddings"`
	Sheets     SheetsConfig     `mapstructure:"sheets"`
	Units      UnitsConfig      `mapstructure:"units"`
}

// DatabaseConfig locates the shopping list database.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// UnitsConfig controls how bare unit names are resolved.
type UnitsConfig struct {
	Priority []string `mapstructure:"priority"`
}

// LLMConfig configures ingredient extraction with a language model.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	BaseURL     string        `mapstructure:"base_url"`
	MaxRetries  int           `mapstructure:"max_retries"`
	RetryDelay  time.Duration `mapstructure:"retry_delay"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
	RateLimit   int           `mapstructure:"rate_limit"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
}

// EmbeddingsConfig configures the embedding model and its store.
type EmbeddingsConfig struct {
	Provider   string `mapstructure:"provider"`
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	BaseURL    string `mapstructure:"base_url"`
	Driver     string `mapstructure:"driver"`
	DSN        string `mapstructure:"dsn"`
	Dimensions int    `mapstructure:"dimensions"`
	AutoSave   bool   `mapstructure:"auto_save"`
}

// SheetsConfig holds Google Sheets export settings.
type SheetsConfig struct {
	ClientID           string        `mapstructure:"client_id"`
	ClientSecret       string        `mapstructure:"client_secret"`
	RefreshToken       string        `mapstructure:"refresh_token"`
	ServiceAccountPath string        `mapstructure:"service_account_path"`
	SpreadsheetID      string        `mapstructure:"spreadsheet_id"`
	SpreadsheetName    string        `mapstructure:"spreadsheet_name"`
	BatchSize          int           `mapstructure:"batch_size"`
	RetryAttempts      int           `mapstructure:"retry_attempts"`
	RetryDelay         time.Duration `mapstructure:"retry_delay"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SetDefaults registers every key so environment variables are picked up
// by Unmarshal even when no config file mentions them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "~/.local/share/grocer/grocer.db")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("units.priority", []string{"volume", "mass", "count"})

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay", "1s")
	v.SetDefault("llm.cache_ttl", "15m")
	v.SetDefault("llm.rate_limit", 60)
	v.SetDefault("llm.temperature", 0.0)
	v.SetDefault("llm.max_tokens", 1024)

	v.SetDefault("embeddings.provider", "hash")
	v.SetDefault("embeddings.api_key", "")
	v.SetDefault("embeddings.model", "")
	v.SetDefault("embeddings.base_url", "")
	v.SetDefault("embeddings.driver", "sqlite3")
	v.SetDefault("embeddings.dsn", "")
	v.SetDefault("embeddings.dimensions", 256)
	v.SetDefault("embeddings.auto_save", true)

	v.SetDefault("sheets.client_id", "")
	v.SetDefault("sheets.client_secret", "")
	v.SetDefault("sheets.refresh_token", "")
	v.SetDefault("sheets.service_account_path", "")
	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.spreadsheet_name", "Shopping List")
	v.SetDefault("sheets.batch_size", 1000)
	v.SetDefault("sheets.retry_attempts", 3)
	v.SetDefault("sheets.retry_delay", "1s")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
}

// Load applies defaults to v and decodes it. Paths are expanded.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	cfg.Database.Path = ExpandPath(cfg.Database.Path)
	cfg.Sheets.ServiceAccountPath = ExpandPath(cfg.Sheets.ServiceAccountPath)
	if cfg.Embeddings.Driver == "sqlite3" {
		cfg.Embeddings.DSN = ExpandPath(cfg.Embeddings.DSN)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that would fail later in a less obvious place.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is empty", common.ErrInvalidConfig)
	}

	if _, err := c.Units.Kinds(); err != nil {
		return err
	}

	switch strings.ToLower(c.Logging.Format) {
	case "console", "text", "json":
	default:
		return fmt.Errorf("%w: logging.format %q", common.ErrInvalidConfig, c.Logging.Format)
	}

	switch c.Embeddings.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("%w: embeddings.driver %q", common.ErrInvalidConfig, c.Embeddings.Driver)
	}
	if c.Embeddings.Driver == "postgres" && c.Embeddings.DSN == "" {
		return fmt.Errorf("%w: embeddings.dsn is required for postgres", common.ErrMissingConfig)
	}
	if c.Embeddings.Dimensions <= 0 {
		return fmt.Errorf("%w: embeddings.dimensions must be positive", common.ErrInvalidConfig)
	}

	if c.LLM.MaxRetries < 0 || c.LLM.RateLimit < 0 {
		return fmt.Errorf("%w: llm.max_retries and llm.rate_limit cannot be negative", common.ErrInvalidConfig)
	}

	return nil
}

// Kinds parses the configured resolution priority.
func (u UnitsConfig) Kinds() ([]model.UnitKind, error) {
	kinds := make([]model.UnitKind, 0, len(u.Priority))
	for _, label := range u.Priority {
		kind, err := model.ParseUnitKind(label)
		if err != nil {
			return nil, fmt.Errorf("%w: units.priority: %w", common.ErrInvalidConfig, err)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// EmbeddingsDSN returns the store location, defaulting to the main database.
func (c *Config) EmbeddingsDSN() string {
	if c.Embeddings.DSN != "" {
		return c.Embeddings.DSN
	}
	return c.Database.Path
}

// Taxonomy builds the unit taxonomy with the configured priority.
func (c *Config) Taxonomy() (*model.Taxonomy, error) {
	kinds, err := c.Units.Kinds()
	if err != nil {
		return nil, err
	}
	return model.NewTaxonomy(model.VolumeTable(), model.MassTable(), kinds...)
}
