package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/grocer/internal/common"
	"github.com/Veraticus/grocer/internal/model"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 15*time.Minute, cfg.LLM.CacheTTL)
	assert.Equal(t, time.Second, cfg.LLM.RetryDelay)
	assert.Equal(t, "sqlite3", cfg.Embeddings.Driver)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.NotContains(t, cfg.Database.Path, "~")
	assert.Equal(t, cfg.Database.Path, cfg.EmbeddingsDSN())

	kinds, err := cfg.Units.Kinds()
	require.NoError(t, err)
	assert.Equal(t, model.Kinds, kinds)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: `+filepath.Join(dir, "list.db")+`
units:
  priority: [mass, volume]
llm:
  provider: openai
  cache_ttl: 2m
embeddings:
  dsn: `+filepath.Join(dir, "vectors.db")+`
  dimensions: 64
`), 0o600))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 2*time.Minute, cfg.LLM.CacheTTL)
	assert.Equal(t, 64, cfg.Embeddings.Dimensions)
	assert.Equal(t, filepath.Join(dir, "vectors.db"), cfg.EmbeddingsDSN())

	tax, err := cfg.Taxonomy()
	require.NoError(t, err)
	assert.Equal(t, []model.UnitKind{model.KindMass, model.KindVolume, model.KindCount}, tax.Priority())

	u, err := tax.ParseUnit("ounce")
	require.NoError(t, err)
	assert.Equal(t, model.MassOunce, u)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   any
		wantErr error
	}{
		{name: "bad log format", key: "logging.format", value: "xml", wantErr: common.ErrInvalidConfig},
		{name: "bad unit kind", key: "units.priority", value: []string{"length"}, wantErr: common.ErrInvalidConfig},
		{name: "bad driver", key: "embeddings.driver", value: "mysql", wantErr: common.ErrInvalidConfig},
		{name: "postgres without dsn", key: "embeddings.driver", value: "postgres", wantErr: common.ErrMissingConfig},
		{name: "zero dimensions", key: "embeddings.dimensions", value: 0, wantErr: common.ErrInvalidConfig},
		{name: "negative retries", key: "llm.max_retries", value: -1, wantErr: common.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)
			_, err := Load(v)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("GROCER_TEST_DIR", "/srv/grocer")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "lists/a.db"), ExpandPath("~/lists/a.db"))
	assert.Equal(t, "/srv/grocer/a.db", ExpandPath("$GROCER_TEST_DIR/a.db"))
}

func TestSheetsWriterConfig(t *testing.T) {
	for _, key := range []string{"CLIENT_ID", "CLIENT_SECRET", "REFRESH_TOKEN", "SERVICE_ACCOUNT_PATH", "SPREADSHEET_ID", "SPREADSHEET_NAME"} {
		t.Setenv("GOOGLE_SHEETS_"+key, "")
	}

	cfg := &Config{Sheets: SheetsConfig{ServiceAccountPath: "/tmp/sa.json", BatchSize: 50}}
	out, err := cfg.SheetsWriterConfig()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/sa.json", out.ServiceAccountPath)
	assert.Equal(t, 50, out.BatchSize)
	assert.Equal(t, "Shopping List", out.SpreadsheetName)

	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "id")
	t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "secret")
	t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "token")
	out, err = (&Config{}).SheetsWriterConfig()
	require.NoError(t, err)
	assert.Equal(t, "id", out.ClientID)

	_, err = cfg.SheetsWriterConfig()
	require.Error(t, err, "both auth methods configured")
}
