package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crash-data-audit/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, ":memory:", cfg.Store.DSN)
	assert.Equal(t, "output", cfg.Output.Dir)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout.Duration())
	assert.Equal(t, 3, cfg.Ingest.Retries)
	assert.Equal(t, model.DefaultContract().WithDefaults(), cfg.Contract())
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
audit:
  key_column: Case ID
  key_fields: [Case ID, Crash Date/Time]
  parallel: true
  timezone: UTC
insights:
  category_column: Borough
server:
  addr: ":9000"
  shutdown_timeout: 3s
log:
  level: debug
  format: console
ingest:
  retries: 5
  retry_delay: 250ms
`)
	t.Setenv("CRASHAUDIT_SERVER_ADDR", ":9100")
	t.Setenv("CRASHAUDIT_AUDIT_LATITUDE_COLUMN", "Lat")
	t.Setenv("CRASHAUDIT_STORE_DSN", "file:logs.db")
	t.Setenv("CRASHAUDIT_SERVER_CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.Server.Addr, "environment overrides the file")
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout.Duration())
	assert.Equal(t, "file:logs.db", cfg.Store.DSN)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.Audit.Parallel)
	assert.Equal(t, "debug", cfg.Log.Level)

	c := cfg.Contract()
	assert.Equal(t, "Case ID", c.ReportIDColumn)
	assert.Equal(t, "Lat", c.LatitudeColumn)
	assert.Equal(t, "Borough", c.CategoryColumn)
	assert.Equal(t, []string{"Case ID", "Crash Date/Time"}, c.KeyFields)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	r := cfg.Retry()
	assert.Equal(t, 5, r.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, r.InitialDelay)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad level", "log:\n  level: loud\n", "unknown log level"},
		{"bad format", "log:\n  format: xml\n", "unknown log format"},
		{"bad timezone", "audit:\n  timezone: Mars/Olympus\n", "audit.timezone"},
		{"negative retries", "ingest:\n  retries: -1\n", "ingest.retries"},
		{"blank key field", "audit:\n  key_fields: [\"Report Number\", \" \"]\n", "audit.key_fields[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "audit.key_column", envKey("CRASHAUDIT_AUDIT_KEY_COLUMN"))
	assert.Equal(t, "server.addr", envKey("CRASHAUDIT_SERVER_ADDR"))
	assert.Equal(t, "debug", envKey("CRASHAUDIT_DEBUG"))
}

func TestValidateBlankColumn(t *testing.T) {
	cfg := Default()
	cfg.Audit.KeyColumn = "  "
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audit.key_column")
}
