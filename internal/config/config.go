// Package config loads the service configuration from an optional YAML file,
// a .env file and CRASHAUDIT_* environment variables, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"crash-data-audit/internal/logging"
	"crash-data-audit/internal/model"
	"crash-data-audit/internal/pipeline"
	"crash-data-audit/pkg/utils"
)

// EnvPrefix is stripped from environment variable names. The rest maps
// SECTION_FIELD_NAME to section.field_name.
const EnvPrefix = "CRASHAUDIT_"

type Config struct {
	Audit    AuditConfig    `koanf:"audit"`
	Insights InsightsConfig `koanf:"insights"`
	Server   ServerConfig   `koanf:"server"`
	Store    StoreConfig    `koanf:"store"`
	Output   OutputConfig   `koanf:"output"`
	Log      logging.Config `koanf:"log"`
	Ingest   IngestConfig   `koanf:"ingest"`
}

// AuditConfig names the contract columns and tunes the audit run.
type AuditConfig struct {
	KeyFields       []string `koanf:"key_fields"`
	KeyColumn       string   `koanf:"key_column"`
	TimestampColumn string   `koanf:"timestamp_column"`
	LatitudeColumn  string   `koanf:"latitude_column"`
	LongitudeColumn string   `koanf:"longitude_column"`
	Parallel        bool     `koanf:"parallel"`
	Timezone        string   `koanf:"timezone"` // IANA name, "Local" or "UTC"
}

type InsightsConfig struct {
	CategoryColumn string `koanf:"category_column"`
}

type ServerConfig struct {
	Addr            string   `koanf:"addr"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string `koanf:"cors_origins"`
}

type StoreConfig struct {
	// DSN is a go-sqlite3 data source; ":memory:" keeps logs in process.
	DSN string `koanf:"dsn"`
}

type OutputConfig struct {
	Dir string `koanf:"dir"`
}

// IngestConfig controls remote CSV downloads.
type IngestConfig struct {
	Retries    int      `koanf:"retries"`
	RetryDelay Duration `koanf:"retry_delay"`
	MaxDelay   Duration `koanf:"max_delay"`
}

// Load reads configuration. path may be empty or point at a missing file, in
// which case only the environment and defaults apply.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	k := koanf.New(".")
	if path != "" {
		content, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// listKeys are read from the environment as comma separated lists.
var listKeys = map[string]bool{
	"audit.key_fields":    true,
	"server.cors_origins": true,
}

func envValue(name, value string) (string, interface{}) {
	key := envKey(name)
	if listKeys[key] {
		return key, utils.SplitList(value)
	}
	return key, value
}

// envKey turns CRASHAUDIT_AUDIT_KEY_COLUMN into audit.key_column. Only the
// first underscore separates section from field.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	def := model.DefaultContract()
	if cfg.Audit.KeyColumn == "" {
		cfg.Audit.KeyColumn = def.ReportIDColumn
	}
	if cfg.Audit.TimestampColumn == "" {
		cfg.Audit.TimestampColumn = def.TimestampColumn
	}
	if cfg.Audit.LatitudeColumn == "" {
		cfg.Audit.LatitudeColumn = def.LatitudeColumn
	}
	if cfg.Audit.LongitudeColumn == "" {
		cfg.Audit.LongitudeColumn = def.LongitudeColumn
	}
	if cfg.Audit.Timezone == "" {
		cfg.Audit.Timezone = "Local"
	}
	if cfg.Insights.CategoryColumn == "" {
		cfg.Insights.CategoryColumn = def.CategoryColumn
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}
	if cfg.Store.DSN == "" {
		cfg.Store.DSN = ":memory:"
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "output"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Ingest.Retries == 0 {
		cfg.Ingest.Retries = pipeline.DefaultRetryConfig.MaxAttempts
	}
	if cfg.Ingest.RetryDelay == 0 {
		cfg.Ingest.RetryDelay = Duration(pipeline.DefaultRetryConfig.InitialDelay)
	}
	if cfg.Ingest.MaxDelay == 0 {
		cfg.Ingest.MaxDelay = Duration(pipeline.DefaultRetryConfig.MaxDelay)
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	for name, col := range map[string]string{
		"audit.key_column":         c.Audit.KeyColumn,
		"audit.timestamp_column":   c.Audit.TimestampColumn,
		"audit.latitude_column":    c.Audit.LatitudeColumn,
		"audit.longitude_column":   c.Audit.LongitudeColumn,
		"insights.category_column": c.Insights.CategoryColumn,
	} {
		if strings.TrimSpace(col) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", name))
		}
	}
	for i, f := range c.Audit.KeyFields {
		if strings.TrimSpace(f) == "" {
			errs = append(errs, fmt.Errorf("audit.key_fields[%d] must not be empty", i))
		}
	}
	if _, err := time.LoadLocation(c.Audit.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("audit.timezone: %w", err))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	if c.Store.DSN == "" {
		errs = append(errs, errors.New("store.dsn must not be empty"))
	}
	if c.Ingest.Retries < 1 {
		errs = append(errs, fmt.Errorf("ingest.retries must be at least 1, got %d", c.Ingest.Retries))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}
	return errors.Join(errs...)
}

// Contract returns the column contract described by the audit and insights
// sections.
func (c *Config) Contract() model.Contract {
	return model.Contract{
		ReportIDColumn:  c.Audit.KeyColumn,
		TimestampColumn: c.Audit.TimestampColumn,
		LatitudeColumn:  c.Audit.LatitudeColumn,
		LongitudeColumn: c.Audit.LongitudeColumn,
		CategoryColumn:  c.Insights.CategoryColumn,
		KeyFields:       append([]string(nil), c.Audit.KeyFields...),
	}.WithDefaults()
}

// Location resolves audit.timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Audit.Timezone)
}

// Retry returns the backoff used for remote CSV downloads.
func (c *Config) Retry() pipeline.RetryConfig {
	r := pipeline.DefaultRetryConfig
	r.MaxAttempts = c.Ingest.Retries
	r.InitialDelay = c.Ingest.RetryDelay.Duration()
	r.MaxDelay = c.Ingest.MaxDelay.Duration()
	return r
}
