// Package config provides configuration management for LeagueHelper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for the application.
type Config struct {
	// League install directory, used for lockfile discovery and item set export
	InstallDir string `yaml:"install_dir"`
	// DataDir holds the local catalog database
	DataDir string `yaml:"data_dir"`
	Locale  string `yaml:"locale"`

	Log       LogConfig       `yaml:"log"`
	Store     StoreConfig     `yaml:"store"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Sources   SourcesConfig   `yaml:"sources"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// StoreConfig selects the catalog persistence backend
type StoreConfig struct {
	// Driver is one of sqlite, libsql, postgres, redis, s3
	Driver    string   `yaml:"driver"`
	DSN       string   `yaml:"dsn"`
	AuthToken string   `yaml:"auth_token"`
	RedisURL  string   `yaml:"redis_url"`
	KeyPrefix string   `yaml:"key_prefix"`
	S3        S3Config `yaml:"s3"`
	// CacheSize bounds the in-process catalog cache; 0 disables it
	CacheSize int `yaml:"cache_size"`
}

// S3Config holds object storage settings
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// CatalogConfig tunes catalog assembly
type CatalogConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// ReconcileConfig tunes the session reconciler
type ReconcileConfig struct {
	PollInterval   time.Duration `yaml:"poll_interval"`
	InGameInterval time.Duration `yaml:"in_game_interval"`
	// RoleFallback applies the best build when the assigned role has none
	RoleFallback bool   `yaml:"role_fallback"`
	PageMarker   string `yaml:"page_marker"`
	// FlashSlot is "first" or "second"
	FlashSlot string `yaml:"flash_slot"`
}

// SourcesConfig overrides remote endpoints
type SourcesConfig struct {
	DDragonURL    string        `yaml:"ddragon_url"`
	UGGStatsURL   string        `yaml:"ugg_stats_url"`
	UGGPatchesURL string        `yaml:"ugg_patches_url"`
	UGGHomeURL    string        `yaml:"ugg_home_url"`
	Timeout       time.Duration `yaml:"timeout"`
}

// Store drivers
const (
	DriverSQLite   = "sqlite"
	DriverLibSQL   = "libsql"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverS3       = "s3"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	dataDir := "."
	if dir, err := os.UserConfigDir(); err == nil {
		dataDir = filepath.Join(dir, "LeagueHelper")
	}

	return &Config{
		InstallDir: DefaultInstallDir(),
		DataDir:    dataDir,
		Locale:     "en_US",
		Log: LogConfig{
			Level: "info",
		},
		Store: StoreConfig{
			Driver:    DriverSQLite,
			KeyPrefix: "leaguehelper",
			CacheSize: 4,
		},
		Catalog: CatalogConfig{
			Concurrency: 5,
		},
		Reconcile: ReconcileConfig{
			PollInterval:   2500 * time.Millisecond,
			InGameInterval: 30 * time.Second,
			RoleFallback:   true,
			PageMarker:     "LH",
			FlashSlot:      "first",
		},
		Sources: SourcesConfig{
			Timeout: 10 * time.Second,
		},
	}
}

// DefaultInstallDir returns the usual League install location for the OS
func DefaultInstallDir() string {
	switch runtime.GOOS {
	case "windows":
		return `C:\Riot Games\League of Legends`
	case "darwin":
		return "/Applications/League of Legends.app/Contents/LoL"
	default:
		return ""
	}
}

// DefaultPath is the config file location used when none is given
func DefaultPath() string {
	return filepath.Join(DefaultConfig().DataDir, "config.yaml")
}

// Load reads defaults, then the YAML file at path (if present), then .env
// and LH_* environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
			// Defaults apply when the file doesn't exist
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies LH_* environment variables
func (c *Config) applyEnvOverrides() error {
	setString(&c.InstallDir, "LH_INSTALL_DIR")
	setString(&c.DataDir, "LH_DATA_DIR")
	setString(&c.Locale, "LH_LOCALE")
	setString(&c.Log.Level, "LH_LOG_LEVEL")

	setString(&c.Store.Driver, "LH_STORE_DRIVER")
	setString(&c.Store.DSN, "LH_STORE_DSN")
	setString(&c.Store.AuthToken, "LH_STORE_AUTH_TOKEN")
	setString(&c.Store.RedisURL, "LH_REDIS_URL")
	setString(&c.Store.S3.Endpoint, "LH_S3_ENDPOINT")
	setString(&c.Store.S3.Region, "LH_S3_REGION")
	setString(&c.Store.S3.AccessKey, "LH_S3_ACCESS_KEY")
	setString(&c.Store.S3.SecretKey, "LH_S3_SECRET_KEY")
	setString(&c.Store.S3.Bucket, "LH_S3_BUCKET")

	// Turso-style variables are honored for the libsql driver
	setString(&c.Store.AuthToken, "TURSO_AUTH_TOKEN")
	if url := os.Getenv("TURSO_DATABASE_URL"); url != "" && c.Store.Driver == DriverLibSQL && c.Store.DSN == "" {
		c.Store.DSN = url
	}

	setString(&c.Reconcile.PageMarker, "LH_PAGE_MARKER")
	setString(&c.Reconcile.FlashSlot, "LH_FLASH_SLOT")

	var errs []error
	if v := os.Getenv("LH_ROLE_FALLBACK"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("LH_ROLE_FALLBACK: %w", err))
		}
		c.Reconcile.RoleFallback = b
	}
	if v := os.Getenv("LH_CATALOG_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("LH_CATALOG_CONCURRENCY: %w", err))
		}
		c.Catalog.Concurrency = n
	}
	if v := os.Getenv("LH_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("LH_POLL_INTERVAL: %w", err))
		}
		c.Reconcile.PollInterval = d
	}
	return errors.Join(errs...)
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.DSN == "" && c.DataDir == "" {
			errs = append(errs, errors.New("store: sqlite needs a dsn or data_dir"))
		}
	case DriverLibSQL, DriverPostgres:
		if c.Store.DSN == "" {
			errs = append(errs, fmt.Errorf("store: %s needs a dsn", c.Store.Driver))
		}
	case DriverRedis:
		if c.Store.RedisURL == "" {
			errs = append(errs, errors.New("store: redis needs redis_url"))
		}
	case DriverS3:
		if c.Store.S3.Endpoint == "" || c.Store.S3.Bucket == "" {
			errs = append(errs, errors.New("store: s3 needs endpoint and bucket"))
		}
	default:
		errs = append(errs, fmt.Errorf("store: unknown driver %q", c.Store.Driver))
	}

	if c.Store.CacheSize < 0 {
		errs = append(errs, errors.New("store: cache_size must not be negative"))
	}
	if c.Catalog.Concurrency < 1 {
		errs = append(errs, errors.New("catalog: concurrency must be at least 1"))
	}
	if c.Reconcile.PollInterval <= 0 || c.Reconcile.InGameInterval <= 0 {
		errs = append(errs, errors.New("reconcile: intervals must be positive"))
	}
	if strings.TrimSpace(c.Reconcile.PageMarker) == "" {
		errs = append(errs, errors.New("reconcile: page_marker is required"))
	}
	if c.Reconcile.FlashSlot != "first" && c.Reconcile.FlashSlot != "second" {
		errs = append(errs, fmt.Errorf("reconcile: flash_slot must be first or second, got %q", c.Reconcile.FlashSlot))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log: unknown level %q", c.Log.Level))
	}

	return errors.Join(errs...)
}

// SQLitePath returns the local catalog database path
func (c *Config) SQLitePath() string {
	if c.Store.DSN != "" {
		return c.Store.DSN
	}
	return filepath.Join(c.DataDir, "catalog.db")
}

// LockfilePath returns the LCU lockfile path inside the install directory
func (c *Config) LockfilePath() string {
	return filepath.Join(c.InstallDir, "lockfile")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
