package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, 5, cfg.Catalog.Concurrency)
	assert.Equal(t, 2500*time.Millisecond, cfg.Reconcile.PollInterval)
	assert.Equal(t, 30*time.Second, cfg.Reconcile.InGameInterval)
	assert.True(t, cfg.Reconcile.RoleFallback)
	assert.Equal(t, "LH", cfg.Reconcile.PageMarker)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "en_US", cfg.Locale)
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
install_dir: /games/lol
store:
  driver: redis
  redis_url: redis://localhost:6379/0
reconcile:
  poll_interval: 1s
  flash_slot: second
  role_fallback: false
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/games/lol", cfg.InstallDir)
	assert.Equal(t, DriverRedis, cfg.Store.Driver)
	assert.Equal(t, time.Second, cfg.Reconcile.PollInterval)
	assert.Equal(t, 30*time.Second, cfg.Reconcile.InGameInterval, "unset keys keep defaults")
	assert.Equal(t, "second", cfg.Reconcile.FlashSlot)
	assert.False(t, cfg.Reconcile.RoleFallback)
	assert.Equal(t, filepath.Join("/games/lol", "lockfile"), cfg.LockfilePath())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: [oops"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LH_STORE_DRIVER", "postgres")
	t.Setenv("LH_STORE_DSN", "postgres://localhost/lh")
	t.Setenv("LH_ROLE_FALLBACK", "false")
	t.Setenv("LH_CATALOG_CONCURRENCY", "8")
	t.Setenv("LH_POLL_INTERVAL", "5s")

	cfg := DefaultConfig()
	require.NoError(t, cfg.applyEnvOverrides())

	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/lh", cfg.Store.DSN)
	assert.False(t, cfg.Reconcile.RoleFallback)
	assert.Equal(t, 8, cfg.Catalog.Concurrency)
	assert.Equal(t, 5*time.Second, cfg.Reconcile.PollInterval)
}

func TestEnvOverrides_Invalid(t *testing.T) {
	t.Setenv("LH_ROLE_FALLBACK", "maybe")
	t.Setenv("LH_POLL_INTERVAL", "soon")

	cfg := DefaultConfig()
	err := cfg.applyEnvOverrides()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LH_ROLE_FALLBACK")
	assert.Contains(t, err.Error(), "LH_POLL_INTERVAL")
}

func TestValidate_ReportsEverything(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.Driver = "mongo"
	cfg.Catalog.Concurrency = 0
	cfg.Reconcile.FlashSlot = "middle"
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"unknown driver", "concurrency", "flash_slot", "unknown level"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Reconcile.PageMarker = "XY"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "XY", loaded.Reconcile.PageMarker)
	assert.Equal(t, cfg.Reconcile.PollInterval, loaded.Reconcile.PollInterval)
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, "config.yaml", filepath.Base(DefaultPath()))
	assert.Equal(t, DefaultConfig().DataDir, filepath.Dir(DefaultPath()))
}
