package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "/home", cfg.HTTP.BasePath)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 5*time.Second, cfg.Feed.Interval)
	assert.Equal(t, 200*time.Millisecond, cfg.Devices.Latency)
	assert.True(t, cfg.Feed.Enabled)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	file := filepath.Join(dir, "homedash.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
http:
  addr: ":7000"
storage:
  driver: file
  dir: /var/lib/homedash
feed:
  interval: 30s
`), 0o644))
	t.Setenv("HOMEDASH_HTTP_ADDR", ":9000")
	t.Setenv("HOMEDASH_LOG_FORMAT", "console")

	cfg, err := Load(Options{File: file})
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, DriverFile, cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/homedash", cfg.Storage.Dir)
	assert.Equal(t, 30*time.Second, cfg.Feed.Interval)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	envFile := filepath.Join(dir, "custom.env")
	require.NoError(t, os.WriteFile(envFile, []byte("HOMEDASH_MQTT_BROKER=tcp://broker:1883\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("HOMEDASH_MQTT_BROKER") })

	cfg, err := Load(Options{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTT.Broker)

	_, err = Load(Options{EnvFile: filepath.Join(dir, "missing.env")})
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("HOMEDASH_STORAGE_DRIVER", "sqlite")
	_, err := Load(Options{})
	assert.ErrorContains(t, err, "unknown storage driver")

	t.Setenv("HOMEDASH_STORAGE_DRIVER", DriverPostgres)
	_, err = Load(Options{})
	assert.ErrorContains(t, err, "postgres.dsn")

	_, err = Load(Options{File: "does-not-exist.yaml"})
	assert.Error(t, err)
}
