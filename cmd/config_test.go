package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "info", config.Logging)
	assert.Equal(t, ":9090", config.MetricsAddr)
	assert.Equal(t, "https://servicebus2.caixa.gov.br/portaldeloterias/api/megasena", config.Engine.Source.BaseURL)
	assert.Equal(t, 10*time.Second, config.Engine.Source.Timeout)
	assert.Equal(t, "data", config.Engine.Store.Dir)
	assert.Equal(t, 5, config.Engine.Acquisition.Concurrency)
	assert.Equal(t, 50, config.Engine.Acquisition.BatchSize)
	assert.Equal(t, 3, config.Engine.Acquisition.RetryAttempts)
	assert.Equal(t, 500*time.Millisecond, config.Engine.Acquisition.RetryBackoff)
	assert.Equal(t, 500, config.Engine.Acquisition.CheckpointInterval)
	assert.Equal(t, 100, config.Engine.BootstrapThreshold)
	assert.Equal(t, 1, config.Engine.IncrementalConcurrency)
	assert.True(t, config.API.Enabled)
	assert.Equal(t, ":8080", config.API.Addr)
	assert.Equal(t, "@every 6h", config.Scheduler.Schedule)
	assert.True(t, config.Scheduler.SyncOnStart)
	assert.Equal(t, 15*time.Minute, config.Scheduler.LockTTL)

	assert.NoError(t, config.Validate())
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drawsync.yaml")
	content := `
logging: debug
engine:
  store:
    dir: /var/lib/drawsync
  acquisition:
    concurrency: 8
  bootstrapThreshold: 250
api:
  addr: ":3000"
scheduler:
  schedule: "@every 1h"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "debug", config.Logging)
	assert.Equal(t, "/var/lib/drawsync", config.Engine.Store.Dir)
	assert.Equal(t, 8, config.Engine.Acquisition.Concurrency)
	assert.Equal(t, 250, config.Engine.BootstrapThreshold)
	assert.Equal(t, ":3000", config.API.Addr)
	assert.Equal(t, "@every 1h", config.Scheduler.Schedule)

	// Untouched options keep their defaults.
	assert.Equal(t, 50, config.Engine.Acquisition.BatchSize)
	assert.True(t, config.API.Enabled)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drawsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging: [unclosed"), 0o644))

	_, err := LoadConfig(path)

	assert.Error(t, err)
}
