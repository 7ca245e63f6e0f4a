package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_OverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "supervisor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("snapshotRoot: /var/lib/snapshots\nworkers: 8\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/snapshots", cfg.DataPath)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 3, cfg.RetentionKeep, "unset fields keep their default")
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	cfg := Config{Workers: 0, ScanInterval: 0, ShutdownTimeout: 0, RetentionKeep: 0, MaxRetries: -1, RetryBackoffBase: 0}

	err := cfg.Validate()
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.GreaterOrEqual(t, len(cfgErr.Violations), 6)
}

func TestValidate_DefaultIsValidOnceDataPathSet(t *testing.T) {
	cfg := Default()
	cfg.DataPath = "/data"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ThresholdsOutOfRange(t *testing.T) {
	cfg := Default()
	cfg.DataPath = "/data"
	cfg.HeapThresholdPct = 150
	cfg.PagecacheThresPct = -1

	err := cfg.Validate()
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Len(t, cfgErr.Violations, 2)
}
