package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadOverlaysOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "golomb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threads: 4\nsync_interval: 128\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Threads)
	assert.Equal(t, 128, cfg.SyncInterval)
	assert.Equal(t, 1, cfg.Processes) // untouched field keeps its default
	assert.Equal(t, "master-worker", cfg.CoordinatorDesign)
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
}

func TestLoadInvalidYAMLReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threads: [this is not an int"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidateRejectsBadFields(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
	}{
		{"zero threads", func(c *Config) { c.Threads = 0 }},
		{"negative processes", func(c *Config) { c.Processes = -1 }},
		{"zero sync interval", func(c *Config) { c.SyncInterval = 0 }},
		{"unknown design", func(c *Config) { c.CoordinatorDesign = "bogus" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mut(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
