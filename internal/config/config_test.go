package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))

		require.NoError(t, err)
		require.Equal(t, "8080", cfg.Server.Port)
		require.Equal(t, "development", cfg.Server.Mode)
		require.Equal(t, int64(8<<20), cfg.Allocation.MaxUploadBytes)
		require.Equal(t, 32, cfg.Allocation.RetainRuns)
		require.Equal(t, "info", cfg.Logging.Level)
	})

	t.Run("yaml file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(
			"server:\n  port: \"9090\"\nallocation:\n  retain_runs: 5\n"), 0o644))

		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		require.Equal(t, "9090", cfg.Server.Port)
		require.Equal(t, 5, cfg.Allocation.RetainRuns)
		// Untouched keys keep their defaults.
		require.Equal(t, "development", cfg.Server.Mode)
	})

	t.Run("environment variables override the file", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "7070")
		t.Setenv("ALLOC_RETAIN_RUNS", "3")

		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))

		require.NoError(t, err)
		require.Equal(t, "7070", cfg.Server.Port)
		require.Equal(t, 3, cfg.Allocation.RetainRuns)
	})

	t.Run("invalid retention is rejected", func(t *testing.T) {
		t.Setenv("ALLOC_RETAIN_RUNS", "0")

		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))

		require.Error(t, err)
		require.Contains(t, err.Error(), "retain runs")
	})

	t.Run("malformed env value surfaces the variable name", func(t *testing.T) {
		t.Setenv("ALLOC_MAX_UPLOAD_BYTES", "lots")

		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))

		require.Error(t, err)
		require.Contains(t, err.Error(), "ALLOC_MAX_UPLOAD_BYTES")
	})
}
