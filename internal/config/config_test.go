package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.InDelta(t, 50, cfg.Server.RateLimitRPS, 1e-12)
	assert.Equal(t, 100, cfg.Server.RateLimitBurst)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.InDelta(t, 0.005, cfg.Analysis.TickSize, 1e-12)
	assert.Equal(t, []int{1, 2, 3}, cfg.Analysis.TickLevels)
	assert.Equal(t, int64(-1), cfg.Analysis.BootstrapSeed)

	require.NoError(t, cfg.Validate())
}

func TestLoadFrom(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default().Analysis, cfg.Analysis)
	})

	t.Run("file overlays defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "spreadcli.yaml")
		content := "analysis:\n  tick_size: 0.01\n  strict_daily_only: true\nserver:\n  port: 9090\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := LoadFrom(path)
		require.NoError(t, err)

		assert.InDelta(t, 0.01, cfg.Analysis.TickSize, 1e-12)
		assert.True(t, cfg.Analysis.StrictDailyOnly)
		assert.Equal(t, 9090, cfg.Server.Port)
		// Untouched fields keep their defaults.
		assert.Equal(t, 20, cfg.Analysis.MinExpandingWindow)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "spreadcli.yaml")
		require.NoError(t, os.WriteFile(path, []byte("analysis:\n  tick_size: 0.01\n"), 0644))

		t.Setenv("SPREAD_ANALYSIS_TICK_SIZE", "0.025")
		cfg, err := LoadFrom(path)
		require.NoError(t, err)

		assert.InDelta(t, 0.025, cfg.Analysis.TickSize, 1e-12)
	})

	t.Run("rate limiting can be disabled", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "spreadcli.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server:\n  rate_limit_rps: 0\n"), 0644))

		cfg, err := LoadFrom(path)
		require.NoError(t, err)
		assert.Zero(t, cfg.Server.RateLimitRPS)
	})

	t.Run("invalid values fail validation", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "spreadcli.yaml")
		require.NoError(t, os.WriteFile(path, []byte("analysis:\n  tick_size: -1\n"), 0644))

		_, err := LoadFrom(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "spreadcli.yaml")
		require.NoError(t, os.WriteFile(path, []byte("analysis: [not a map"), 0644))

		_, err := LoadFrom(path)
		require.Error(t, err)
	})
}

func TestParams(t *testing.T) {
	cfg := Default()
	cfg.Analysis.TickSize = 0.02
	cfg.Analysis.BootstrapSeed = 99

	params := cfg.Params()
	assert.InDelta(t, 0.02, params.TickSize, 1e-12)
	assert.Equal(t, int64(99), params.BootstrapSeed)
	assert.True(t, params.IsValid())
}

func TestResolveInputPath(t *testing.T) {
	t.Run("absolute path passes through", func(t *testing.T) {
		abs := filepath.Join(t.TempDir(), "series.csv")
		assert.Equal(t, abs, ResolveInputPath(abs))
	})

	t.Run("missing relative path is returned unchanged", func(t *testing.T) {
		assert.Equal(t, "no-such-file.csv", ResolveInputPath("no-such-file.csv"))
	})
}

func TestEnsureDirectories(t *testing.T) {
	cfg := Default()
	base := t.TempDir()
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.LogsDir = filepath.Join(base, "logs")

	require.NoError(t, cfg.EnsureDirectories())
	assert.DirExists(t, cfg.Paths.OutputDir)
	assert.DirExists(t, cfg.Paths.LogsDir)
}
