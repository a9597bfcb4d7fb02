package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msmeinsights/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"FULL_CSV", "EXPL_CSV", "PRED_CSV", "DATA_DIR", "DATA_ALLOW_OVERRIDES", "DATA_MAX_BYTES", "PORT", "SCATTER_SAMPLE_SIZE", "ALERT_LIMIT", "TOP_N", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultFullCSV, cfg.Data.FullCSV)
	assert.Equal(t, DefaultExplCSV, cfg.Data.ExplCSV)
	assert.Equal(t, DefaultPredCSV, cfg.Data.PredCSV)
	assert.Equal(t, 2000, cfg.Report.ScatterSampleSize)
	assert.Equal(t, 5, cfg.Report.AlertLimit)
	assert.Equal(t, 3, cfg.Report.TopN)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, ".", cfg.Data.Dir)
	assert.True(t, cfg.Data.AllowOverrides)
	assert.Equal(t, DefaultMaxBytes, cfg.Data.MaxBytes)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("FULL_CSV", "/data/full.csv")
	t.Setenv("ALERT_LIMIT", "10")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("TOP_N", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/full.csv", cfg.Data.FullCSV)
	assert.Equal(t, 10, cfg.Report.AlertLimit)
	assert.Equal(t, 3, cfg.Report.TopN)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero sample size", func(c *Config) { c.Report.ScatterSampleSize = 0 }},
		{"negative alert limit", func(c *Config) { c.Report.AlertLimit = -1 }},
		{"zero top n", func(c *Config) { c.Report.TopN = 0 }},
		{"empty port", func(c *Config) { c.Server.Port = "" }},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"unknown gin mode", func(c *Config) { c.Server.GinMode = "prod" }},
		{"empty data dir", func(c *Config) { c.Data.Dir = "" }},
		{"zero read cap", func(c *Config) { c.Data.MaxBytes = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestResolveOverride(t *testing.T) {
	dataDir := t.TempDir()
	outside := t.TempDir()

	inside := filepath.Join(dataDir, "other.csv")
	require.NoError(t, os.WriteFile(inside, []byte("classification\n1\n"), 0o644))
	secret := filepath.Join(outside, "secret.csv")
	require.NoError(t, os.WriteFile(secret, []byte("summary\nhidden\n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dataDir, "nested.csv"), 0o755))
	require.NoError(t, os.Symlink(secret, filepath.Join(dataDir, "link.csv")))

	want, err := filepath.EvalSymlinks(inside)
	require.NoError(t, err)

	cfg := Default().Data
	cfg.Dir = dataDir

	t.Run("relative and absolute paths inside the directory", func(t *testing.T) {
		got, err := cfg.ResolveOverride("other.csv")
		require.NoError(t, err)
		assert.Equal(t, want, got)

		got, err = cfg.ResolveOverride(inside)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	rejected := []struct {
		name string
		path string
	}{
		{"absolute path outside", secret},
		{"dot-dot escape", filepath.Join("..", filepath.Base(outside), "secret.csv")},
		{"symlink escape", "link.csv"},
		{"missing file", "nope.csv"},
		{"directory", "nested.csv"},
		{"device file", "/dev/zero"},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cfg.ResolveOverride(tt.path)
			require.Error(t, err)
			assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
		})
	}

	t.Run("overrides disabled", func(t *testing.T) {
		disabled := cfg
		disabled.AllowOverrides = false
		_, err := disabled.ResolveOverride("other.csv")
		require.Error(t, err)
		assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	})
}
