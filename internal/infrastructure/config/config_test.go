package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when no file and no env vars", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "sales-bonus", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "console", cfg.Log.Format)
		assert.Equal(t, "stderr", cfg.Log.Output)
		assert.Equal(t, "discount", cfg.Analysis.RevenueStrategy)
		assert.Equal(t, "tiered", cfg.Analysis.BonusStrategy)
		assert.Equal(t, 10, cfg.Analysis.TopProducts)
		assert.Equal(t, int32(2), cfg.Analysis.Precision)
		assert.Empty(t, cfg.Analysis.BonusTiers)
		assert.True(t, cfg.Analysis.LastRankFraction.IsZero())
		assert.True(t, cfg.Analysis.DefaultFraction.Equal(decimal.RequireFromString("0.05")))
		assert.True(t, cfg.Analysis.FlatFraction.Equal(decimal.RequireFromString("0.05")))
		assert.Equal(t, "json", cfg.Output.Format)
		assert.Equal(t, "sales-bonus", cfg.Telemetry.ServiceName)
		assert.False(t, cfg.Telemetry.Enabled)
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
	})

	t.Run("loads values from environment variables with SALES prefix", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("SALES_APP_ENV", "testing")
		t.Setenv("SALES_LOG_LEVEL", "debug")
		t.Setenv("SALES_ANALYSIS_BONUS_STRATEGY", "flat")
		t.Setenv("SALES_ANALYSIS_FLAT_FRACTION", "0.2")
		t.Setenv("SALES_ANALYSIS_TOP_PRODUCTS", "3")
		t.Setenv("SALES_OUTPUT_FORMAT", "csv")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "flat", cfg.Analysis.BonusStrategy)
		assert.True(t, cfg.Analysis.FlatFraction.Equal(decimal.RequireFromString("0.2")))
		assert.Equal(t, 3, cfg.Analysis.TopProducts)
		assert.Equal(t, "csv", cfg.Output.Format)
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("reads all sections", func(t *testing.T) {
		path := writeConfig(t, `
[app]
name = "scorecard"
env = "production"

[log]
level = "warn"
format = "json"

[analysis]
revenue_strategy = "gross"
precision = 0
last_rank_fraction = "0.01"
default_fraction = "0.03"

[[analysis.bonus_tiers]]
from_rank = 0
to_rank = 1
fraction = "0.2"

[[analysis.bonus_tiers]]
from_rank = 2
to_rank = 4
fraction = "0.07"

[input]
path = "data/"
format = "csv"

[output]
path = "report.csv"
format = "csv"
charset = "windows-1251"

[telemetry]
enabled = true
sampling_ratio = 0.25
metrics_path = "run.prom"
`)

		cfg, err := LoadFile(path)
		require.NoError(t, err)

		assert.Equal(t, "scorecard", cfg.App.Name)
		assert.True(t, cfg.App.IsProduction())
		assert.Equal(t, "warn", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "gross", cfg.Analysis.RevenueStrategy)
		assert.Equal(t, int32(0), cfg.Analysis.Precision)
		assert.True(t, cfg.Analysis.LastRankFraction.Equal(decimal.RequireFromString("0.01")))
		assert.True(t, cfg.Analysis.DefaultFraction.Equal(decimal.RequireFromString("0.03")))

		require.Len(t, cfg.Analysis.BonusTiers, 2)
		assert.Equal(t, 0, cfg.Analysis.BonusTiers[0].FromRank)
		assert.Equal(t, 1, cfg.Analysis.BonusTiers[0].ToRank)
		assert.True(t, cfg.Analysis.BonusTiers[0].Fraction.Equal(decimal.RequireFromString("0.2")))
		assert.Equal(t, 4, cfg.Analysis.BonusTiers[1].ToRank)

		assert.Equal(t, "data/", cfg.Input.Path)
		assert.Equal(t, "csv", cfg.Input.Format)
		assert.Equal(t, "windows-1251", cfg.Input.Charset)
		assert.Equal(t, "report.csv", cfg.Output.Path)
		assert.Equal(t, "scorecard", cfg.Telemetry.ServiceName)
		assert.True(t, cfg.Telemetry.Enabled)
		assert.Equal(t, 0.25, cfg.Telemetry.SamplingRatio)
		assert.Equal(t, "run.prom", cfg.Telemetry.MetricsPath)
	})

	t.Run("env overrides file", func(t *testing.T) {
		path := writeConfig(t, "[analysis]\nbonus_strategy = \"tiered\"\n")
		t.Setenv("SALES_ANALYSIS_BONUS_STRATEGY", "flat")

		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "flat", cfg.Analysis.BonusStrategy)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"negative precision", "[analysis]\nprecision = -1\n", "analysis.precision"},
		{"negative top products", "[analysis]\ntop_products = -5\n", "analysis.top_products"},
		{"bad fraction", "[analysis]\ndefault_fraction = \"lots\"\n", "analysis.default_fraction"},
		{"inverted tier", "[[analysis.bonus_tiers]]\nfrom_rank = 3\nto_rank = 1\nfraction = \"0.1\"\n", "invalid rank range"},
		{"negative tier fraction", "[[analysis.bonus_tiers]]\nfrom_rank = 0\nto_rank = 0\nfraction = \"-0.1\"\n", "cannot be negative"},
		{"unknown input format", "[input]\nformat = \"xml\"\n", "input.format"},
		{"sampling ratio out of range", "[telemetry]\nsampling_ratio = 1.5\n", "telemetry.sampling_ratio"},
		{"unknown output format", "[output]\nformat = \"pdf\"\n", "output.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
