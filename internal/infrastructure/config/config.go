package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	Analysis  AnalysisConfig
	Input     InputConfig
	Output    OutputConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AnalysisConfig selects strategies and shapes the scorecard
type AnalysisConfig struct {
	RevenueStrategy string // discount, gross
	BonusStrategy   string // tiered, flat
	TopProducts     int
	Precision       int32

	// BonusTiers replaces the tiered strategy's rank tiers when non-empty
	BonusTiers       []BonusTierConfig
	LastRankFraction decimal.Decimal
	DefaultFraction  decimal.Decimal
	FlatFraction     decimal.Decimal
}

// BonusTierConfig is one rank range and its bonus fraction
type BonusTierConfig struct {
	FromRank int
	ToRank   int
	Fraction decimal.Decimal
}

// InputConfig locates the dataset
type InputConfig struct {
	Path   string
	Format string // json, yaml, csv; empty means detect from path
	// Charset of CSV exports, e.g. windows-1251; empty means UTF-8
	Charset string
}

// OutputConfig locates the report
type OutputConfig struct {
	Path   string // empty or "-" means stdout
	Format string // json, csv
}

// TelemetryConfig holds tracing and metrics settings.
// Providers are in-process only; nothing is exported.
type TelemetryConfig struct {
	Enabled       bool
	ServiceName   string
	SamplingRatio float64
	// MetricsPath receives a Prometheus textfile snapshot of the run when set
	MetricsPath string
}

type rawTier struct {
	FromRank int    `mapstructure:"from_rank"`
	ToRank   int    `mapstructure:"to_rank"`
	Fraction string `mapstructure:"fraction"`
}

// Load reads configuration from environment variables and config file.
// Priority (highest to lowest):
// 1. Environment variables with SALES_ prefix (e.g., SALES_ANALYSIS_BONUS_STRATEGY)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	return load(v)
}

// LoadFile reads configuration from an explicit TOML file, still honouring SALES_ env overrides
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("SALES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Analysis: AnalysisConfig{
			RevenueStrategy: v.GetString("analysis.revenue_strategy"),
			BonusStrategy:   v.GetString("analysis.bonus_strategy"),
			TopProducts:     v.GetInt("analysis.top_products"),
			Precision:       v.GetInt32("analysis.precision"),
		},
		Input: InputConfig{
			Path:    v.GetString("input.path"),
			Format:  v.GetString("input.format"),
			Charset: v.GetString("input.charset"),
		},
		Output: OutputConfig{
			Path:   v.GetString("output.path"),
			Format: v.GetString("output.format"),
		},
		Telemetry: TelemetryConfig{
			Enabled:       v.GetBool("telemetry.enabled"),
			ServiceName:   v.GetString("telemetry.service_name"),
			SamplingRatio: v.GetFloat64("telemetry.sampling_ratio"),
			MetricsPath:   v.GetString("telemetry.metrics_path"),
		},
	}

	fractions := []struct {
		key    string
		target *decimal.Decimal
	}{
		{"analysis.last_rank_fraction", &cfg.Analysis.LastRankFraction},
		{"analysis.default_fraction", &cfg.Analysis.DefaultFraction},
		{"analysis.flat_fraction", &cfg.Analysis.FlatFraction},
	}
	for _, f := range fractions {
		if !v.IsSet(f.key) {
			continue
		}
		d, err := decimal.NewFromString(v.GetString(f.key))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.key, err)
		}
		*f.target = d
	}

	if v.IsSet("analysis.bonus_tiers") {
		var raw []rawTier
		if err := v.UnmarshalKey("analysis.bonus_tiers", &raw); err != nil {
			return nil, fmt.Errorf("analysis.bonus_tiers: %w", err)
		}
		for i, t := range raw {
			fraction, err := decimal.NewFromString(t.Fraction)
			if err != nil {
				return nil, fmt.Errorf("analysis.bonus_tiers[%d].fraction: %w", i, err)
			}
			cfg.Analysis.BonusTiers = append(cfg.Analysis.BonusTiers, BonusTierConfig{
				FromRank: t.FromRank,
				ToRank:   t.ToRank,
				Fraction: fraction,
			})
		}
	}

	applyDefaults(cfg, v)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config, v *viper.Viper) {
	if cfg.App.Name == "" {
		cfg.App.Name = "sales-bonus"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	// stdout carries the report
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
	if cfg.Analysis.RevenueStrategy == "" {
		cfg.Analysis.RevenueStrategy = "discount"
	}
	if cfg.Analysis.BonusStrategy == "" {
		cfg.Analysis.BonusStrategy = "tiered"
	}
	if cfg.Analysis.TopProducts == 0 {
		cfg.Analysis.TopProducts = 10
	}
	// zero is a valid precision, so only an unset key falls back
	if !v.IsSet("analysis.precision") {
		cfg.Analysis.Precision = 2
	}
	if !v.IsSet("analysis.default_fraction") {
		cfg.Analysis.DefaultFraction = decimal.RequireFromString("0.05")
	}
	if !v.IsSet("analysis.flat_fraction") {
		cfg.Analysis.FlatFraction = decimal.RequireFromString("0.05")
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "json"
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if !v.IsSet("telemetry.sampling_ratio") {
		cfg.Telemetry.SamplingRatio = 1.0
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Analysis.TopProducts < 0 {
		return fmt.Errorf("analysis.top_products must be positive, got %d", c.Analysis.TopProducts)
	}
	if c.Analysis.Precision < 0 {
		return fmt.Errorf("analysis.precision cannot be negative, got %d", c.Analysis.Precision)
	}
	for i, t := range c.Analysis.BonusTiers {
		if t.FromRank < 0 || t.ToRank < t.FromRank {
			return fmt.Errorf("analysis.bonus_tiers[%d]: invalid rank range %d-%d", i, t.FromRank, t.ToRank)
		}
		if t.Fraction.IsNegative() {
			return fmt.Errorf("analysis.bonus_tiers[%d]: fraction cannot be negative", i)
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	switch c.Input.Format {
	case "", "json", "yaml", "csv":
	default:
		return fmt.Errorf("input.format must be json, yaml or csv, got %q", c.Input.Format)
	}
	switch c.Output.Format {
	case "json", "csv":
	default:
		return fmt.Errorf("output.format must be json or csv, got %q", c.Output.Format)
	}

	return nil
}

// IsProduction reports whether the app runs in production
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}
