// Command analyze computes the seller scorecard for one dataset and writes the report.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NataliPereb/sales-bonus/internal/application/analytics"
	"github.com/NataliPereb/sales-bonus/internal/domain/report"
	"github.com/NataliPereb/sales-bonus/internal/domain/sales"
	"github.com/NataliPereb/sales-bonus/internal/infrastructure/config"
	"github.com/NataliPereb/sales-bonus/internal/infrastructure/dataset"
	"github.com/NataliPereb/sales-bonus/internal/infrastructure/logger"
	"github.com/NataliPereb/sales-bonus/internal/infrastructure/reportwriter"
	"github.com/NataliPereb/sales-bonus/internal/infrastructure/strategy"
	"github.com/NataliPereb/sales-bonus/internal/infrastructure/strategy/bonus"
	"github.com/NataliPereb/sales-bonus/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// options are the command-line overrides; empty values keep the configured ones
type options struct {
	configPath   string
	inputPath    string
	inputFormat  string
	charset      string
	outputPath   string
	outputFormat string
	revenue      string
	bonus        string
	logLevel     string
	metricsPath  string
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "Path to a TOML config file (default: ./config.toml if present)")
	fs.StringVar(&opts.inputPath, "input", "", "Dataset file (.json, .yaml) or directory of CSV files")
	fs.StringVar(&opts.inputFormat, "input-format", "", "Dataset format: json, yaml, csv (default: detect)")
	fs.StringVar(&opts.charset, "charset", "", "Charset of CSV input, e.g. windows-1251 (default: utf-8)")
	fs.StringVar(&opts.outputPath, "output", "", "Report file (default: stdout)")
	fs.StringVar(&opts.outputFormat, "format", "", "Report format: json, csv")
	fs.StringVar(&opts.revenue, "revenue", "", "Revenue strategy name")
	fs.StringVar(&opts.bonus, "bonus", "", "Bonus strategy name")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.metricsPath, "metrics-file", "", "Write a Prometheus textfile snapshot of the run")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.inputPath == "" && fs.NArg() > 0 {
		opts.inputPath = fs.Arg(0)
	}
	return opts, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	// Load configuration
	var cfg *config.Config
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	applyOverrides(cfg, opts)

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync(log)
	}()
	log = log.With(zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env))

	if cfg.Input.Path == "" {
		return errors.New("no dataset given: pass -input or set input.path")
	}

	providers, err := telemetry.Setup(telemetry.Config{
		Enabled:       cfg.Telemetry.Enabled,
		ServiceName:   cfg.Telemetry.ServiceName,
		Environment:   cfg.App.Env,
		SamplingRatio: cfg.Telemetry.SamplingRatio,
	}, log)
	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	metrics, err := telemetry.NewGlobalAnalysisMetrics()
	if err != nil {
		log.Warn("Analysis metrics disabled", zap.Error(err))
	}

	registry, err := strategy.NewRegistryWithOptions(registryOptions(cfg.Analysis))
	if err != nil {
		return fmt.Errorf("register strategies: %w", err)
	}
	strategies, err := selectStrategies(registry, cfg.Analysis)
	if err != nil {
		return err
	}

	format, err := dataset.ParseFormat(cfg.Input.Format)
	if err != nil {
		return err
	}
	charset, err := dataset.ParseCharset(cfg.Input.Charset)
	if err != nil {
		return err
	}
	ds, err := dataset.NewLoader(log, dataset.WithCharset(charset)).Load(ctx, cfg.Input.Path, format)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	tally := telemetry.NewAnomalyTally()
	zapSink := logger.NewZapAnomalySink(log)
	sink := sales.AnomalySinkFunc(func(ctx context.Context, a sales.Anomaly) {
		tally.Add(string(a.Kind))
		zapSink.ReportAnomaly(ctx, a)
	})

	svc := analytics.NewService(
		analytics.Config{TopProducts: cfg.Analysis.TopProducts, Precision: cfg.Analysis.Precision},
		sink,
		log,
		metrics,
	)
	started := time.Now()
	scorecard, err := svc.Analyze(ctx, ds, strategies)
	if cfg.Telemetry.MetricsPath != "" {
		snapshot := newSnapshot(scorecard, ds, tally, started, err == nil)
		if werr := telemetry.WriteTextfile(cfg.Telemetry.MetricsPath, snapshot); werr != nil {
			log.Warn("Failed to write metrics textfile", zap.String("path", cfg.Telemetry.MetricsPath), zap.Error(werr))
		}
	}
	if err != nil {
		return err
	}

	writer, err := reportwriter.New(cfg.Output.Format)
	if err != nil {
		return err
	}
	out, closeOut, err := openOutput(cfg.Output.Path, stdout)
	if err != nil {
		return err
	}
	defer closeOut()

	// reports carry plain JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
	if err := writer.Write(out, scorecard); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	log.Info("Report written",
		zap.String("output", outputName(cfg.Output.Path)),
		zap.String("format", cfg.Output.Format),
		zap.Int("sellers", len(scorecard)),
		zap.String("total_bonus", scorecard.TotalBonus().StringFixed(2)),
	)

	if providers.IsEnabled() {
		totals, err := providers.CounterTotals(ctx)
		if err != nil {
			log.Warn("Failed to collect run metrics", zap.Error(err))
		} else {
			log.Info("Run metrics",
				zap.Int64("receipts", totals[telemetry.MetricReceiptsTotal]),
				zap.Int64("line_items", totals[telemetry.MetricLineItemsTotal]),
				zap.Int64("anomalies", totals[telemetry.MetricAnomaliesTotal]),
			)
		}
	}
	return nil
}

func applyOverrides(cfg *config.Config, opts options) {
	if opts.inputPath != "" {
		cfg.Input.Path = opts.inputPath
	}
	if opts.inputFormat != "" {
		cfg.Input.Format = opts.inputFormat
	}
	if opts.charset != "" {
		cfg.Input.Charset = opts.charset
	}
	if opts.metricsPath != "" {
		cfg.Telemetry.MetricsPath = opts.metricsPath
	}
	if opts.outputPath != "" {
		cfg.Output.Path = opts.outputPath
	}
	if opts.outputFormat != "" {
		cfg.Output.Format = opts.outputFormat
	}
	if opts.revenue != "" {
		cfg.Analysis.RevenueStrategy = opts.revenue
	}
	if opts.bonus != "" {
		cfg.Analysis.BonusStrategy = opts.bonus
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
}

func registryOptions(a config.AnalysisConfig) strategy.RegistryOptions {
	opts := strategy.DefaultRegistryOptions()
	if len(a.BonusTiers) > 0 {
		opts.BonusTiers = make([]bonus.RankTier, 0, len(a.BonusTiers))
		for _, t := range a.BonusTiers {
			opts.BonusTiers = append(opts.BonusTiers, bonus.RankTier{
				FromRank: t.FromRank,
				ToRank:   t.ToRank,
				Fraction: t.Fraction,
			})
		}
	}
	opts.LastRankFraction = a.LastRankFraction
	opts.DefaultFraction = a.DefaultFraction
	opts.FlatFraction = a.FlatFraction
	return opts
}

func selectStrategies(registry *strategy.StrategyRegistry, a config.AnalysisConfig) (analytics.Strategies, error) {
	revenue, err := registry.GetRevenueStrategy(a.RevenueStrategy)
	if err != nil {
		return analytics.Strategies{}, fmt.Errorf("revenue strategy: %w", err)
	}
	bonusStrategy, err := registry.GetBonusStrategy(a.BonusStrategy)
	if err != nil {
		return analytics.Strategies{}, fmt.Errorf("bonus strategy: %w", err)
	}
	return analytics.Strategies{Revenue: revenue, Bonus: bonusStrategy}, nil
}

func newSnapshot(scorecard report.Scorecard, ds *sales.Dataset, tally *telemetry.AnomalyTally, started time.Time, ok bool) telemetry.RunSnapshot {
	finished := time.Now()
	s := telemetry.RunSnapshot{
		Finished:  finished,
		Duration:  finished.Sub(started),
		Success:   ok,
		Sellers:   len(scorecard),
		Anomalies: tally.Counts(),
	}
	if ds != nil {
		s.PurchaseRecords = len(ds.PurchaseRecords)
	}
	s.TotalProfit = scorecard.TotalProfit().InexactFloat64()
	s.TotalBonus = scorecard.TotalBonus().InexactFloat64()
	return s
}

func openOutput(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create report file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func outputName(path string) string {
	if path == "" || path == "-" {
		return "stdout"
	}
	return path
}
