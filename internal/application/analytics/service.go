// Package analytics computes the seller scorecard from one closed batch of sales data.
//
// A run goes through fixed stages: validate, index, accumulate, rank and assign
// bonuses, derive top products, format. Every run allocates its own accumulators,
// so a Service may be shared between goroutines.
package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/NataliPereb/sales-bonus/internal/domain/report"
	"github.com/NataliPereb/sales-bonus/internal/domain/sales"
	"github.com/NataliPereb/sales-bonus/internal/domain/shared"
	"github.com/NataliPereb/sales-bonus/internal/domain/shared/strategy"
	"github.com/NataliPereb/sales-bonus/internal/infrastructure/logger"
	"github.com/NataliPereb/sales-bonus/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultPrecision is the number of decimal places kept for money in reports
const DefaultPrecision int32 = 2

// Strategies bundles the pluggable formulas a run depends on
type Strategies struct {
	Revenue strategy.RevenueStrategy
	Bonus   strategy.BonusStrategy
}

// Config tunes report shaping
type Config struct {
	// TopProducts caps each seller's best-selling list
	TopProducts int
	// Precision is the number of decimal places revenue, profit and bonus are rounded to
	Precision int32
}

// DefaultConfig returns the standard shaping: top 10 products, 2 decimal places
func DefaultConfig() Config {
	return Config{
		TopProducts: report.DefaultTopProducts,
		Precision:   DefaultPrecision,
	}
}

// Service runs the scorecard pipeline
type Service struct {
	cfg     Config
	sink    sales.AnomalySink
	logger  *zap.Logger
	metrics *telemetry.AnalysisMetrics
}

// NewService creates a new Service. sink, log and metrics may be nil.
func NewService(cfg Config, sink sales.AnomalySink, log *zap.Logger, metrics *telemetry.AnalysisMetrics) *Service {
	if cfg.TopProducts <= 0 {
		cfg.TopProducts = report.DefaultTopProducts
	}
	if cfg.Precision < 0 {
		cfg.Precision = DefaultPrecision
	}
	if log == nil {
		log = zap.NewNop()
	}
	if sink == nil {
		sink = sales.AnomalySinkFunc(func(context.Context, sales.Anomaly) {})
	}
	return &Service{
		cfg:     cfg,
		sink:    sink,
		logger:  log.Named("analytics"),
		metrics: metrics,
	}
}

// Analyze runs the pipeline with a default Service that discards anomalies
func Analyze(ctx context.Context, dataset *sales.Dataset, strategies Strategies) (report.Scorecard, error) {
	return NewService(DefaultConfig(), nil, nil, nil).Analyze(ctx, dataset, strategies)
}

// Analyze computes one scorecard row per input seller, ordered by profit descending.
//
// It returns an error wrapping shared.ErrInvalidInput or shared.ErrInvalidStrategies
// before touching any accumulator. Orphan seller and product references are reported
// to the anomaly sink and never fail the run.
func (s *Service) Analyze(ctx context.Context, dataset *sales.Dataset, strategies Strategies) (report.Scorecard, error) {
	start := time.Now()
	runID := uuid.New().String()

	ctx, span := telemetry.StartServiceSpan(ctx, "analytics", "analyze",
		telemetry.WithAttribute(telemetry.SpanAttrRunID, runID),
	)
	defer span.End()
	ctx, log := logger.WithRunID(ctx, logger.WithTraceContext(ctx, s.logger), runID)

	if err := validateDataset(dataset); err != nil {
		s.fail(ctx, span, log, err, start)
		return nil, err
	}
	if err := validateStrategies(strategies); err != nil {
		s.fail(ctx, span, log, err, start)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrSellerCount, len(dataset.Sellers),
		telemetry.SpanAttrProductCount, len(dataset.Products),
		telemetry.SpanAttrRecordCount, len(dataset.PurchaseRecords),
		telemetry.SpanAttrRevenueStrategy, strategies.Revenue.Name(),
		telemetry.SpanAttrBonusStrategy, strategies.Bonus.Name(),
	)

	idx := buildIndex(dataset)
	log.Debug("Reference data indexed",
		zap.Int("sellers", len(idx.sellers)),
		zap.Int("products", len(idx.products)),
	)

	acc := s.accumulate(ctx, idx, dataset.PurchaseRecords, strategies.Revenue)
	telemetry.AddEvent(span, "accumulated",
		"receipts", acc.receipts,
		"line_items", acc.lineItems,
		telemetry.SpanAttrAnomalyCount, acc.anomalies,
	)
	s.metrics.RecordAccumulation(ctx, acc.receipts, acc.lineItems)

	ranked := rankByProfit(idx.accumulators)
	assignBonuses(ranked, strategies.Bonus)
	for _, a := range ranked {
		a.topProducts = topProducts(a, s.cfg.TopProducts)
	}
	scorecard := formatReports(ranked, s.cfg.Precision)

	telemetry.SetOK(span)
	s.metrics.RecordRun(ctx, telemetry.OutcomeSuccess, time.Since(start))
	log.Info("Seller scorecard computed",
		zap.Int("sellers", len(scorecard)),
		zap.Int64("receipts", acc.receipts),
		zap.Int64("anomalies", acc.anomalies),
		zap.Duration("elapsed", time.Since(start)),
	)

	return scorecard, nil
}

func (s *Service) fail(ctx context.Context, span trace.Span, log *zap.Logger, err error, start time.Time) {
	telemetry.RecordError(span, err)
	outcome := telemetry.OutcomeInvalidInput
	if errors.Is(err, shared.ErrInvalidStrategies) {
		outcome = telemetry.OutcomeInvalidStrategies
	}
	s.metrics.RecordRun(ctx, outcome, time.Since(start))
	log.Warn("Seller scorecard rejected", zap.String("outcome", outcome), zap.Error(err))
}
