package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
var (
	AttrOutcome     = attribute.Key("outcome")
	AttrAnomalyKind = attribute.Key("anomaly_kind")
)

// Run outcomes
const (
	OutcomeSuccess           = "success"
	OutcomeInvalidInput      = "invalid_input"
	OutcomeInvalidStrategies = "invalid_strategies"
)

// Metric names
const (
	MetricRunsTotal      = "sales_analysis_runs_total"
	MetricReceiptsTotal  = "sales_analysis_receipts_total"
	MetricLineItemsTotal = "sales_analysis_line_items_total"
	MetricAnomaliesTotal = "sales_analysis_anomalies_total"
	MetricRunDuration    = "sales_analysis_run_duration_seconds"
)

// AnalysisMetrics records counters for scorecard runs.
// A nil *AnalysisMetrics is valid and records nothing.
type AnalysisMetrics struct {
	runsTotal      *Counter
	receiptsTotal  *Counter
	lineItemsTotal *Counter
	anomaliesTotal *Counter
	runDuration    *Histogram
}

// NewAnalysisMetrics creates the analysis instruments on meter
func NewAnalysisMetrics(meter metric.Meter) (*AnalysisMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &AnalysisMetrics{}
	var err error

	if m.runsTotal, err = NewCounter(meter, MetricRunsTotal, "Total number of scorecard runs", "{runs}"); err != nil {
		return nil, err
	}
	if m.receiptsTotal, err = NewCounter(meter, MetricReceiptsTotal, "Receipts accumulated into a seller", "{receipts}"); err != nil {
		return nil, err
	}
	if m.lineItemsTotal, err = NewCounter(meter, MetricLineItemsTotal, "Line items accumulated into a seller", "{items}"); err != nil {
		return nil, err
	}
	if m.anomaliesTotal, err = NewCounter(meter, MetricAnomaliesTotal, "Orphan references found while accumulating", "{anomalies}"); err != nil {
		return nil, err
	}
	if m.runDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        MetricRunDuration,
		Description: "Duration of a scorecard run",
		Unit:        "s",
		Boundaries:  []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}); err != nil {
		return nil, err
	}

	return m, nil
}

// NewGlobalAnalysisMetrics creates the instruments on the global meter provider
func NewGlobalAnalysisMetrics() (*AnalysisMetrics, error) {
	return NewAnalysisMetrics(otel.GetMeterProvider().Meter(TracerName))
}

// RecordRun records one run with its outcome and duration
func (m *AnalysisMetrics) RecordRun(ctx context.Context, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.runsTotal.Inc(ctx, AttrOutcome.String(outcome))
	m.runDuration.RecordDuration(ctx, d, AttrOutcome.String(outcome))
}

// RecordAccumulation records how many receipts and line items were accumulated
func (m *AnalysisMetrics) RecordAccumulation(ctx context.Context, receipts, lineItems int64) {
	if m == nil {
		return
	}
	m.receiptsTotal.Add(ctx, receipts)
	m.lineItemsTotal.Add(ctx, lineItems)
}

// RecordAnomaly counts one anomaly of the given kind
func (m *AnalysisMetrics) RecordAnomaly(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.anomaliesTotal.Inc(ctx, AttrAnomalyKind.String(kind))
}
