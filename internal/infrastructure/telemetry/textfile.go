package telemetry

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Textfile metric names. The file is meant for the node_exporter textfile collector.
const (
	MetricLastRunTimestamp = "sales_bonus_last_run_timestamp_seconds"
	MetricLastRunDuration  = "sales_bonus_last_run_duration_seconds"
	MetricLastRunSuccess   = "sales_bonus_last_run_success"
	MetricSellers          = "sales_bonus_sellers"
	MetricPurchaseRecords  = "sales_bonus_purchase_records"
	MetricAnomalies        = "sales_bonus_anomalies"
	MetricTotalProfit      = "sales_bonus_total_profit"
	MetricTotalBonus       = "sales_bonus_total_bonus"
)

// ErrNoMetricsPath is returned when a snapshot is written without a destination
var ErrNoMetricsPath = errors.New("metrics path is empty")

// RunSnapshot is the outcome of one analysis run, flattened for export
type RunSnapshot struct {
	Finished        time.Time
	Duration        time.Duration
	Success         bool
	Sellers         int
	PurchaseRecords int
	Anomalies       map[string]int // by anomaly kind
	TotalProfit     float64
	TotalBonus      float64
}

// AnomalyTally counts anomalies by kind. Safe for concurrent use.
type AnomalyTally struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewAnomalyTally creates an empty tally
func NewAnomalyTally() *AnomalyTally {
	return &AnomalyTally{counts: make(map[string]int)}
}

// Add records one anomaly of kind
func (t *AnomalyTally) Add(kind string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[kind]++
}

// Counts returns a copy of the tally
func (t *AnomalyTally) Counts() map[string]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]int, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}

// NewSnapshotRegistry builds a registry holding one gauge per snapshot field
func NewSnapshotRegistry(s RunSnapshot) (*prometheus.Registry, error) {
	registry := prometheus.NewRegistry()

	gauge := func(name, help string, value float64) error {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
		g.Set(value)
		return registry.Register(g)
	}

	success := 0.0
	if s.Success {
		success = 1
	}
	gauges := []struct {
		name  string
		help  string
		value float64
	}{
		{MetricLastRunTimestamp, "Unix time the last scorecard run finished", float64(s.Finished.UnixNano()) / 1e9},
		{MetricLastRunDuration, "Duration of the last scorecard run in seconds", s.Duration.Seconds()},
		{MetricLastRunSuccess, "1 if the last scorecard run succeeded", success},
		{MetricSellers, "Sellers in the last scorecard", float64(s.Sellers)},
		{MetricPurchaseRecords, "Purchase records in the last dataset", float64(s.PurchaseRecords)},
		{MetricTotalProfit, "Total profit across the last scorecard", s.TotalProfit},
		{MetricTotalBonus, "Total bonus across the last scorecard", s.TotalBonus},
	}
	for _, g := range gauges {
		if err := gauge(g.name, g.help, g.value); err != nil {
			return nil, err
		}
	}

	anomalies := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: MetricAnomalies,
		Help: "Anomalies reported during the last scorecard run",
	}, []string{"kind"})
	for kind, n := range s.Anomalies {
		anomalies.WithLabelValues(kind).Set(float64(n))
	}
	if err := registry.Register(anomalies); err != nil {
		return nil, err
	}

	return registry, nil
}

// WriteTextfile writes the snapshot in Prometheus text format to path.
// The file is replaced atomically.
func WriteTextfile(path string, s RunSnapshot) error {
	if path == "" {
		return ErrNoMetricsPath
	}
	registry, err := NewSnapshotRegistry(s)
	if err != nil {
		return err
	}
	return prometheus.WriteToTextfile(path, registry)
}
