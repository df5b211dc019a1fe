package telemetry

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findFamily(families []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}

func sampleSnapshot() RunSnapshot {
	return RunSnapshot{
		Finished:        time.Unix(1700000000, 0),
		Duration:        1500 * time.Millisecond,
		Success:         true,
		Sellers:         3,
		PurchaseRecords: 12,
		Anomalies:       map[string]int{"orphan_seller": 1, "orphan_product": 2},
		TotalProfit:     120.5,
		TotalBonus:      18.25,
	}
}

func TestNewSnapshotRegistry(t *testing.T) {
	registry, err := NewSnapshotRegistry(sampleSnapshot())
	require.NoError(t, err)

	families, err := registry.Gather()
	require.NoError(t, err)

	expected := map[string]float64{
		MetricLastRunTimestamp: 1700000000,
		MetricLastRunDuration:  1.5,
		MetricLastRunSuccess:   1,
		MetricSellers:          3,
		MetricPurchaseRecords:  12,
		MetricTotalProfit:      120.5,
		MetricTotalBonus:       18.25,
	}
	for name, value := range expected {
		family := findFamily(families, name)
		require.NotNil(t, family, name)
		assert.Equal(t, dto.MetricType_GAUGE, family.GetType())
		require.Len(t, family.GetMetric(), 1)
		assert.Equal(t, value, family.GetMetric()[0].GetGauge().GetValue(), name)
	}

	anomalies := findFamily(families, MetricAnomalies)
	require.NotNil(t, anomalies)
	byKind := make(map[string]float64)
	for _, m := range anomalies.GetMetric() {
		require.Len(t, m.GetLabel(), 1)
		byKind[m.GetLabel()[0].GetValue()] = m.GetGauge().GetValue()
	}
	assert.Equal(t, map[string]float64{"orphan_seller": 1, "orphan_product": 2}, byKind)
}

func TestNewSnapshotRegistry_FailedRun(t *testing.T) {
	registry, err := NewSnapshotRegistry(RunSnapshot{Finished: time.Unix(10, 0)})
	require.NoError(t, err)

	families, err := registry.Gather()
	require.NoError(t, err)

	success := findFamily(families, MetricLastRunSuccess)
	require.NotNil(t, success)
	assert.Equal(t, 0.0, success.GetMetric()[0].GetGauge().GetValue())

	// a vec without children is not gathered
	assert.Nil(t, findFamily(families, MetricAnomalies))
}

func TestWriteTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales_bonus.prom")

	require.NoError(t, WriteTextfile(path, sampleSnapshot()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "# TYPE sales_bonus_sellers gauge")
	assert.Contains(t, text, "sales_bonus_sellers 3")
	assert.Contains(t, text, `sales_bonus_anomalies{kind="orphan_product"} 2`)
	assert.Contains(t, text, "sales_bonus_total_bonus 18.25")
}

func TestWriteTextfile_EmptyPath(t *testing.T) {
	assert.ErrorIs(t, WriteTextfile("", sampleSnapshot()), ErrNoMetricsPath)
}

func TestAnomalyTally(t *testing.T) {
	tally := NewAnomalyTally()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tally.Add("orphan_product")
		}()
	}
	wg.Wait()
	tally.Add("orphan_seller")

	counts := tally.Counts()
	assert.Equal(t, map[string]int{"orphan_product": 10, "orphan_seller": 1}, counts)

	counts["orphan_seller"] = 99
	assert.Equal(t, 1, tally.Counts()["orphan_seller"])
}
