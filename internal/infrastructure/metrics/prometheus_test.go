package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheus_ExportaContadores(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveTransition("send", "ok")
	m.ObserveTransition("send", "ok")
	m.ObserveTransition("send", "insufficient_stock")
	m.LedgerEntryPosted("transfer_out")
	m.DiscrepancyDetected(3)
	m.VariancesFound(2)
	m.CorrectionRecorded("pending")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	assert.Equal(t, 2.0, counterValue(t, mfs, "stock_transfer_transitions_total", map[string]string{"transition": "send", "outcome": "ok"}))
	assert.Equal(t, 1.0, counterValue(t, mfs, "stock_transfer_transitions_total", map[string]string{"transition": "send", "outcome": "insufficient_stock"}))
	assert.Equal(t, 1.0, counterValue(t, mfs, "stock_ledger_entries_total", map[string]string{"type": "transfer_out"}))
	assert.Equal(t, 1.0, counterValue(t, mfs, "stock_transfer_discrepancies_total", nil))
	assert.Equal(t, 1.0, counterValue(t, mfs, "inventory_corrections_total", map[string]string{"status": "pending"}))

	gauge := find(mfs, "stock_ledger_variances")
	require.NotNil(t, gauge)
	assert.Equal(t, 2.0, gauge.GetMetric()[0].GetGauge().GetValue())

	hist := find(mfs, "stock_transfer_discrepancy_items")
	require.NotNil(t, hist)
	assert.Equal(t, 3.0, hist.GetMetric()[0].GetHistogram().GetSampleSum())
}

func TestPrometheus_SinRegistroNoFalla(t *testing.T) {
	m := New(nil)
	assert.NotPanics(t, func() {
		m.ObserveTransition("send", "ok")
		m.LedgerEntryPosted("sale")
		m.DiscrepancyDetected(1)
		m.VariancesFound(1)
		m.CorrectionRecorded("applied")
	})
}

func counterValue(t *testing.T, mfs []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	mf := find(mfs, name)
	require.NotNil(t, mf, name)
	for _, metric := range mf.GetMetric() {
		if matches(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue()
		}
	}
	t.Fatalf("métrica %s sin etiquetas %v", name, labels)
	return 0
}

func find(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matches(pairs []*dto.LabelPair, want map[string]string) bool {
	for k, v := range want {
		found := false
		for _, p := range pairs {
			if p.GetName() == k && p.GetValue() == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
