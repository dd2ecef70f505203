package ports

// Metrics puerto de métricas operativas; el adaptador Prometheus vive en infrastructure/metrics.
type Metrics interface {
	ObserveTransition(transition, outcome string)
	LedgerEntryPosted(txType string)
	DiscrepancyDetected(items int)
	VariancesFound(count int)
	CorrectionRecorded(status string)
}

// NoopMetrics descarta todo; útil en tests y comandos sin /metrics.
type NoopMetrics struct{}

func (NoopMetrics) ObserveTransition(string, string) {}
func (NoopMetrics) LedgerEntryPosted(string)         {}
func (NoopMetrics) DiscrepancyDetected(int)          {}
func (NoopMetrics) VariancesFound(int)               {}
func (NoopMetrics) CorrectionRecorded(string)        {}
