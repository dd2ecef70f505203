// Package metrics adapta ports.Metrics a Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/traslados-api/internal/application/ports"
)

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus contadores de traslados, libro y correcciones.
type Prometheus struct {
	transitions   *prometheus.CounterVec
	ledgerEntries *prometheus.CounterVec
	discrepancies prometheus.Counter
	discrepItems  prometheus.Histogram
	variances     prometheus.Gauge
	corrections   *prometheus.CounterVec
}

// New registra las métricas en reg. Con reg nil devuelve un adaptador que no hace nada.
func New(reg prometheus.Registerer) *Prometheus {
	if reg == nil {
		return &Prometheus{}
	}
	p := &Prometheus{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stock_transfer_transitions_total",
			Help: "Transiciones de traslados por tipo y resultado.",
		}, []string{"transition", "outcome"}),
		ledgerEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stock_ledger_entries_total",
			Help: "Asientos escritos en el libro de inventario por tipo.",
		}, []string{"type"}),
		discrepancies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stock_transfer_discrepancies_total",
			Help: "Traslados verificados con diferencias.",
		}),
		discrepItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stock_transfer_discrepancy_items",
			Help:    "Ítems con diferencia por traslado verificado.",
			Buckets: []float64{1, 2, 5, 10, 25, 50},
		}),
		variances: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stock_ledger_variances",
			Help: "Llaves cuyo snapshot difiere del libro en la última revisión.",
		}),
		corrections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_corrections_total",
			Help: "Correcciones de inventario por estado resultante.",
		}, []string{"status"}),
	}
	reg.MustRegister(p.transitions, p.ledgerEntries, p.discrepancies, p.discrepItems, p.variances, p.corrections)
	return p
}

func (p *Prometheus) ObserveTransition(transition, outcome string) {
	if p == nil || p.transitions == nil {
		return
	}
	p.transitions.WithLabelValues(normalizeLabel(transition), normalizeLabel(outcome)).Inc()
}

func (p *Prometheus) LedgerEntryPosted(txType string) {
	if p == nil || p.ledgerEntries == nil {
		return
	}
	p.ledgerEntries.WithLabelValues(normalizeLabel(txType)).Inc()
}

func (p *Prometheus) DiscrepancyDetected(items int) {
	if p == nil || p.discrepancies == nil {
		return
	}
	p.discrepancies.Inc()
	p.discrepItems.Observe(float64(items))
}

func (p *Prometheus) VariancesFound(count int) {
	if p == nil || p.variances == nil {
		return
	}
	p.variances.Set(float64(count))
}

func (p *Prometheus) CorrectionRecorded(status string) {
	if p == nil || p.corrections == nil {
		return
	}
	p.corrections.WithLabelValues(normalizeLabel(status)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
