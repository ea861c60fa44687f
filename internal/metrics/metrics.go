package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts reconciliation outcomes and access denials. A nil
// *Metrics is valid and records nothing, so services can run unmetered.
type Metrics struct {
	ReconcilesTotal   *prometheus.CounterVec
	ReconcileDuration prometheus.Histogram
	AccessDenials     prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		ReconcilesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "registration_reconciles_total",
			Help: "Total number of reconciliation requests by outcome",
		}, []string{"outcome"}),
		ReconcileDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "registration_reconcile_duration_seconds",
			Help:    "Time spent computing and applying a reconciliation",
			Buckets: prometheus.DefBuckets,
		}),
		AccessDenials: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registration_access_denials_total",
			Help: "Total number of registration updates denied by the access policy",
		}),
	}
}

func (m *Metrics) ObserveReconcile(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ReconcilesTotal.WithLabelValues(outcome).Inc()
	m.ReconcileDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveAccessDenied() {
	if m == nil {
		return
	}
	m.AccessDenials.Inc()
}
