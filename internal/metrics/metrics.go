// Package metrics holds the Prometheus counters of the store.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ductapedb"

// Metrics counts store mutations. A nil *Metrics is valid and records nothing.
type Metrics struct {
	rowsWritten        *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	wellsPurged        prometheus.Counter
	wellsRestored      prometheus.Counter
}

// New creates the counters and registers them with reg. A nil reg leaves
// them unregistered, which is what tests usually want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rowsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_written_total",
			Help:      "Rows inserted or replaced, by relation.",
		}, []string{"relation"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Batches rejected by a reference or precondition check, by kind.",
		}, []string{"kind"}),
		wellsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wells_purged_total",
			Help:      "Assay measurements moved to the purged relations.",
		}),
		wellsRestored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wells_restored_total",
			Help:      "Assay measurements restored from the purged relations.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.rowsWritten, m.validationFailures, m.wellsPurged, m.wellsRestored)
	}
	return m
}

func (m *Metrics) RowsWritten(relation string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rowsWritten.WithLabelValues(relation).Add(float64(n))
}

func (m *Metrics) ValidationFailed(kind string) {
	if m == nil {
		return
	}
	m.validationFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) WellsPurged(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.wellsPurged.Add(float64(n))
}

func (m *Metrics) WellsRestored(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.wellsRestored.Add(float64(n))
}
