package awssecrets

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts secret merges. A nil *Metrics records nothing.
type Metrics struct {
	merged     *prometheus.CounterVec
	failed     *prometheus.CounterVec
	properties prometheus.Counter
}

// NewMetrics registers the secret merge metrics with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		merged: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "awsconf",
			Subsystem: "secrets",
			Name:      "merged_total",
			Help:      "Secrets successfully merged into the configuration tree.",
		}, []string{"secret"}),
		failed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "awsconf",
			Subsystem: "secrets",
			Name:      "failed_total",
			Help:      "Secrets that failed to merge, by reason.",
		}, []string{"secret", "reason"}),
		properties: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "awsconf",
			Subsystem: "secrets",
			Name:      "properties_merged_total",
			Help:      "Configuration leaves written from secrets.",
		}),
	}
}

func (m *Metrics) recordMerged(secret string, props int) {
	if m == nil {
		return
	}
	m.merged.WithLabelValues(secret).Inc()
	m.properties.Add(float64(props))
}

func (m *Metrics) recordFailed(secret, reason string) {
	if m == nil {
		return
	}
	m.failed.WithLabelValues(secret, reason).Inc()
}

// Merged returns the merged counter for one secret id
func (m *Metrics) Merged(secret string) prometheus.Counter {
	return m.merged.WithLabelValues(secret)
}

// Failed returns the failure counter for one secret id and reason
func (m *Metrics) Failed(secret, reason string) prometheus.Counter {
	return m.failed.WithLabelValues(secret, reason)
}

// Properties returns the counter of leaves written from secrets
func (m *Metrics) Properties() prometheus.Counter {
	return m.properties
}
