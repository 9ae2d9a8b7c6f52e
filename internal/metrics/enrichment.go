package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Enrichment Prometheus metrics.
var (
	EnrichmentProfilesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "enrichment_profiles_total",
			Help:      "Profiles processed by the enrichment job",
		},
		[]string{"status"}, // "completed" / "failed"
	)

	EnrichmentProviderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "enrichment_provider_duration_seconds",
			Help:      "Biography provider call duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider"},
	)

	EnrichmentRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "enrichment_runs_total",
			Help:      "Total enrichment batch runs",
		},
	)
)

var enrichmentMetricsOnce sync.Once

// RegisterEnrichmentMetrics registers Prometheus enrichment metrics. Safe to call more than once.
func RegisterEnrichmentMetrics() {
	enrichmentMetricsOnce.Do(func() {
		prometheus.MustRegister(EnrichmentProfilesTotal)
		prometheus.MustRegister(EnrichmentProviderDuration)
		prometheus.MustRegister(EnrichmentRunsTotal)
	})
}
