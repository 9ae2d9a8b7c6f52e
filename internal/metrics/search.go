package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_requests_total",
			Help:      "Total number of searches by outcome",
		},
		[]string{"outcome"}, // "ok" / "empty_query" / "no_results" / "retrieval_error" / "superseded"
	)

	SearchCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_candidates",
			Help:      "Candidate rows returned by the record store per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
	)

	SearchRetrievalDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_retrieval_duration_seconds",
			Help:      "Record store retrieval duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"status"},
	)
)

// Search outcomes.
const (
	OutcomeOK             = "ok"
	OutcomeEmptyQuery     = "empty_query"
	OutcomeNoResults      = "no_results"
	OutcomeRetrievalError = "retrieval_error"
	OutcomeSuperseded     = "superseded"
)

var searchMetricsOnce sync.Once

// RegisterSearchMetrics registers Prometheus search metrics. Safe to call more than once.
func RegisterSearchMetrics() {
	searchMetricsOnce.Do(func() {
		prometheus.MustRegister(SearchRequestsTotal)
		prometheus.MustRegister(SearchCandidates)
		prometheus.MustRegister(SearchRetrievalDuration)
	})
}
