package metrics

import "github.com/prometheus/client_golang/prometheus"

// Similarity search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ticketmatch",
			Name:      "search_requests_total",
			Help:      "Total number of similarity searches",
		},
		[]string{"status"}, // "success" / "error"
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ticketmatch",
			Name:      "search_duration_seconds",
			Help:      "End-to-end similarity search duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	SearchResultsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ticketmatch",
			Name:      "search_results_returned",
			Help:      "Number of results surviving filtering and ranking",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20},
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchResultsReturned)
	searchMetricsRegistered = true
}
