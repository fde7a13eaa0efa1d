package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Query and upload Prometheus metrics.
var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total number of search queries by strategy and status",
		},
		[]string{"strategy", "status"},
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "End-to-end search duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"strategy"},
	)

	QueryResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_results",
			Help:      "Number of results returned per query",
			Buckets:   []float64{0, 1, 3, 5, 10, 20, 50},
		},
	)

	UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Total number of spreadsheet uploads by format and status",
		},
		[]string{"format", "status"},
	)

	RowsIndexedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_indexed_total",
			Help:      "Total number of spreadsheet rows written to the vector index",
		},
	)
)

var registerSearchOnce sync.Once

// RegisterSearchMetrics registers query and upload metrics. Safe to call more than once.
func RegisterSearchMetrics() {
	registerSearchOnce.Do(func() {
		prometheus.MustRegister(QueriesTotal)
		prometheus.MustRegister(QueryDuration)
		prometheus.MustRegister(QueryResults)
		prometheus.MustRegister(UploadsTotal)
		prometheus.MustRegister(RowsIndexedTotal)
	})
}
