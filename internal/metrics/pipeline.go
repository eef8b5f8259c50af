package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics.
var (
	IngestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ragdex",
			Name:      "ingest_duration_seconds",
			Help:      "Document ingestion duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	IngestChunksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ragdex",
			Name:      "ingest_chunks_total",
			Help:      "Total chunks created during ingestion",
		},
	)

	QueryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ragdex",
			Name:      "query_duration_seconds",
			Help:      "End-to-end query duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	QueryResultsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ragdex",
			Name:      "query_results_returned",
			Help:      "Number of source passages returned per query",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
	)

	CompletionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragdex",
			Name:      "completion_requests_total",
			Help:      "Total number of LLM completion requests",
		},
		[]string{"model", "purpose", "status"}, // purpose: "answer" / "hyde"
	)

	CompletionRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ragdex",
			Name:      "completion_request_duration_seconds",
			Help:      "LLM completion request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"model"},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers Prometheus pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(IngestDuration)
	prometheus.MustRegister(IngestChunksTotal)
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(QueryResultsReturned)
	prometheus.MustRegister(CompletionRequestsTotal)
	prometheus.MustRegister(CompletionRequestDuration)
	pipelineMetricsRegistered = true
}
