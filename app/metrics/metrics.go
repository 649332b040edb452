package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medrag_http_requests_total",
		Help: "HTTP requests by path and status code.",
	}, []string{"path", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "medrag_http_request_duration_seconds",
		Help:    "HTTP request latency by path.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})

	QueriesAbstained = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medrag_queries_abstained_total",
		Help: "Queries refused because retrieval confidence was too low.",
	})

	AnswersMissingCitations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medrag_answers_missing_citations_total",
		Help: "Generated answers rejected by the citation gate.",
	})
)
