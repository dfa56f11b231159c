// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RetrievalCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claimcheck_retrieval_calls_total",
			Help: "Search calls by source and outcome (ok, empty, failed, skipped)",
		},
		[]string{"source", "status"},
	)

	RetrievalDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "claimcheck_retrieval_duration_seconds",
			Help:    "Duration of search calls that reached the network",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
		},
		[]string{"source"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claimcheck_cache_hits_total",
			Help: "Search calls answered from the hit cache",
		},
		[]string{"source"},
	)

	Enrichments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claimcheck_enrichments_total",
			Help: "Article text extractions by outcome",
		},
		[]string{"outcome"},
	)

	Verdicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claimcheck_verdicts_total",
			Help: "Verdicts returned by verdict and decision path",
		},
		[]string{"verdict", "path"},
	)

	EvidenceItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "claimcheck_evidence_items",
			Help:    "Relevant evidence items scored per claim",
			Buckets: []float64{0, 1, 2, 5, 10, 15, 20},
		},
	)

	EvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "claimcheck_evaluation_duration_seconds",
			Help: "End-to-end claim evaluation time",
		},
	)
)

// ObserveCall records one search call
func ObserveCall(source, status string, d time.Duration, networked bool) {
	RetrievalCalls.WithLabelValues(source, status).Inc()
	if networked {
		RetrievalDuration.WithLabelValues(source).Observe(d.Seconds())
	}
}
