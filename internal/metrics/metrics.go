package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "sentinel_shield"
)

var (
	// Scan Metrics
	ScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scans_total",
		Help:      "Count of deep scans by how they ended.",
	}, []string{"result"})

	FindingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "findings_total",
		Help:      "Count of scan findings emitted.",
	}, []string{"severity"})

	// Analysis Metrics
	AnalysisRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analysis_requests_total",
		Help:      "Count of model analysis requests by kind and outcome.",
	}, []string{"kind", "outcome"})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "analysis_duration_seconds",
		Help:      "Time taken by the model endpoint to answer.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})

	StaleResponsesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_analysis_responses_total",
		Help:      "Analysis responses discarded because a newer request was issued.",
	})

	// Process Metrics
	ProcessesKilledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "processes_killed_total",
		Help:      "Simulated processes terminated from the process panel.",
	})
)
