// Package metrics holds the Prometheus collectors for the matching service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AssignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tavara_auto_assignments_total",
			Help: "Automatic assignment invocations by outcome",
		},
		[]string{"outcome", "trigger_type"},
	)

	AssignmentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tavara_auto_assignment_duration_seconds",
			Help:    "Duration of an automatic assignment pass in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	CandidatesEvaluated = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tavara_match_candidates_evaluated",
			Help:    "Number of caregivers scored per assignment pass",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	MatchScores = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tavara_match_score",
			Help:    "Distribution of computed match scores",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
		[]string{"path"},
	)

	MatchCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tavara_match_cache_requests_total",
			Help: "Presenter result cache lookups by result",
		},
		[]string{"backend", "result"},
	)

	HookFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tavara_assignment_hook_failures_total",
			Help: "Post-assignment hook failures",
		},
		[]string{"hook"},
	)
)
