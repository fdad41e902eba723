// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "api_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"method", "path"},
	)

	MatchScoresComputed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "match_scores_computed_total",
			Help: "Total number of applicant-job match scores computed",
		},
	)

	RecommendationsServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Total number of job recommendation requests served",
		},
	)

	DashboardQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dashboard_query_duration_seconds",
			Help: "Duration of organizer aggregation queries in seconds",
		},
		[]string{"view"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Redis cache lookups by key class and outcome",
		},
		[]string{"key", "outcome"},
	)
)
