// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
	OutcomeMiss     = "miss"
)

var (
	// Outbound provider calls (TMDb, image search, generative text).
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tvrec_provider_requests_total",
			Help: "Total outbound provider requests",
		},
		[]string{"provider", "operation", "outcome"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tvrec_provider_request_duration_seconds",
			Help:    "Outbound provider request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "operation"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tvrec_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tvrec_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Ratings
	RatingsEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tvrec_ratings_entries",
			Help: "Number of entries in the current ratings snapshot",
		},
	)

	RatingsReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tvrec_ratings_reloads_total",
			Help: "Ratings reloads by outcome",
		},
		[]string{"outcome"},
	)

	// Recommendations
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tvrec_recommendations_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	RecommendedTitles = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tvrec_recommended_titles",
			Help:    "Titles returned per recommendation request after filtering",
			Buckets: []float64{0, 5, 10, 15, 20, 30},
		},
	)

	GenAIRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tvrec_genai_request_duration_seconds",
			Help:    "Generative-text request duration in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 45},
		},
	)

	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tvrec_api_requests_total",
			Help: "Total API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tvrec_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route"},
	)

	APIRateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tvrec_api_rate_limit_hits_total",
			Help: "Requests rejected by inbound throttling",
		},
	)
)

// RecordProviderRequest records one outbound provider call.
// A nil err with miss=true counts as a lookup miss rather than a success.
func RecordProviderRequest(provider, operation string, d time.Duration, miss bool, err error) {
	outcome := OutcomeSuccess
	switch {
	case err != nil:
		outcome = OutcomeFailure
	case miss:
		outcome = OutcomeMiss
	}
	ProviderRequestsTotal.WithLabelValues(provider, operation, outcome).Inc()
	ProviderRequestDuration.WithLabelValues(provider, operation).Observe(d.Seconds())
}

// RecordProviderRejected records a call refused by an open circuit breaker.
func RecordProviderRejected(provider, operation string) {
	ProviderRequestsTotal.WithLabelValues(provider, operation, OutcomeRejected).Inc()
}

// RecordBreakerTransition updates breaker state metrics. States are "closed", "half-open", "open".
func RecordBreakerTransition(name, from, to string) {
	CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}

// RecordRatingsReload records a reload and the size of the installed snapshot.
func RecordRatingsReload(entries int, err error) {
	RatingsEntries.Set(float64(entries))
	RatingsReloadsTotal.WithLabelValues(outcome(err)).Inc()
}

// RecordRecommendation records a recommendation request and how many titles survived filtering.
func RecordRecommendation(titles int, err error) {
	RecommendationsTotal.WithLabelValues(outcome(err)).Inc()
	if err == nil {
		RecommendedTitles.Observe(float64(titles))
	}
}

// RecordGenAIRequest records a generative-text call duration.
func RecordGenAIRequest(d time.Duration) {
	GenAIRequestDuration.Observe(d.Seconds())
}

// RecordAPIRequest records an API request.
func RecordAPIRequest(method, route string, status int, d time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

func breakerStateValue(state string) float64 {
	switch state {
	case "closed":
		return 0
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return -1
	}
}
