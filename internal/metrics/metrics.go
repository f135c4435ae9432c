// Package metrics exposes Prometheus collectors for discovery and relationship toggles.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DiscoveryRequests counts search/suggest calls by kind and outcome.
	DiscoveryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcha_discovery_requests_total",
			Help: "Discovery requests by kind (search, suggest) and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	// DiscoveryDuration records discovery latency in seconds.
	DiscoveryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matcha_discovery_duration_seconds",
			Help:    "Duration of discovery requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// DiscoveryResults observes result-set sizes.
	DiscoveryResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matcha_discovery_results",
			Help:    "Number of profiles returned per discovery request.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"kind"},
	)

	// Toggles counts relationship transitions that changed state.
	Toggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcha_relationship_toggles_total",
			Help: "Relationship toggles that changed state, by relation and direction.",
		},
		[]string{"relation", "direction"},
	)

	// Matches counts connected (+) and disconnected (-) transitions.
	Matches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcha_matches_total",
			Help: "Mutual-like transitions by outcome (connected, disconnected).",
		},
		[]string{"outcome"},
	)

	// EventsEmitted counts notification events written, deduplicated ones included.
	EventsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcha_events_emitted_total",
			Help: "Notification events emitted by type.",
		},
		[]string{"type"},
	)

	// RPCDuration records gRPC handler latency by method and code.
	RPCDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matcha_grpc_handling_seconds",
			Help:    "gRPC handler latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "code"},
	)
)

// ObserveDiscovery records one discovery call.
func ObserveDiscovery(kind string, start time.Time, results int, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	DiscoveryRequests.WithLabelValues(kind, outcome).Inc()
	DiscoveryDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err == nil {
		DiscoveryResults.WithLabelValues(kind).Observe(float64(results))
	}
}

// ObserveToggle records a state-changing relationship toggle.
func ObserveToggle(relation string, active bool) {
	direction := "off"
	if active {
		direction = "on"
	}
	Toggles.WithLabelValues(relation, direction).Inc()
}
