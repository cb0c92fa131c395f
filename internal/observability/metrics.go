package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GenerationsTotal counts variation generations by aspect ratio and outcome.
	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lumina_generations_total",
		Help: "Total number of variation generations by aspect ratio and outcome",
	}, []string{"ratio", "outcome"})

	// CreditsSpentTotal counts credits deducted by paid operation.
	CreditsSpentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lumina_credits_spent_total",
		Help: "Total credits deducted by operation",
	}, []string{"operation"})

	// FeedEventsTotal counts public feed mutations by type.
	FeedEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lumina_feed_events_total",
		Help: "Total public feed mutations by event type",
	}, []string{"type"})

	// UpstreamLatency records latency of calls to the generative AI service.
	UpstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lumina_upstream_latency_seconds",
		Help:    "Latency of generative AI service calls in seconds",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"operation"})

	// WebSocketConnectionsTotal is the gauge of active feed event subscribers.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lumina_websocket_connections_total",
		Help: "Number of active WebSocket feed subscribers",
	})

	// WebSocketBackpressureDrops counts events dropped because a subscriber's
	// send buffer was full or closed.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lumina_websocket_backpressure_drops_total",
		Help: "Events dropped due to subscriber backpressure",
	}, []string{"reason"})
)

// TrackUpstream returns a function that records upstream call latency when
// called (e.g. defer).
func TrackUpstream(operation string) func() {
	start := time.Now()
	return func() {
		UpstreamLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
