package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Tracks execution reports flowing through the reconciliation path.
	// result = "applied" | "unmatched" | "skipped" | "dropped"
	ExecReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fix_exec_reports_total",
			Help: "Total number of execution reports processed, by reconciliation result.",
		},
		[]string{"result"},
	)

	// Tracks orders created via the API, by initial status.
	OrdersCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fix_orders_created_total",
			Help: "Total number of orders created, by initial status.",
		},
		[]string{"status"},
	)

	// Gauges the FIX initiator connection state (0=stopped 1=starting 2=running 3=error).
	InitiatorState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fix_initiator_state",
			Help: "Current FIX initiator state (0=stopped, 1=starting, 2=running, 3=error).",
		},
	)

	// Tracks NATS messages published by subject and result.
	NATSMessageCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_messages_total",
			Help: "Total number of NATS messages published.",
		},
		[]string{"subject", "result"}, // result = "ok" | "error"
	)

	NATSMessageLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nats_message_latency_seconds",
			Help:    "Time taken to publish NATS messages",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"subject"},
	)

	// Tracks cache hits and misses for secrets / credentials.
	SecretsCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "secrets_cache_access_total",
			Help: "Number of cache hits/misses in secret cache.",
		},
		[]string{"result"}, // hit | miss
	)

	// Tracks total errors (aggregated).
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adapter_errors_total",
			Help: "Count of adapter-level errors by component.",
		},
		[]string{"component", "reason"},
	)
)

// ObserveDuration records the time taken since start on the given histogram.
func ObserveDuration(v interface{}, start time.Time, labels ...string) {
	duration := time.Since(start).Seconds()

	switch metric := v.(type) {
	case *prometheus.HistogramVec:
		metric.WithLabelValues(labels...).Observe(duration)
	case *prometheus.SummaryVec:
		metric.WithLabelValues(labels...).Observe(duration)
	default:
		// silently ignore counters; they're not meant for duration tracking
	}
}

func IncExecReport(result string) {
	ExecReportsTotal.WithLabelValues(result).Inc()
}

func IncOrderCreated(status string) {
	OrdersCreatedTotal.WithLabelValues(status).Inc()
}

func SetInitiatorState(state float64) {
	InitiatorState.Set(state)
}

func IncNATSMessage(subject, result string) {
	NATSMessageCount.WithLabelValues(subject, result).Inc()
}

func IncCacheHit(result string) {
	SecretsCacheHits.WithLabelValues(result).Inc()
}

func IncError(component, reason string) {
	ErrorsTotal.WithLabelValues(component, reason).Inc()
}
