package observability

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type rpcMetrics struct {
	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

type settlementMetrics struct {
	operations *prometheus.CounterVec
	feesPaid   prometheus.Counter
	disputes   *prometheus.CounterVec
}

var (
	rpcMetricsOnce sync.Once
	rpcRegistry    *rpcMetrics

	settlementMetricsOnce sync.Once
	settlementRegistry    *settlementMetrics
)

// RPCMetrics returns the lazily-initialised registry used to record JSON-RPC
// activity.
func RPCMetrics() *rpcMetrics {
	rpcMetricsOnce.Do(func() {
		rpcRegistry = &rpcMetrics{
			requests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "paywow",
				Subsystem: "rpc",
				Name:      "requests_total",
				Help:      "Total JSON-RPC requests segmented by method and outcome.",
			}, []string{"method", "outcome"}),
			errors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "paywow",
				Subsystem: "rpc",
				Name:      "errors_total",
				Help:      "Total JSON-RPC errors segmented by method and status code.",
			}, []string{"method", "status"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "paywow",
				Subsystem: "rpc",
				Name:      "request_duration_seconds",
				Help:      "Latency distribution for JSON-RPC handlers.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"method"}),
		}
		prometheus.MustRegister(
			rpcRegistry.requests,
			rpcRegistry.errors,
			rpcRegistry.latency,
		)
	})
	return rpcRegistry
}

// Observe records the outcome of an RPC request. The status code should be the
// HTTP status that was ultimately written to the response writer.
func (m *rpcMetrics) Observe(method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "unknown"
	}
	outcome := "success"
	if status >= 400 {
		outcome = "error"
	}
	m.requests.WithLabelValues(method, outcome).Inc()
	if status >= 400 {
		m.errors.WithLabelValues(method, fmt.Sprintf("%d", status)).Inc()
	}
	m.latency.WithLabelValues(method).Observe(duration.Seconds())
}

// SettlementMetrics returns the registry used to record payment engine
// activity.
func SettlementMetrics() *settlementMetrics {
	settlementMetricsOnce.Do(func() {
		settlementRegistry = &settlementMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "paywow",
				Subsystem: "settlement",
				Name:      "operations_total",
				Help:      "Total settlement operations segmented by operation and outcome.",
			}, []string{"operation", "outcome"}),
			feesPaid: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "paywow",
				Subsystem: "settlement",
				Name:      "fee_events_total",
				Help:      "Count of payments that settled a platform fee.",
			}),
			disputes: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "paywow",
				Subsystem: "settlement",
				Name:      "disputes_total",
				Help:      "Dispute lifecycle transitions segmented by outcome.",
			}, []string{"outcome"}),
		}
		prometheus.MustRegister(
			settlementRegistry.operations,
			settlementRegistry.feesPaid,
			settlementRegistry.disputes,
		)
	})
	return settlementRegistry
}

// RecordOperation records a settlement operation outcome.
func (m *settlementMetrics) RecordOperation(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}

// RecordFee counts a payment that settled a platform fee.
func (m *settlementMetrics) RecordFee() {
	if m == nil {
		return
	}
	m.feesPaid.Inc()
}

// RecordDispute records a dispute lifecycle transition.
func (m *settlementMetrics) RecordDispute(outcome string) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.disputes.WithLabelValues(outcome).Inc()
}
