package services

import (
	"net/http"

	"github.com/intentlane-hq/intentlane/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService handles Prometheus metrics collection and exposition
type MetricsService struct {
	settlementsTotal       *prometheus.CounterVec
	fulfillmentEventsTotal prometheus.Counter
	settlementFailures     *prometheus.CounterVec
	dispatchLatency        *prometheus.HistogramVec
	solverSelectionsTotal  *prometheus.CounterVec
	stakeEventsTotal       *prometheus.CounterVec
	eventWriteErrors       prometheus.Counter
	baselineLatency        prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetricsService creates a metrics service with its own registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	settlementsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intentlane_settlements_total",
			Help: "Number of successful intent settlements",
		},
		[]string{"mechanism"},
	)

	fulfillmentEventsTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "intentlane_fulfillment_events_total",
			Help: "Number of fulfillment events persisted to the event store",
		},
	)

	settlementFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intentlane_settlement_failures_total",
			Help: "Number of failed settlement attempts by failure kind",
		},
		[]string{"mechanism", "reason"},
	)

	dispatchLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "intentlane_dispatch_latency_seconds",
			Help:    "Solver selection latency per dispatch mechanism",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		},
		[]string{"mechanism"},
	)

	solverSelectionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intentlane_solver_selections_total",
			Help: "Number of times each solver was selected by a mechanism",
		},
		[]string{"mechanism", "solver"},
	)

	stakeEventsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intentlane_stake_events_total",
			Help: "Number of stake deposits and withdrawals",
		},
		[]string{"kind"},
	)

	eventWriteErrors := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "intentlane_event_write_errors_total",
			Help: "Number of failed event store writes",
		},
	)

	baselineLatency := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "intentlane_baseline_roundtrip_seconds",
			Help:    "Lock/unlock round-trip latency of the baseline bridge",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		},
	)

	registry.MustRegister(
		settlementsTotal,
		fulfillmentEventsTotal,
		settlementFailures,
		dispatchLatency,
		solverSelectionsTotal,
		stakeEventsTotal,
		eventWriteErrors,
		baselineLatency,
	)

	return &MetricsService{
		settlementsTotal:       settlementsTotal,
		fulfillmentEventsTotal: fulfillmentEventsTotal,
		settlementFailures:     settlementFailures,
		dispatchLatency:        dispatchLatency,
		solverSelectionsTotal:  solverSelectionsTotal,
		stakeEventsTotal:       stakeEventsTotal,
		eventWriteErrors:       eventWriteErrors,
		baselineLatency:        baselineLatency,
		registry:               registry,
	}
}

// Handler returns the Prometheus exposition handler for this registry.
func (m *MetricsService) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordFulfillment counts a persisted fulfillment event. Settlements are
// counted separately by RecordSettlement; a benchmark-driven settlement
// passes through both, once per counter.
func (m *MetricsService) RecordFulfillment(event *models.FulfillmentEvent) {
	m.fulfillmentEventsTotal.Inc()
}

// RecordSettlement counts a settlement attributed to a dispatch mechanism.
func (m *MetricsService) RecordSettlement(mechanism models.Mechanism) {
	m.settlementsTotal.WithLabelValues(string(mechanism)).Inc()
}

// RecordSettlementFailure counts a failed settlement attempt.
func (m *MetricsService) RecordSettlementFailure(mechanism models.Mechanism, reason string) {
	m.settlementFailures.WithLabelValues(string(mechanism), reason).Inc()
}

// RecordSelection observes a dispatch selection and its latency.
func (m *MetricsService) RecordSelection(mechanism models.Mechanism, selection *models.Selection) {
	m.dispatchLatency.WithLabelValues(string(mechanism)).Observe(selection.Latency.Seconds())
	m.solverSelectionsTotal.WithLabelValues(string(mechanism), selection.Solver.Hex()).Inc()
}

// RecordStake counts a stake event.
func (m *MetricsService) RecordStake(event *models.StakeEvent) {
	m.stakeEventsTotal.WithLabelValues(string(event.Kind)).Inc()
}

// RecordEventWriteError counts a failed event store write.
func (m *MetricsService) RecordEventWriteError() {
	m.eventWriteErrors.Inc()
}

// RecordBaselineRoundTrip observes one lock/unlock round trip.
func (m *MetricsService) RecordBaselineRoundTrip(seconds float64) {
	m.baselineLatency.Observe(seconds)
}
