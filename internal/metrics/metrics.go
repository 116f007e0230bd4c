package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Draw Metrics
var (
	DrawsExecuted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDrawsExecuted,
			Help: HelpTextDrawsExecuted,
		},
	)

	DrawFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDrawFailures,
			Help: HelpTextDrawFailures,
		},
		[]string{LabelStage},
	)

	DrawDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameDrawDuration,
			Help:    HelpTextDrawDuration,
			Buckets: DrawLatencyBuckets,
		},
	)

	Compensations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCompensations,
			Help: HelpTextCompensations,
		},
	)

	CompensationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCompensationFail,
			Help: HelpTextCompensationFail,
		},
	)
)

// Ledger Metrics
var (
	MedalsCredited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameMedalsCredited,
			Help: HelpTextMedalsCredited,
		},
	)

	LedgerDiscrepancies = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLedgerDiscrepancies,
			Help: HelpTextLedgerDiscrepancies,
		},
	)
)

// Idempotency Metrics
var (
	IdempotencyHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameIdempotencyHits,
			Help: HelpTextIdempotencyHits,
		},
	)

	IdempotencyMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameIdempotencyMisses,
			Help: HelpTextIdempotencyMisses,
		},
	)
)
