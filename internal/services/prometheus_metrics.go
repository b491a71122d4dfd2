package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric names understood by PrometheusMetrics.
const (
	MetricTransactionWritten  = "transaction.written"
	MetricTransactionImported = "transaction.imported"
	MetricBudgetAlert         = "budget.alert"
	MetricAuthEvents          = "auth.event"
	MetricCacheHit            = "analytics.cache.hit"
	MetricCacheMiss           = "analytics.cache.miss"
	MetricCircuitBreakerState = "circuit_breaker.state"

	MetricAnalyticsDuration = "analytics.summarize"
	MetricPublishDuration   = "events.publish"
)

type PrometheusMetrics struct {
	transactionsWritten *prometheus.CounterVec
	budgetAlerts        *prometheus.CounterVec
	authEvents          *prometheus.CounterVec
	analyticsCache      *prometheus.CounterVec
	analyticsDuration   prometheus.Histogram
	publishDuration     prometheus.Histogram
	circuitBreakerState *prometheus.GaugeVec
}

// NewPrometheusMetrics registers the collectors with reg, or with the default
// registry when reg is nil.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		transactionsWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_transactions_written_total",
				Help: "Total number of transactions created, updated, deleted or imported",
			},
			[]string{"operation", "type"},
		),
		budgetAlerts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_budget_alerts_total",
				Help: "Total number of budget exceeded alerts",
			},
			[]string{"status"},
		),
		authEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_authentication_events_total",
				Help: "Total number of authentication events",
			},
			[]string{"event", "outcome"},
		),
		analyticsCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_analytics_cache_requests_total",
				Help: "Analytics cache lookups by result",
			},
			[]string{"result"},
		),
		analyticsDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fintrack_analytics_duration_milliseconds",
				Help:    "Time to load and aggregate an analytics summary",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		publishDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fintrack_event_publish_duration_milliseconds",
				Help:    "Time to publish a budget alert",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		circuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fintrack_circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"service"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case MetricTransactionWritten:
		m.transactionsWritten.WithLabelValues(tags["operation"], tags["type"]).Inc()
	case MetricTransactionImported:
		m.transactionsWritten.WithLabelValues("import", tags["type"]).Inc()
	case MetricBudgetAlert:
		m.budgetAlerts.WithLabelValues(tags["status"]).Inc()
	case MetricAuthEvents:
		m.authEvents.WithLabelValues(tags["event"], tags["outcome"]).Inc()
	case MetricCacheHit:
		m.analyticsCache.WithLabelValues("hit").Inc()
	case MetricCacheMiss:
		m.analyticsCache.WithLabelValues("miss").Inc()
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case MetricAnalyticsDuration:
		m.analyticsDuration.Observe(float64(duration.Milliseconds()))
	case MetricPublishDuration:
		m.publishDuration.Observe(float64(duration.Milliseconds()))
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	if name == MetricCircuitBreakerState {
		m.circuitBreakerState.WithLabelValues(tags["service"]).Set(value)
	}
}
