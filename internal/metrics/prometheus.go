package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Event pipeline metrics
	EventsPublished   *prometheus.CounterVec
	PublishFailures   *prometheus.CounterVec
	PublishDuration   prometheus.Histogram
	EventsConsumed    *prometheus.CounterVec
	ConsumerState     prometheus.Gauge
	ConsumerRetries   prometheus.Counter
	TenantsReplicated *prometheus.CounterVec
}

// Consumer outcomes recorded on EventsConsumed.
const (
	OutcomeCommitted = "committed"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
	OutcomeIgnored   = "ignored"
)

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_http_requests_total",
				Help: "Total number of HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),

		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "catalog_http_request_duration_seconds",
				Help:    "Duration of HTTP request processing",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_events_published_total",
				Help: "Total number of events acknowledged by the broker",
			},
			[]string{"event_type"},
		),

		PublishFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_event_publish_failures_total",
				Help: "Total number of events the broker did not acknowledge",
			},
			[]string{"event_type"},
		),

		PublishDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "catalog_event_publish_duration_seconds",
				Help:    "Time spent waiting for broker acknowledgement",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
		),

		EventsConsumed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_events_consumed_total",
				Help: "Total number of consumed events by type and outcome",
			},
			[]string{"event_type", "outcome"},
		),

		ConsumerState: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "catalog_consumer_state",
				Help: "Tenant events consumer state (0 disconnected, 1 connected, 2 stopped)",
			},
		),

		ConsumerRetries: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "catalog_consumer_connect_retries_total",
				Help: "Total number of failed consumer connection attempts",
			},
		),

		TenantsReplicated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_tenants_replicated_total",
				Help: "Tenant replica changes by operation and result",
			},
			[]string{"operation", "result"},
		),
	}
}

func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, statusClass(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) RecordPublish(eventType string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.PublishDuration.Observe(duration.Seconds())
	if err != nil {
		m.PublishFailures.WithLabelValues(eventType).Inc()
		return
	}
	m.EventsPublished.WithLabelValues(eventType).Inc()
}

func (m *Metrics) RecordConsumed(eventType, outcome string) {
	if m == nil {
		return
	}
	if eventType == "" {
		eventType = "unknown"
	}
	m.EventsConsumed.WithLabelValues(eventType, outcome).Inc()
}

func (m *Metrics) SetConsumerState(state int) {
	if m == nil {
		return
	}
	m.ConsumerState.Set(float64(state))
}

func (m *Metrics) IncConsumerRetries() {
	if m == nil {
		return
	}
	m.ConsumerRetries.Inc()
}

func (m *Metrics) RecordTenantReplication(operation, result string) {
	if m == nil {
		return
	}
	m.TenantsReplicated.WithLabelValues(operation, result).Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
