package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics tracks request volume and latency per route.
type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewHTTPMetrics registers the HTTP collectors on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	factory := promauto.With(reg)
	return &HTTPMetrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "openshop",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests by method, route and status code.",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "openshop",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency by method and route.",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
	}
}

// WebhookMetrics tracks payment webhook outcomes.
type WebhookMetrics struct {
	EventsTotal *prometheus.CounterVec
}

// NewWebhookMetrics registers the webhook collectors on the provided registerer.
func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	factory := promauto.With(reg)
	return &WebhookMetrics{
		EventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "openshop",
				Subsystem: "webhook",
				Name:      "events_total",
				Help:      "Payment webhook events by type and outcome.",
			},
			[]string{"event_type", "outcome"},
		),
	}
}
