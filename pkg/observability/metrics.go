// Package observability holds the Prometheus collectors shared by the HTTP
// layer and the services.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Business metrics
	WebhooksTotal       *prometheus.CounterVec
	EmailsTotal         *prometheus.CounterVec
	PushDeliveriesTotal *prometheus.CounterVec
	CacheLookupsTotal   *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics on a private
// registry together with the Go and process collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backoffice_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		WebhooksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_webhooks_total",
				Help: "Processed billing webhooks by provider and event type",
			},
			[]string{"provider", "event"},
		),
		EmailsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_emails_total",
				Help: "Email deliveries by status",
			},
			[]string{"status"},
		),
		PushDeliveriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_push_deliveries_total",
				Help: "Push notification sends by status",
			},
			[]string{"status"},
		),
		CacheLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_cache_lookups_total",
				Help: "Client view cache lookups by cache and result",
			},
			[]string{"cache", "result"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.WebhooksTotal,
		m.EmailsTotal,
		m.PushDeliveriesTotal,
		m.CacheLookupsTotal,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveHTTP(method, path, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (m *Metrics) Webhook(provider, event string) {
	if m == nil {
		return
	}
	m.WebhooksTotal.WithLabelValues(provider, event).Inc()
}

func (m *Metrics) Email(status string) {
	if m == nil {
		return
	}
	m.EmailsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) Push(status string) {
	if m == nil {
		return
	}
	m.PushDeliveriesTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) CacheLookup(cache string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookupsTotal.WithLabelValues(cache, result).Inc()
}
