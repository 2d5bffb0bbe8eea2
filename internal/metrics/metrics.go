// Package metrics exposes Prometheus collectors for the session service
// and the backend client.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they need.
type Metrics struct {
	reg *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	backendCalls  *prometheus.CounterVec
	backendTiming *prometheus.HistogramVec
	sessionEvents *prometheus.CounterVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cinema",
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cinema",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		backendCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cinema",
			Name:      "backend_calls_total",
			Help:      "Calls to the cinema backend, by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		backendTiming: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cinema",
			Name:      "backend_call_duration_seconds",
			Help:      "Latency of calls to the cinema backend.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		sessionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cinema",
			Name:      "booking_session_events_total",
			Help:      "Booking session operations, by operation and result.",
		}, []string{"op", "result"}),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration, m.backendCalls, m.backendTiming, m.sessionEvents,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route, status string, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveBackend records one backend call.  Its signature matches
// api.Observer.
func (m *Metrics) ObserveBackend(endpoint, outcome string, elapsed time.Duration) {
	m.backendCalls.WithLabelValues(endpoint, outcome).Inc()
	m.backendTiming.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// SessionEvent counts one session operation.
func (m *Metrics) SessionEvent(op, result string) {
	m.sessionEvents.WithLabelValues(op, result).Inc()
}
