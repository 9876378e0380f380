// Package metrics exposes the service's Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "marketplace"

// Metrics holds the collectors of one process, registered on their own registry so
// tests can build as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	Requests    *prometheus.CounterVec
	LatencyMS   *prometheus.HistogramVec
	Commits     *prometheus.CounterVec
	Transitions *prometheus.CounterVec
	Replays     *prometheus.CounterVec
	Outbox      *prometheus.CounterVec
}

// New creates and registers the collectors, including the Go runtime ones.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"method", "route"}),
		Commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "commits_total",
			Help:      "Checkout commits by outcome.",
		}, []string{"outcome"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "order",
			Name:      "transitions_total",
			Help:      "Order lifecycle actions by outcome.",
		}, []string{"action", "outcome"}),
		Replays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "idempotency",
			Name:      "replays_total",
			Help:      "Requests answered from a stored idempotent outcome.",
		}, []string{"scope"}),
		Outbox: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "deliveries_total",
			Help:      "Outbox notification deliveries by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Requests, m.LatencyMS, m.Commits, m.Transitions, m.Replays, m.Outbox,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest counts one HTTP request. route is the registered path, not the raw URL.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.LatencyMS.WithLabelValues(method, route).Observe(float64(elapsed.Microseconds()) / 1000)
}

// ObserveCommit counts a commit under its outcome: "ok" or an error kind.
func (m *Metrics) ObserveCommit(outcome string) {
	m.Commits.WithLabelValues(outcome).Inc()
}

// ObserveTransition counts an order action under its outcome.
func (m *Metrics) ObserveTransition(action, outcome string) {
	m.Transitions.WithLabelValues(action, outcome).Inc()
}

// ObserveReplay counts a replayed response.
func (m *Metrics) ObserveReplay(scope string) {
	m.Replays.WithLabelValues(scope).Inc()
}

// ObserveOutbox counts one dispatch run.
func (m *Metrics) ObserveOutbox(delivered, failed int) {
	m.Outbox.WithLabelValues("delivered").Add(float64(delivered))
	m.Outbox.WithLabelValues("failed").Add(float64(failed))
}
