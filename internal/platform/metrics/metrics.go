// Package metrics exposes Prometheus collectors for the API process
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bluebird"

// Metrics owns a private registry and the collectors the API records into
type Metrics struct {
	registry *prometheus.Registry
	service  string

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	webhookEvents    *prometheus.CounterVec
	analysisSubmits  *prometheus.CounterVec
	viewFetches      *prometheus.CounterVec
	sessionChecks    *prometheus.CounterVec
	eventPublishFail *prometheus.CounterVec
}

// New builds the collectors and registers them with Go/process collectors
func New(service string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		service:  service,
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "Total HTTP requests processed.",
		}, []string{"service", "method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),
		requestInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "http", Name: "in_flight_requests",
			Help: "Number of in-flight HTTP requests.", ConstLabels: prometheus.Labels{"service": service},
		}),
		webhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "webhook", Name: "events_total",
			Help: "Webhook deliveries by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		analysisSubmits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "analysis", Name: "submissions_total",
			Help: "Analysis submissions to the workflow engine by type and outcome.",
		}, []string{"type", "outcome"}),
		viewFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "views", Name: "fetches_total",
			Help: "Occurrence view re-fetches by outcome (committed, stale, error).",
		}, []string{"outcome"}),
		sessionChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "auth", Name: "session_checks_total",
			Help: "Session gate decisions by result.",
		}, []string{"result"}),
		eventPublishFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "events", Name: "publish_failures_total",
			Help: "Domain events that failed to publish, by subject.",
		}, []string{"subject"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestTotal, m.requestDuration, m.requestInFlight,
		m.webhookEvents, m.analysisSubmits, m.viewFetches, m.sessionChecks, m.eventPublishFail,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mostly for tests
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Middleware records request count, latency and in-flight gauge.
// Routes are labelled with the chi pattern so ids do not explode cardinality
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(rec, r)

		route := routePattern(r)
		m.requestTotal.WithLabelValues(m.service, r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.requestDuration.WithLabelValues(m.service, r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// WebhookEvent counts one webhook delivery
func (m *Metrics) WebhookEvent(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.webhookEvents.WithLabelValues(endpoint, orUnknown(outcome)).Inc()
}

// AnalysisSubmitted counts one submission to the analysis engine
func (m *Metrics) AnalysisSubmitted(kind, outcome string) {
	if m == nil {
		return
	}
	m.analysisSubmits.WithLabelValues(orUnknown(kind), orUnknown(outcome)).Inc()
}

// ViewFetch counts one view re-fetch outcome
func (m *Metrics) ViewFetch(outcome string) {
	if m == nil {
		return
	}
	m.viewFetches.WithLabelValues(orUnknown(outcome)).Inc()
}

// SessionCheck counts one gate decision
func (m *Metrics) SessionCheck(result string) {
	if m == nil {
		return
	}
	m.sessionChecks.WithLabelValues(orUnknown(result)).Inc()
}

// PublishFailed counts one failed event publish
func (m *Metrics) PublishFailed(subject string) {
	if m == nil {
		return
	}
	m.eventPublishFail.WithLabelValues(orUnknown(subject)).Inc()
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
