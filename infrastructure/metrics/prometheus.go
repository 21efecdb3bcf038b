// ABOUTME: Prometheus collectors for the resolution pipeline and the HTTP surface
// ABOUTME: Implements the Metrics interface on an injected registry

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"otakubantu-api/core/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus records pipeline events. Create one per registry.
type Prometheus struct {
	registry *prometheus.Registry

	attemptsTotal          *prometheus.CounterVec
	attemptDurationSeconds *prometheus.HistogramVec
	resolutionsTotal       *prometheus.CounterVec
	cacheLookupsTotal      *prometheus.CounterVec
	rateLimitedTotal       prometheus.Counter
	httpRequestsTotal      *prometheus.CounterVec
	httpDurationSeconds    *prometheus.HistogramVec
}

// NewPrometheus registers every collector on a fresh registry, together with
// the Go runtime and process collectors
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Prometheus{
		registry: reg,
		attemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resolver_attempts_total",
				Help: "Source attempts, labeled by source and outcome.",
			},
			[]string{"source", "outcome"},
		),
		attemptDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "resolver_attempt_duration_seconds",
				Help:    "Latency of source attempts, labeled by source.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"source"},
		),
		resolutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resolver_resolutions_total",
				Help: "Completed cascades, labeled by request kind and whether every source was exhausted.",
			},
			[]string{"kind", "exhausted"},
		),
		cacheLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "result_cache_lookups_total",
				Help: "Result cache lookups, labeled by hit or miss.",
			},
			[]string{"result"},
		),
		rateLimitedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "rate_limited_requests_total",
				Help: "Requests rejected by the per-client rate limiter.",
			},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		),
		httpDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		),
	}
}

// ObserveAttempt records one source attempt
func (p *Prometheus) ObserveAttempt(source string, outcome domain.Outcome, latency time.Duration) {
	p.attemptsTotal.WithLabelValues(source, string(outcome)).Inc()
	p.attemptDurationSeconds.WithLabelValues(source).Observe(latency.Seconds())
}

// ObserveResolution records the end of a cascade
func (p *Prometheus) ObserveResolution(kind domain.RequestKind, exhausted bool) {
	p.resolutionsTotal.WithLabelValues(string(kind), strconv.FormatBool(exhausted)).Inc()
}

// CacheLookup records a cache hit or miss
func (p *Prometheus) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	p.cacheLookupsTotal.WithLabelValues(result).Inc()
}

// RateLimited records a rejected admission
func (p *Prometheus) RateLimited() {
	p.rateLimitedTotal.Inc()
}

// ObserveHTTPRequest records one served HTTP request
func (p *Prometheus) ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	p.httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	p.httpDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler exposes the registry in the Prometheus text format
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}
