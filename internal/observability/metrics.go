// Package observability holds the Prometheus collectors exported on /metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom registry served by the HTTP surface.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// APIRequests counts calls to the metrics API by endpoint and outcome (ok, not_found, error, unreachable).
var APIRequests = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ccdash",
	Subsystem: "api",
	Name:      "requests_total",
	Help:      "Requests issued to the metrics API",
}, []string{"endpoint", "outcome"})

// APILatency observes metrics API round trips.
var APILatency = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "ccdash",
	Subsystem: "api",
	Name:      "request_duration_seconds",
	Help:      "Metrics API round-trip latency",
	Buckets:   prometheus.DefBuckets,
}, []string{"endpoint"})

// ShortcutFallbacks counts shortcut endpoints that answered 404 and were replaced by the range endpoint.
var ShortcutFallbacks = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ccdash",
	Subsystem: "api",
	Name:      "shortcut_fallbacks_total",
	Help:      "Shortcut endpoints replaced by the generic range endpoint",
}, []string{"endpoint"})

// CacheLookups counts response cache lookups by result (hit, miss).
var CacheLookups = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ccdash",
	Subsystem: "cache",
	Name:      "lookups_total",
	Help:      "Response cache lookups",
}, []string{"result"})

// ViewRenders counts assembled views by name and state (ok, degraded, empty).
var ViewRenders = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ccdash",
	Subsystem: "views",
	Name:      "renders_total",
	Help:      "Views assembled",
}, []string{"view", "state"})

// HTTPRequests counts requests served by the JSON surface.
var HTTPRequests = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ccdash",
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Requests served by the dashboard HTTP surface",
}, []string{"route", "code"})
