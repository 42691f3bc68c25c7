// Package metrics exposes Prometheus metrics for upstream calls and
// registrations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns the service's collectors. A nil Recorder records nothing.
type Recorder struct {
	registry         *prometheus.Registry
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	registrations    *prometheus.CounterVec
	activeSessions   prometheus.Gauge
}

// NewRecorder registers the collectors on a private registry.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	r := &Recorder{
		registry: registry,
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pickupgames",
			Name:      "upstream_requests_total",
			Help:      "Requests made to the games backend by operation and outcome.",
		}, []string{"operation", "outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pickupgames",
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of games backend requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pickupgames",
			Name:      "registrations_total",
			Help:      "Registration submissions by outcome.",
		}, []string{"outcome"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pickupgames",
			Name:      "visitor_sessions",
			Help:      "Visitor sessions currently held in memory.",
		}),
	}
	registry.MustRegister(
		r.upstreamRequests,
		r.upstreamDuration,
		r.registrations,
		r.activeSessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveUpstream satisfies gamesapi.Observer.
func (r *Recorder) ObserveUpstream(operation, outcome string, duration time.Duration) {
	if r == nil {
		return
	}
	r.upstreamRequests.WithLabelValues(operation, outcome).Inc()
	r.upstreamDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordRegistration counts a submission outcome such as "success",
// "invalid", "rate_limited", "no_target" or "upstream_error".
func (r *Recorder) RecordRegistration(outcome string) {
	if r == nil {
		return
	}
	r.registrations.WithLabelValues(outcome).Inc()
}

func (r *Recorder) SetActiveSessions(n int) {
	if r == nil {
		return
	}
	r.activeSessions.Set(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
