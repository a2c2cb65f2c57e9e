// Package metrics provides Prometheus collectors for decode and cache activity.
//
// Collectors live on a private registry owned by the viewer context, so several
// viewers (or tests) never share counters.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Decode outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeUnsupported = "unsupported"
	OutcomeMalformed   = "malformed"
	OutcomeInternal    = "internal"
	OutcomeIO          = "io"
)

// Metrics groups the collectors used by the decode pipeline.
type Metrics struct {
	registry *prometheus.Registry

	decodeResults  *prometheus.CounterVec
	decodeDuration prometheus.Histogram
	cacheRequests  *prometheus.CounterVec
	cacheEvictions prometheus.Counter
	cacheBytes     prometheus.Gauge
	queueDropped   prometheus.Counter
	staleResults   prometheus.Counter
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		decodeResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nvpix_decode_results_total",
				Help: "Decode results by outcome",
			},
			[]string{"outcome"},
		),
		decodeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "nvpix_decode_seconds",
				Help:    "Time spent reading and decoding one image",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
		),
		cacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nvpix_cache_requests_total",
				Help: "Cache lookups by result",
			},
			[]string{"result"},
		),
		cacheEvictions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "nvpix_cache_evictions_total",
				Help: "Entries evicted to stay within the memory budget",
			},
		),
		cacheBytes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "nvpix_cache_bytes",
				Help: "Approximate memory cost of cached frames",
			},
		),
		queueDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "nvpix_queue_dropped_total",
				Help: "Queued decode requests dropped before they started",
			},
		),
		staleResults: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "nvpix_stale_results_total",
				Help: "Decode results discarded because a newer navigation superseded them",
			},
		),
	}
	m.registry.MustRegister(
		m.decodeResults,
		m.decodeDuration,
		m.cacheRequests,
		m.cacheEvictions,
		m.cacheBytes,
		m.queueDropped,
		m.staleResults,
	)
	return m
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// DecodeFinished records one finished decode task.
func (m *Metrics) DecodeFinished(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.decodeResults.WithLabelValues(outcome).Inc()
	if elapsed > 0 {
		m.decodeDuration.Observe(elapsed.Seconds())
	}
}

// CacheLookup records a hit or a miss.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheRequests.WithLabelValues("hit").Inc()
	} else {
		m.cacheRequests.WithLabelValues("miss").Inc()
	}
}

// CacheEvicted records an eviction.
func (m *Metrics) CacheEvicted() {
	if m == nil {
		return
	}
	m.cacheEvictions.Inc()
}

// CacheCost sets the current cache cost in bytes.
func (m *Metrics) CacheCost(bytes int64) {
	if m == nil {
		return
	}
	m.cacheBytes.Set(float64(bytes))
}

// QueueDropped records requests dropped from the decode queue.
func (m *Metrics) QueueDropped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.queueDropped.Add(float64(n))
}

// StaleResult records a decode result that arrived for an old generation.
func (m *Metrics) StaleResult() {
	if m == nil {
		return
	}
	m.staleResults.Inc()
}

// DecodeResults returns the decode outcome counter.
func (m *Metrics) DecodeResults() *prometheus.CounterVec {
	return m.decodeResults
}

// QueueDroppedTotal returns the dropped request counter.
func (m *Metrics) QueueDroppedTotal() prometheus.Counter {
	return m.queueDropped
}

// CacheEvictionsTotal returns the eviction counter.
func (m *Metrics) CacheEvictionsTotal() prometheus.Counter {
	return m.cacheEvictions
}

// CacheBytes returns the cache cost gauge.
func (m *Metrics) CacheBytes() prometheus.Gauge {
	return m.cacheBytes
}

// StaleResultsTotal returns the stale result counter.
func (m *Metrics) StaleResultsTotal() prometheus.Counter {
	return m.staleResults
}
