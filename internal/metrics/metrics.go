// Package metrics defines Prometheus metrics for terrenos.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "terrenos"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HTTPRateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	})
)

// Health metrics.
var (
	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "Whether the last liveness probe succeeded (1) or failed (0).",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "Whether the last readiness probe succeeded (1) or failed (0).",
	})
)

// Recompute metrics.
var (
	RecomputeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "recompute_duration_seconds",
		Help:      "Duration of filter, sort and projection passes in seconds.",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
	}, []string{"sort"})

	RecomputeErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recompute_errors_total",
		Help:      "Total number of recomputations rejected for an invalid filter state.",
	})

	MatchedListings = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "matched_listings",
		Help:      "Number of listings surviving the filters per recomputation.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})
)

// Catalog metrics.
var (
	CatalogListings = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_listings",
		Help:      "Number of listings in the active catalog snapshot.",
	})

	CatalogSources = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_sources",
		Help:      "Number of portals in the active catalog snapshot.",
	})

	CatalogRemates = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_remates",
		Help:      "Number of remate listings in the active catalog snapshot.",
	})

	CatalogReloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_reloads_total",
		Help:      "Total number of successful catalog reloads.",
	})

	CatalogReloadErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_reload_errors_total",
		Help:      "Total number of failed catalog reloads.",
	})

	CatalogLastReloadTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_last_reload_timestamp_seconds",
		Help:      "Unix timestamp of the last successful catalog reload.",
	})
)
