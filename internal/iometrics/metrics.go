// Package iometrics keeps Prometheus metrics of lookups, cache and
// imports.
package iometrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LookupRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wilayah_lookup_requests_total",
		Help: "Total number of lookup requests by level",
	}, []string{"level"})
	LookupDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wilayah_lookup_duration_ms",
		Help:    "Lookup duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"level"})
	LookupEmptyTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wilayah_lookup_empty_total",
		Help: "Total number of lookups with empty result",
	}, []string{"level"})
	LookupInvalidTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wilayah_lookup_invalid_total",
		Help: "Total number of rejected lookup queries",
	})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wilayah_cache_hits_total",
		Help: "Total redis cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wilayah_cache_misses_total",
		Help: "Total redis cache misses",
	})
	CacheErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wilayah_cache_errors_total",
		Help: "Total redis cache failures",
	})
	ImportRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wilayah_import_rows_total",
		Help: "Imported rows by level and result (inserted, skipped, failed)",
	}, []string{"level", "result"})
	ImportRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wilayah_import_runs_total",
		Help: "Import runs by mode and status",
	}, []string{"mode", "status"})
)

func init() {
	prometheus.MustRegister(LookupRequestsTotal)
	prometheus.MustRegister(LookupDurationMs)
	prometheus.MustRegister(LookupEmptyTotal)
	prometheus.MustRegister(LookupInvalidTotal)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(CacheErrorsTotal)
	prometheus.MustRegister(ImportRowsTotal)
	prometheus.MustRegister(ImportRunsTotal)
}

// Handler exposes registered metrics for Prometheus.
func Handler() http.Handler { return promhttp.Handler() }
