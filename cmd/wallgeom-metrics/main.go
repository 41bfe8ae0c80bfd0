// Command wallgeom-metrics is a small sidecar exposing cache hit rate,
// healing iteration counts, and processing-time histograms as Prometheus
// gauges/histograms, grounded on monitoring.go's promauto usage and a
// chi-based lightweight internal router.
package main

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wallcore/geom/cache"
	"github.com/wallcore/geom/internal/logger"
)

var (
	cacheHitRate = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wallgeom_cache_hit_rate",
		Help: "Junction/miter cache hit rate in [0,1].",
	})
	cacheEntriesTracked = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wallgeom_cache_entries_tracked",
		Help: "Number of entries currently tracked by the cache store.",
	})
	healingIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wallgeom_healing_iterations",
		Help:    "Distribution of healing-loop iteration counts until fixed point.",
		Buckets: prometheus.LinearBuckets(1, 1, 10),
	})
	junctionProcessingSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wallgeom_junction_processing_seconds",
		Help:    "Wall-duration of a single OptimizeNetwork pass.",
		Buckets: prometheus.DefBuckets,
	})
)

// RecordHealingIterations lets the embedding process report a completed
// healing pass's iteration count.
func RecordHealingIterations(n int) {
	healingIterations.Observe(float64(n))
}

// RecordJunctionProcessingSeconds lets the embedding process report an
// OptimizeNetwork pass's wall-clock duration.
func RecordJunctionProcessingSeconds(seconds float64) {
	junctionProcessingSeconds.Observe(seconds)
}

// ObserveCacheStats copies a cache.Stats snapshot into the exported gauges.
func ObserveCacheStats(stats cache.Stats) {
	cacheHitRate.Set(stats.HitRate())
	cacheEntriesTracked.Set(float64(stats.EntriesTracked))
}

func newRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func main() {
	addr := os.Getenv("WALLGEOM_METRICS_ADDR")
	if addr == "" {
		addr = ":9090"
	}
	logger.Info("wallgeom-metrics: listening on %s", addr)
	if err := http.ListenAndServe(addr, newRouter()); err != nil {
		logger.Error("wallgeom-metrics: %v", err)
		os.Exit(1)
	}
}
