package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(cachePruned, cacheSweepErrors) }

var (
	cachePruned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "download_cache_pruned_total",
		Help: "Download cache entries removed by the janitor or /deletecache.",
	})
	cacheSweepErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "download_cache_sweep_errors_total",
		Help: "Failed cache sweeps.",
	})
)

func AddCachePruned(n int) {
	if n > 0 {
		cachePruned.Add(float64(n))
	}
}

func IncCacheSweepError() { cacheSweepErrors.Inc() }
