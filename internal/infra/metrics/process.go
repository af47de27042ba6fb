package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(buildInfo, redisPoolConns) }

var (
	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "build_info",
			Help: "Always 1; labels carry the version and commit the binary was built from.",
		},
		[]string{"version", "commit"},
	)

	redisPoolConns = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "redis_pool_stats",
			Help: "Connections in the shared redis pool. Each idle worker holds one in BRPOP.",
		},
		[]string{"state"}, // 'total', 'idle', 'stale'
	)
)

func SetBuildInfo(version, commit string) {
	buildInfo.WithLabelValues(version, commit).Set(1)
}

func SetRedisPoolStats(total, idle, stale uint32) {
	redisPoolConns.WithLabelValues("total").Set(float64(total))
	redisPoolConns.WithLabelValues("idle").Set(float64(idle))
	redisPoolConns.WithLabelValues("stale").Set(float64(stale))
}
