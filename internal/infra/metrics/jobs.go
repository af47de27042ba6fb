package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(jobsAdmittedTotal, jobsProcessedTotal, jobStageDuration, workersBusy)
}

var (
	jobsAdmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobs_admitted_total",
			Help: "Link submissions by admission result.",
		},
		[]string{"result"}, // 'accepted', 'empty_token', 'invalid_token', 'invalid_url', 'store_failure'
	)

	jobsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobs_processed_total",
			Help: "Total number of jobs processed by workers, labeled by final status.",
		},
		[]string{"status"}, // 'completed', 'failed'
	)

	jobStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "job_stage_duration_seconds",
			Help:    "Time spent in each stage of the job pipeline.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"stage", "success"}, // stage: 'download', 'upload'
	)

	workersBusy = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "workers_busy",
			Help: "Number of workers currently processing a job.",
		},
	)
)

func IncJobAdmitted(result string) {
	jobsAdmittedTotal.WithLabelValues(norm(result)).Inc()
}

func IncJobProcessed(status string) {
	jobsProcessedTotal.WithLabelValues(norm(status)).Inc()
}

func ObserveJobStage(stage string, d time.Duration, success bool) {
	s := "false"
	if success {
		s = "true"
	}
	jobStageDuration.WithLabelValues(norm(stage), s).Observe(d.Seconds())
}

func WorkerBusy() { workersBusy.Inc() }
func WorkerIdle() { workersBusy.Dec() }
