package jobs

import "github.com/prometheus/client_golang/prometheus"

var (
	jobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gradebook_job_runs_total",
			Help: "Total background job runs",
		},
		[]string{"job"},
	)

	jobErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gradebook_job_errors_total",
			Help: "Total background job errors",
		},
		[]string{"job"},
	)

	jobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gradebook_job_duration_seconds",
			Help:    "Background job duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"job"},
	)

	recalcUpdated = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gradebook_recalc_updated_records",
		Help: "Records rewritten by the last recalculation run",
	})

	recalcFailed = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gradebook_recalc_failed_records",
		Help: "Records failed in the last recalculation run",
	})
)

func init() {
	prometheus.MustRegister(jobRuns, jobErrors, jobDuration, recalcUpdated, recalcFailed)
}
