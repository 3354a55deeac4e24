package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(jobsSubmittedTotal, jobsFinalizedTotal, jobDurationSeconds)
}

var jobsSubmittedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "viz_jobs_submitted_total",
		Help: "Total number of visualization job submissions, labeled by outcome of the submit call.",
	},
	[]string{"status"}, // 'accepted', 'error'
)

var jobsFinalizedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "viz_jobs_finalized_total",
		Help: "Total number of jobs finalized, labeled by terminal status.",
	},
	[]string{"status"}, // 'completed', 'failed'
)

var jobDurationSeconds = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "viz_job_duration_seconds",
		Help:    "Time from submit to finalize per job.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
	},
	[]string{"success"},
)

func IncSubmit(status string) {
	jobsSubmittedTotal.WithLabelValues(norm(status)).Inc()
}

func IncJobFinalized(status string) {
	jobsFinalizedTotal.WithLabelValues(norm(status)).Inc()
}

func ObserveJobDuration(d time.Duration, success bool) {
	jobDurationSeconds.WithLabelValues(strconv.FormatBool(success)).Observe(d.Seconds())
}
