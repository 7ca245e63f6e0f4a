package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TasksDiscoveredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "supervisor_tasks_discovered_total",
		Help: "Total number of snapshots ever offered to the task queue.",
	})

	TasksCompletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "supervisor_tasks_completed_total",
		Help: "Total number of tasks that completed successfully.",
	})

	TasksFailedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "supervisor_tasks_failed_total",
		Help: "Total number of tasks abandoned, after exhausting their retry budget or on a non-retryable load error.",
	})

	TasksRetriedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "supervisor_tasks_retried_total",
		Help: "Total number of task re-enqueues, from either a health-gate veto or a transient load failure.",
	})

	HealthGateVetoTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "supervisor_health_gate_veto_total",
		Help: "Total number of health-gate vetoes that delayed a load attempt.",
	})

	QueueSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "supervisor_queue_size",
		Help: "Number of tasks currently queued, not counting in-flight work.",
	})

	LoadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "supervisor_load_duration_seconds",
		Help:    "Wall-clock duration of successful Loader.Load calls.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s .. ~34min
	})

	DatabasesPerTenant = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "supervisor_databases_per_tenant",
		Help: "Number of databases currently present for a tenant.",
	}, []string{"tenant"})
)

func init() {
	prometheus.MustRegister(
		TasksDiscoveredTotal,
		TasksCompletedTotal,
		TasksFailedTotal,
		TasksRetriedTotal,
		HealthGateVetoTotal,
		QueueSize,
		LoadDuration,
		DatabasesPerTenant,
	)
}

// Handler returns the promhttp handler serving the registered metrics,
// for mounting under /metrics alongside the status endpoint (see
// pkg/statusapi).
func Handler() http.Handler {
	return promhttp.Handler()
}
