// ============================================================================
// Forkjoin Metrics - Prometheus Monitoring
// ============================================================================
//
// Package: internal/metrics
// File: metrics.go
// Purpose: Collect and expose scheduler metrics for Prometheus monitoring
//
// Metric Categories:
//
//   1. Task Counters - Cumulative, monotonically increasing:
//      - tasks_submitted_total{origin}: submissions by origin
//        (internal = worker deque front, external = global queue back)
//      - tasks_dispatched_total: tasks picked up by a worker loop
//      - tasks_stolen_total: dispatches served from a foreign deque back
//      - tasks_helped_total: tasks executed inline by a blocked Get
//      - tasks_completed_total: bodies run to completion
//
//   2. Performance Metrics (Histogram):
//      - task_latency_seconds: submit-to-complete latency distribution
//
//   3. Status Metrics (Gauge):
//      - workers: fixed pool size
//      - tasks_queued: tasks currently waiting in any queue
//
// Prometheus Query Examples:
//
//   # Tasks per second
//   rate(forkjoin_tasks_completed_total[1m])
//
//   # Steal ratio
//   rate(forkjoin_tasks_stolen_total[5m]) / rate(forkjoin_tasks_dispatched_total[5m])
//
//   # 95th percentile latency
//   histogram_quantile(0.95, forkjoin_task_latency_seconds_bucket)
//
// Each Collector owns a private registry, so several pools can be
// instrumented in one process without registration collisions.
//
// ============================================================================

// Package metrics collects and exposes Prometheus metrics for the
// scheduler. Collector implements the pool's Observer interface.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector collects Prometheus metrics for one pool.
type Collector struct {
	registry *prometheus.Registry

	// Task-related metrics
	tasksSubmitted  *prometheus.CounterVec
	tasksDispatched prometheus.Counter
	tasksStolen     prometheus.Counter
	tasksHelped     prometheus.Counter
	tasksCompleted  prometheus.Counter

	// Performance metrics
	taskLatency prometheus.Histogram

	// Status metrics
	workers     prometheus.Gauge
	tasksQueued prometheus.Gauge
}

// NewCollector creates a metrics collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		tasksSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forkjoin_tasks_submitted_total",
			Help: "Total number of tasks submitted, by submission origin",
		}, []string{"origin"}),
		tasksDispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forkjoin_tasks_dispatched_total",
			Help: "Total number of tasks picked up by a worker loop",
		}),
		tasksStolen: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forkjoin_tasks_stolen_total",
			Help: "Total number of tasks stolen from another worker's deque",
		}),
		tasksHelped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forkjoin_tasks_helped_total",
			Help: "Total number of tasks executed inline by a blocked Get",
		}),
		tasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forkjoin_tasks_completed_total",
			Help: "Total number of tasks run to completion",
		}),
		taskLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "forkjoin_task_latency_seconds",
			Help:    "Submit-to-complete task latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "forkjoin_workers",
			Help: "Number of workers in the pool",
		}),
		tasksQueued: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "forkjoin_tasks_queued",
			Help: "Tasks currently waiting in the global queue or any deque",
		}),
	}

	// Register all metrics
	c.registry.MustRegister(c.tasksSubmitted)
	c.registry.MustRegister(c.tasksDispatched)
	c.registry.MustRegister(c.tasksStolen)
	c.registry.MustRegister(c.tasksHelped)
	c.registry.MustRegister(c.tasksCompleted)
	c.registry.MustRegister(c.taskLatency)
	c.registry.MustRegister(c.workers)
	c.registry.MustRegister(c.tasksQueued)

	return c
}

// TaskSubmitted records a submission; internal marks a fork from a
// worker of the pool.
func (c *Collector) TaskSubmitted(internal bool) {
	if internal {
		c.tasksSubmitted.WithLabelValues("internal").Inc()
	} else {
		c.tasksSubmitted.WithLabelValues("external").Inc()
	}
}

// TaskDispatched records a worker picking up a task; stolen marks a pop
// from a foreign deque back.
func (c *Collector) TaskDispatched(stolen bool) {
	c.tasksDispatched.Inc()
	if stolen {
		c.tasksStolen.Inc()
	}
}

// TaskHelped records a task executed inline by a blocked Get.
func (c *Collector) TaskHelped() {
	c.tasksHelped.Inc()
}

// TaskCompleted records a completion with its submit-to-complete latency.
func (c *Collector) TaskCompleted(latency time.Duration) {
	c.tasksCompleted.Inc()
	c.taskLatency.Observe(latency.Seconds())
}

// SetWorkers sets the pool size gauge.
func (c *Collector) SetWorkers(n int) {
	c.workers.Set(float64(n))
}

// SetQueued sets the queued-tasks gauge.
func (c *Collector) SetQueued(n int) {
	c.tasksQueued.Set(float64(n))
}

// Handler returns the HTTP handler serving this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve starts a metrics HTTP server for the collector on /metrics.
//
// Parameters:
//   - port: HTTP server port
//
// Returns:
//   - error: Error on startup failure
func Serve(port int, c *Collector) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	addr := fmt.Sprintf(":%d", port)
	return http.ListenAndServe(addr, mux)
}
