// ============================================================================
// Executor Metrics - Prometheus Monitoring
// ============================================================================
//
// Package: internal/metrics
// File: metrics.go
// Purpose: Collect and expose Prometheus metrics for the executor core
//
// Metric Categories:
//
//   1. Task counters (by runner tag):
//      - executor_tasks_submitted_total
//      - executor_tasks_dispatched_total
//      - executor_task_faults_total
//
//   2. Performance (Histogram, by runner tag):
//      - executor_task_duration_seconds
//
//   3. Timer activity:
//      - executor_timer_fires_total{kind="delayed"|"repeated"}
//
// A Collector registers against an injectable *prometheus.Registry
// rather than the global default registerer, so more than one Collector
// (e.g. one per test) can coexist without a duplicate-registration
// panic.
//
// ============================================================================

package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector collects Prometheus metrics for the executor core.
type Collector struct {
	tasksSubmitted  *prometheus.CounterVec
	tasksDispatched *prometheus.CounterVec
	taskFaults      *prometheus.CounterVec
	taskDuration    *prometheus.HistogramVec

	timerFires         *prometheus.CounterVec
	timerCancellations prometheus.Counter

	registry *prometheus.Registry
}

// NewCollector creates a Collector and registers its metrics against
// reg. A nil reg registers against a fresh, private registry — use
// Handler() to serve it.
func NewCollector(reg *prometheus.Registry) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	c := &Collector{
		tasksSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "executor_tasks_submitted_total",
			Help: "Total number of work items submitted to a runner.",
		}, []string{"runner"}),
		tasksDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "executor_tasks_dispatched_total",
			Help: "Total number of work items a worker finished executing.",
		}, []string{"runner"}),
		taskFaults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "executor_task_faults_total",
			Help: "Total number of work items that faulted during execution.",
		}, []string{"runner"}),
		taskDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "executor_task_duration_seconds",
			Help:    "Work item execution duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"runner"}),
		timerFires: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "executor_timer_fires_total",
			Help: "Total number of timer fires handed off to a pool.",
		}, []string{"kind"}),
		timerCancellations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "executor_timer_cancellations_total",
			Help: "Total number of repeated schedules cancelled.",
		}),
	}

	reg.MustRegister(
		c.tasksSubmitted,
		c.tasksDispatched,
		c.taskFaults,
		c.taskDuration,
		c.timerFires,
		c.timerCancellations,
	)

	c.registry = reg
	return c
}

// Handler returns an http.Handler serving this Collector's metrics in
// Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveSubmit records a work item submitted to the given runner tag.
func (c *Collector) ObserveSubmit(tag uint64) {
	c.tasksSubmitted.WithLabelValues(tagLabel(tag)).Inc()
}

// ObserveDispatch records a work item finishing execution on the given
// runner tag (regardless of success).
func (c *Collector) ObserveDispatch(tag uint64) {
	c.tasksDispatched.WithLabelValues(tagLabel(tag)).Inc()
}

// ObserveFault records a work item that faulted on the given runner tag.
func (c *Collector) ObserveFault(tag uint64) {
	c.taskFaults.WithLabelValues(tagLabel(tag)).Inc()
}

// ObserveDuration records how long a work item took to execute.
func (c *Collector) ObserveDuration(tag uint64, d time.Duration) {
	c.taskDuration.WithLabelValues(tagLabel(tag)).Observe(d.Seconds())
}

// ObserveTimerFire records a timer fire of the given kind ("delayed" or
// "repeated").
func (c *Collector) ObserveTimerFire(kind string) {
	c.timerFires.WithLabelValues(kind).Inc()
}

// ObserveCancellation records a repeated schedule being cancelled.
func (c *Collector) ObserveCancellation() {
	c.timerCancellations.Inc()
}

func tagLabel(tag uint64) string {
	return fmt.Sprintf("%d", tag)
}

// StartServer starts an HTTP server exposing c's metrics at /metrics on
// addr. It returns the *http.Server so callers can Shutdown it
// gracefully; ListenAndServe runs in its own goroutine.
func StartServer(addr string, c *Collector) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			// The caller owns the server's lifecycle; log and return
			// rather than panicking the serving goroutine.
			fmt.Printf("executor: metrics server error: %v\n", err)
		}
	}()

	return srv
}
