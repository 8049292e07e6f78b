package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector implements the metrics collector port using Prometheus.
type Collector struct {
	runsStarted    prometheus.Counter
	runsCompleted  *prometheus.CounterVec
	runDuration    prometheus.Histogram
	agentsExecuted *prometheus.CounterVec
	agentDuration  prometheus.Histogram
	retries        *prometheus.CounterVec
	resets         prometheus.Counter
	logSize        prometheus.Gauge

	workerPoolIdle    prometheus.Gauge
	workerPoolBusy    prometheus.Gauge
	workerPoolStopped prometheus.Gauge
}

// NewCollector creates a new Prometheus metrics collector.
func NewCollector() *Collector {
	return &Collector{
		runsStarted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "taskorch_runs_started_total",
				Help: "Total number of full-graph runs started",
			},
		),
		runsCompleted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskorch_runs_completed_total",
				Help: "Total number of full-graph runs completed",
			},
			[]string{"status"},
		),
		runDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "taskorch_run_duration_seconds",
				Help:    "Full-graph run duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
			},
		),
		agentsExecuted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskorch_agents_executed_total",
				Help: "Total number of agent execution attempts",
			},
			[]string{"status"},
		),
		agentDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "taskorch_agent_duration_seconds",
				Help:    "Agent execution duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
		),
		retries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskorch_agent_retries_total",
				Help: "Total number of agent retry attempts",
			},
			[]string{"agent"},
		),
		resets: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "taskorch_resets_total",
				Help: "Total number of state resets",
			},
		),
		logSize: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "taskorch_execution_log_size",
				Help: "Current number of records in the execution log",
			},
		),
		workerPoolIdle: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "taskorch_worker_pool_idle",
				Help: "Number of idle workers",
			},
		),
		workerPoolBusy: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "taskorch_worker_pool_busy",
				Help: "Number of busy workers",
			},
		),
		workerPoolStopped: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "taskorch_worker_pool_stopped",
				Help: "Number of stopped workers",
			},
		),
	}
}

// RecordRunStarted records the start of a full-graph run.
func (c *Collector) RecordRunStarted() {
	c.runsStarted.Inc()
}

// RecordRunCompleted records the completion of a full-graph run.
func (c *Collector) RecordRunCompleted(status string, duration time.Duration) {
	c.runsCompleted.WithLabelValues(status).Inc()
	c.runDuration.Observe(duration.Seconds())
}

// RecordAgentExecuted records one agent execution attempt.
func (c *Collector) RecordAgentExecuted(status string, duration time.Duration) {
	c.agentsExecuted.WithLabelValues(status).Inc()
	c.agentDuration.Observe(duration.Seconds())
}

// RecordRetry records one retry attempt for an agent.
func (c *Collector) RecordRetry(agent string) {
	c.retries.WithLabelValues(agent).Inc()
}

// RecordReset records a state reset.
func (c *Collector) RecordReset() {
	c.resets.Inc()
}

// RecordWorkerPoolStatus records worker pool status.
func (c *Collector) RecordWorkerPoolStatus(idle, busy, stopped int) {
	c.workerPoolIdle.Set(float64(idle))
	c.workerPoolBusy.Set(float64(busy))
	c.workerPoolStopped.Set(float64(stopped))
}

// SetLogSize records the current execution log size.
func (c *Collector) SetLogSize(size int) {
	c.logSize.Set(float64(size))
}
