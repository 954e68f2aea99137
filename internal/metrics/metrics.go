// Package metrics records deployment and task outcomes as Prometheus metrics.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultDeployed = "deployed"
	ResultReused   = "reused"
	ResultFailed   = "failed"
	ResultOK       = "ok"
)

// Metrics holds the harness collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	deploymentsTotal  *prometheus.CounterVec
	deploymentGasUsed *prometheus.GaugeVec
	tasksTotal        *prometheus.CounterVec
	taskDuration      *prometheus.HistogramVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// Deployment metrics
		deploymentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harness_deployments_total",
				Help: "Total number of contract deployments by outcome",
			},
			[]string{"network", "contract", "result"},
		),
		deploymentGasUsed: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "harness_deployment_gas_used",
				Help: "Gas used by the most recent deployment of a contract",
			},
			[]string{"network", "contract"},
		),

		// Task metrics
		tasksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harness_tasks_total",
				Help: "Total number of deploy tasks run by outcome",
			},
			[]string{"task", "result"},
		),
		taskDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "harness_task_duration_seconds",
				Help:    "Deploy task duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"task"},
		),
	}
}

// Registry returns the registry holding the harness collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordDeployment counts a deployment outcome. gasUsed is only recorded for fresh deployments.
func (m *Metrics) RecordDeployment(network, contract, result string, gasUsed uint64) {
	if m == nil {
		return
	}
	m.deploymentsTotal.WithLabelValues(network, contract, result).Inc()
	if result == ResultDeployed {
		m.deploymentGasUsed.WithLabelValues(network, contract).Set(float64(gasUsed))
	}
}

// RecordTask counts a task outcome and observes its duration.
func (m *Metrics) RecordTask(task string, err error, seconds float64) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultFailed
	}
	m.tasksTotal.WithLabelValues(task, result).Inc()
	m.taskDuration.WithLabelValues(task).Observe(seconds)
}

// WriteTextfile writes the current metrics in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
