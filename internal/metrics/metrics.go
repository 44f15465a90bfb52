// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metrics interface used by the service and replication layers.
type Recorder interface {
	RecordMovement(kind string, outcome string)
	RecordReplicationAttempt(statusCode int)
	RecordReplicationResult(success bool)
	RecordExport()
}

// Collector records metrics into a Prometheus registry.
type Collector struct {
	movements          *prometheus.CounterVec
	replicationAttempt *prometheus.CounterVec
	replicationResult  *prometheus.CounterVec
	exports            prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ferramentas_movements_total",
			Help: "Movements recorded locally, by kind and outcome",
		}, []string{"kind", "outcome"}),
		replicationAttempt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ferramentas_replication_attempts_total",
			Help: "Replication attempts by HTTP status (0 = network error)",
		}, []string{"status_code"}),
		replicationResult: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ferramentas_replication_results_total",
			Help: "Final replication result per movement",
		}, []string{"result"}),
		exports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ferramentas_exports_total",
			Help: "Workbooks exported",
		}),
	}

	reg.MustRegister(
		c.movements,
		c.replicationAttempt,
		c.replicationResult,
		c.exports,
	)

	return c
}

// RecordMovement counts a locally committed movement.
func (c *Collector) RecordMovement(kind string, outcome string) {
	c.movements.WithLabelValues(kind, outcome).Inc()
}

// RecordReplicationAttempt counts one POST to the replication endpoint.
func (c *Collector) RecordReplicationAttempt(statusCode int) {
	c.replicationAttempt.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordReplicationResult counts the final result of a Send call.
func (c *Collector) RecordReplicationResult(success bool) {
	result := "failed"
	if success {
		result = "success"
	}
	c.replicationResult.WithLabelValues(result).Inc()
}

// RecordExport counts a generated workbook.
func (c *Collector) RecordExport() {
	c.exports.Inc()
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) RecordMovement(string, string) {}
func (Nop) RecordReplicationAttempt(int) {}
func (Nop) RecordReplicationResult(bool) {}
func (Nop) RecordExport() {}

// Handler returns the HTTP handler Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
