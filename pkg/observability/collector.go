package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	globalCollector *Collector
	collectorMutex  sync.Mutex
)

// Collector holds the Prometheus metrics exposed on /metrics
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Business metrics
	MattersCreated    prometheus.Counter
	DocumentsCreated  prometheus.Counter
	DocumentTransfers *prometheus.CounterVec

	// Command metrics
	Commands        *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec

	// Repository metrics
	DBOperations *prometheus.CounterVec
	DBDuration   *prometheus.HistogramVec
}

// NewCollector creates a metrics collector with the given namespace.
// A process-wide singleton avoids duplicate registration in tests.
func NewCollector(namespace string) *Collector {
	collectorMutex.Lock()
	defer collectorMutex.Unlock()

	if globalCollector != nil {
		return globalCollector
	}

	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		MattersCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "matters_created_total",
				Help:      "Total number of matters created",
			},
		),
		DocumentsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "documents_created_total",
				Help:      "Total number of documents created",
			},
		),
		DocumentTransfers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "document_transfers_total",
				Help:      "Total number of document transfers by operation",
			},
			[]string{"operation"},
		),
		Commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Total number of commands dispatched",
			},
			[]string{"command", "status"},
		),
		CommandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "command_duration_seconds",
				Help:      "Command handler latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"command"},
		),
		DBOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_operations_total",
				Help:      "Total number of repository operations",
			},
			[]string{"operation", "status"},
		),
		DBDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_operation_duration_seconds",
				Help:      "Repository operation latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.MattersCreated,
		c.DocumentsCreated,
		c.DocumentTransfers,
		c.Commands,
		c.CommandDuration,
		c.DBOperations,
		c.DBDuration,
	)

	globalCollector = c
	return c
}

// Registry returns the prometheus registry backing this collector
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveCommand records one command dispatch
func (c *Collector) ObserveCommand(command, status string, elapsed time.Duration) {
	c.Commands.WithLabelValues(command, status).Inc()
	c.CommandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}

// ObserveDB records one repository operation
func (c *Collector) ObserveDB(operation, status string, elapsed time.Duration) {
	c.DBOperations.WithLabelValues(operation, status).Inc()
	c.DBDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
