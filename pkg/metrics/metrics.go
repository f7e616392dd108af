// Package metrics provides operation tracking for colframe using Prometheus
// metrics.
//
// # Overview
//
// A Collector counts engine operations (reindex, retype, align, load) by
// outcome, observes their latency, and tracks the index length of frames:
//
//	collector := metrics.NewCollector("colframe", prometheus.DefaultRegisterer)
//	timer := metrics.NewTimer("reindex")
//	out, err := columnar.Reindex[float64](frame, "price", "OLD_IDX")
//	collector.ObserveOperation(timer, err)
//
// # Metric Types
//
// Counter: operations by name and status
// Histogram: operation latency in seconds
// Gauge: index length per frame
//
// A nil *Collector is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/colframe/colframe/pkg/errors"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Collector wraps the Prometheus metrics recorded by frame operations.
type Collector struct {
	operations *prometheus.CounterVec   // Operations by name and status
	failures   *prometheus.CounterVec   // Failures by name and error type
	latency    *prometheus.HistogramVec // Operation latency distribution
	indexLen   *prometheus.GaugeVec     // Current index length per frame
}

// NewCollector creates and registers the colframe metrics under namespace.
// Registering twice on the same registerer panics, as with promauto.
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of frame operations",
			},
			[]string{"operation", "status"},
		),
		failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operation_failures_total",
				Help:      "Failed frame operations by error type",
			},
			[]string{"operation", "error_type"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Frame operation latency in seconds",
				Buckets: []float64{
					1e-6, // 1μs - single column retype
					1e-5,
					1e-4,
					1e-3, // 1ms - wide reindex copy
					1e-2,
					1e-1,
					1,
				},
			},
			[]string{"operation"},
		),
		indexLen: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "index_length",
				Help:      "Index length of a frame after its last operation",
			},
			[]string{"frame"},
		),
	}
}

// ObserveOperation records the outcome and latency of the operation timed by t.
func (c *Collector) ObserveOperation(t *Timer, err error) {
	if c == nil || t == nil {
		return
	}

	duration := t.Stop()
	c.latency.WithLabelValues(t.name).Observe(duration.Seconds())

	if err != nil {
		c.operations.WithLabelValues(t.name, StatusFailure).Inc()
		errType := string(errors.TypeOf(err))
		if errType == "" {
			errType = "unknown"
		}
		c.failures.WithLabelValues(t.name, errType).Inc()
		return
	}
	c.operations.WithLabelValues(t.name, StatusSuccess).Inc()
}

// SetIndexLength records the index length of the named frame.
func (c *Collector) SetIndexLength(frame string, n int) {
	if c == nil {
		return
	}
	c.indexLen.WithLabelValues(frame).Set(float64(n))
}

// Operations exposes the operation counter, mainly for tests.
func (c *Collector) Operations() *prometheus.CounterVec { return c.operations }

// Failures exposes the failure counter, mainly for tests.
func (c *Collector) Failures() *prometheus.CounterVec { return c.failures }

// IndexLength exposes the index length gauge, mainly for tests.
func (c *Collector) IndexLength() *prometheus.GaugeVec { return c.indexLen }

// Timer provides a simple timing mechanism for measuring operation durations.
// It captures the start time on creation and calculates elapsed time on stop.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
// The name is used as the operation label.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Stop returns the elapsed time since the timer was created
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// Name returns the operation name of the timer
func (t *Timer) Name() string {
	return t.name
}
