// collector.go: OpenTelemetry MetricsCollector implementation
//
// Copyright (c) 2025 Ariadne Contributors
// SPDX-License-Identifier: MPL-2.0
package otel

import (
	"context"
	"errors"

	"github.com/kyyberi/ariadne"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetricsCollector implements ariadne.MetricsCollector using OpenTelemetry.
//
// This collector records collection operations to OpenTelemetry metrics,
// enabling observability with automatic percentile calculation and
// multi-backend support.
//
// Thread-safety: Safe for concurrent use by multiple goroutines.
// The underlying OTEL instruments are thread-safe and lock-free.
type OTelMetricsCollector struct {
	getLatency    metric.Int64Histogram // lookup latency histogram
	setLatency    metric.Int64Histogram // write latency histogram
	deleteLatency metric.Int64Histogram // removal latency histogram
	hits          metric.Int64Counter   // lookup hits counter
	misses        metric.Int64Counter   // lookup misses counter
	resizes       metric.Int64Counter   // successor tables installed
	tableCapacity metric.Int64Gauge     // capacity after the latest resize
}

// Options for configuring OTelMetricsCollector.
type Options struct {
	// MeterName is the name of the OpenTelemetry meter.
	// Default: "github.com/kyyberi/ariadne"
	MeterName string
}

// Option is a functional option for configuring OTelMetricsCollector.
type Option func(*Options)

// WithMeterName sets a custom meter name. This is useful for distinguishing
// metrics from multiple collection instances or integrating with existing
// OTEL instrumentation.
func WithMeterName(name string) Option {
	return func(o *Options) {
		o.MeterName = name
	}
}

// NewOTelMetricsCollector creates a new OpenTelemetry metrics collector.
//
// The collector creates the following OTEL instruments:
//   - Int64Histogram for latencies (Get, Set, Delete)
//   - Int64Counter for hits, misses and resizes
//   - Int64Gauge for the table capacity
//
// Example:
//
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	collector, err := NewOTelMetricsCollector(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewOTelMetricsCollector(provider metric.MeterProvider, opts ...Option) (*OTelMetricsCollector, error) {
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	options := Options{
		MeterName: "github.com/kyyberi/ariadne",
	}
	for _, opt := range opts {
		opt(&options)
	}

	meter := provider.Meter(options.MeterName)
	collector := &OTelMetricsCollector{}

	var err error
	collector.getLatency, err = meter.Int64Histogram(
		"ariadne_get_latency_ns",
		metric.WithDescription("Latency of lookup operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.setLatency, err = meter.Int64Histogram(
		"ariadne_set_latency_ns",
		metric.WithDescription("Latency of write operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.deleteLatency, err = meter.Int64Histogram(
		"ariadne_delete_latency_ns",
		metric.WithDescription("Latency of remove operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.hits, err = meter.Int64Counter(
		"ariadne_get_hits_total",
		metric.WithDescription("Total number of lookup hits"),
	)
	if err != nil {
		return nil, err
	}

	collector.misses, err = meter.Int64Counter(
		"ariadne_get_misses_total",
		metric.WithDescription("Total number of lookup misses"),
	)
	if err != nil {
		return nil, err
	}

	collector.resizes, err = meter.Int64Counter(
		"ariadne_resizes_total",
		metric.WithDescription("Total number of successor tables installed"),
	)
	if err != nil {
		return nil, err
	}

	collector.tableCapacity, err = meter.Int64Gauge(
		"ariadne_table_capacity",
		metric.WithDescription("Table capacity after the latest resize"),
	)
	if err != nil {
		return nil, err
	}

	return collector, nil
}

// RecordGet records a lookup: its latency flows into the Get histogram and
// the outcome increments the hit or miss counter.
//
// Thread-safety: Safe for concurrent use.
func (c *OTelMetricsCollector) RecordGet(latencyNs int64, hit bool) {
	ctx := context.Background()
	c.getLatency.Record(ctx, latencyNs)
	if hit {
		c.hits.Add(ctx, 1)
	} else {
		c.misses.Add(ctx, 1)
	}
}

// RecordSet records a write operation's latency.
//
// Thread-safety: Safe for concurrent use.
func (c *OTelMetricsCollector) RecordSet(latencyNs int64) {
	c.setLatency.Record(context.Background(), latencyNs)
}

// RecordDelete records a remove operation's latency.
//
// Thread-safety: Safe for concurrent use.
func (c *OTelMetricsCollector) RecordDelete(latencyNs int64) {
	c.deleteLatency.Record(context.Background(), latencyNs)
}

// RecordResize records the installation of a successor table.
//
// Thread-safety: Safe for concurrent use.
func (c *OTelMetricsCollector) RecordResize(fromCapacity, toCapacity int) {
	ctx := context.Background()
	c.resizes.Add(ctx, 1)
	c.tableCapacity.Record(ctx, int64(toCapacity))
}

// Compile-time interface check
var _ ariadne.MetricsCollector = (*OTelMetricsCollector)(nil)
