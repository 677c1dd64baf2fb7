// Package otel provides OpenTelemetry integration for ariadne collection
// metrics.
//
// This package implements the ariadne.MetricsCollector interface using
// OpenTelemetry, enabling observability with automatic percentile
// calculation (p50, p95, p99) and multi-backend support (Prometheus,
// Jaeger, DataDog, Grafana).
//
// # Usage
//
//	import (
//	    "github.com/kyyberi/ariadne"
//	    ariadneotel "github.com/kyyberi/ariadne/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	// Setup OTEL with Prometheus exporter
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//
//	// Create collector
//	collector, _ := ariadneotel.NewOTelMetricsCollector(provider)
//
//	// Configure the collection
//	dict, _ := ariadne.NewDictionary[string, string](ariadne.Config{
//	    Capacity:         10_000,
//	    MetricsCollector: collector,
//	}, ariadne.StringHasher{})
//
// # Metrics Exposed
//
//   - ariadne_get_latency_ns: Histogram of lookup latencies in nanoseconds
//   - ariadne_set_latency_ns: Histogram of write latencies in nanoseconds
//   - ariadne_delete_latency_ns: Histogram of remove latencies in nanoseconds
//   - ariadne_get_hits_total: Counter of lookup hits
//   - ariadne_get_misses_total: Counter of lookup misses
//   - ariadne_resizes_total: Counter of successor tables installed
//   - ariadne_table_capacity: Gauge of the table capacity after a resize
//
// All metrics are aggregated by the OTEL SDK and can be exported to any
// OTEL-compatible backend. Histograms automatically calculate percentiles.
//
// Copyright (c) 2025 Ariadne Contributors
// SPDX-License-Identifier: MPL-2.0
package otel
