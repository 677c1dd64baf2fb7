// config.go: configuration for ariadne collections
//
// Copyright (c) 2025 Ariadne Contributors
// SPDX-License-Identifier: MPL-2.0

package ariadne

import (
	"github.com/agilira/go-timecache"
)

// Config holds configuration parameters for a Dictionary or Set.
type Config struct {
	// Capacity is the initial table capacity, rounded up to a power of two.
	// Must be in [0, MaxCapacity]; 0 selects DefaultCapacity. The same
	// capacity is used again by Clear.
	Capacity int

	// Logger is used for debugging and monitoring.
	// If nil, NoOpLogger is used. Default: NoOpLogger.
	Logger Logger

	// TimeProvider provides current time for latency metrics and resize
	// back-pressure pacing. If nil, a cached system clock is used.
	TimeProvider TimeProvider

	// MetricsCollector is used for collecting operation metrics.
	// If nil, NoOpMetricsCollector is used (zero overhead).
	// Use this to integrate with Prometheus, DataDog, or other monitoring
	// systems; see the otel submodule for an OpenTelemetry implementation.
	MetricsCollector MetricsCollector
}

// Validate checks configuration parameters and applies sensible defaults.
//
// This method is automatically called by the constructors, so you typically
// don't need to call it manually. It is provided as a public API to inspect
// the normalized configuration before creating a collection.
//
// Default values applied:
//   - Logger: NoOpLogger{} if nil
//   - TimeProvider: cached system clock if nil
//   - MetricsCollector: NoOpMetricsCollector{} if nil
//
// Capacity is validated by the constructors, not here, because an
// out-of-range capacity is an error rather than a normalizable value.
func (c *Config) Validate() error {
	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}
	if c.TimeProvider == nil {
		c.TimeProvider = &systemTimeProvider{}
	}
	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}
	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Capacity:         DefaultCapacity,
		Logger:           NoOpLogger{},
		TimeProvider:     &systemTimeProvider{},
		MetricsCollector: NoOpMetricsCollector{},
	}
}

// systemTimeProvider is the default time provider using go-timecache.
// This provides much faster time access than time.Now() with zero allocations.
type systemTimeProvider struct{}

func (t *systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}
