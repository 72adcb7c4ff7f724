package bitblock

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordRehash is called after every bucket-array change of a table
	// created through this package. err is set when growth was refused.
	RecordRehash(fromBuckets, toBuckets int, grow bool, err error)

	// RecordEviction is called for every entry evicted from a cache.
	RecordEviction()

	// RecordIndexBuild is called after each BuildIndex.
	RecordIndexBuild(keys int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRehash(int, int, bool, error)         {}
func (NoopMetricsCollector) RecordEviction()                            {}
func (NoopMetricsCollector) RecordIndexBuild(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	Grows           atomic.Int64
	Shrinks         atomic.Int64
	RefusedGrows    atomic.Int64
	Evictions       atomic.Int64
	BuildCount      atomic.Int64
	BuildErrors     atomic.Int64
	BuildKeys       atomic.Int64
	BuildTotalNanos atomic.Int64
}

// RecordRehash implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRehash(_, _ int, grow bool, err error) {
	switch {
	case err != nil:
		b.RefusedGrows.Add(1)
	case grow:
		b.Grows.Add(1)
	default:
		b.Shrinks.Add(1)
	}
}

// RecordEviction implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEviction() {
	b.Evictions.Add(1)
}

// RecordIndexBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIndexBuild(keys int, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildKeys.Add(int64(keys))
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	stats := BasicMetricsStats{
		Grows:        b.Grows.Load(),
		Shrinks:      b.Shrinks.Load(),
		RefusedGrows: b.RefusedGrows.Load(),
		Evictions:    b.Evictions.Load(),
		BuildCount:   b.BuildCount.Load(),
		BuildErrors:  b.BuildErrors.Load(),
		BuildKeys:    b.BuildKeys.Load(),
	}
	if stats.BuildCount > 0 {
		stats.BuildAvgNanos = b.BuildTotalNanos.Load() / stats.BuildCount
	}
	return stats
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	Grows         int64
	Shrinks       int64
	RefusedGrows  int64
	Evictions     int64
	BuildCount    int64
	BuildErrors   int64
	BuildKeys     int64
	BuildAvgNanos int64
}
