package recstore

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// promstats package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordAdd is called after each Add. err is nil if the record was stored.
	RecordAdd(duration time.Duration, err error)

	// RecordBatchAdd is called after each AddBatch. count is the number of
	// records attempted, failed is the number rejected.
	RecordBatchAdd(count, failed int, duration time.Duration)

	// RecordRemove is called after each Remove. found reports whether a
	// record was removed.
	RecordRemove(duration time.Duration, found bool)

	// RecordGet is called after each Get.
	RecordGet(duration time.Duration, found bool)

	// RecordQuery is called after each executed query with the number of
	// records returned.
	RecordQuery(matched int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAdd(time.Duration, error)         {}
func (NoopMetricsCollector) RecordBatchAdd(int, int, time.Duration) {}
func (NoopMetricsCollector) RecordRemove(time.Duration, bool)       {}
func (NoopMetricsCollector) RecordGet(time.Duration, bool)          {}
func (NoopMetricsCollector) RecordQuery(int, time.Duration, error)  {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and tests without external dependencies.
type BasicMetricsCollector struct {
	AddCount        atomic.Int64
	AddErrors       atomic.Int64
	BatchAddCount   atomic.Int64
	BatchAddRecords atomic.Int64
	BatchAddFailed  atomic.Int64
	RemoveCount     atomic.Int64
	RemoveMisses    atomic.Int64
	GetCount        atomic.Int64
	GetMisses       atomic.Int64
	QueryCount      atomic.Int64
	QueryErrors     atomic.Int64
	QueryMatched    atomic.Int64
	QueryTotalNanos atomic.Int64
}

// RecordAdd implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAdd(_ time.Duration, err error) {
	b.AddCount.Add(1)
	if err != nil {
		b.AddErrors.Add(1)
	}
}

// RecordBatchAdd implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatchAdd(count, failed int, _ time.Duration) {
	b.BatchAddCount.Add(1)
	b.BatchAddRecords.Add(int64(count))
	b.BatchAddFailed.Add(int64(failed))
}

// RecordRemove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemove(_ time.Duration, found bool) {
	b.RemoveCount.Add(1)
	if !found {
		b.RemoveMisses.Add(1)
	}
}

// RecordGet implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGet(_ time.Duration, found bool) {
	b.GetCount.Add(1)
	if !found {
		b.GetMisses.Add(1)
	}
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(matched int, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
		return
	}
	b.QueryMatched.Add(int64(matched))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AddCount:        b.AddCount.Load(),
		AddErrors:       b.AddErrors.Load(),
		BatchAddCount:   b.BatchAddCount.Load(),
		BatchAddRecords: b.BatchAddRecords.Load(),
		BatchAddFailed:  b.BatchAddFailed.Load(),
		RemoveCount:     b.RemoveCount.Load(),
		RemoveMisses:    b.RemoveMisses.Load(),
		GetCount:        b.GetCount.Load(),
		GetMisses:       b.GetMisses.Load(),
		QueryCount:      b.QueryCount.Load(),
		QueryErrors:     b.QueryErrors.Load(),
		QueryMatched:    b.QueryMatched.Load(),
		QueryAvgNanos:   b.getAvgQueryNanos(),
	}
}

func (b *BasicMetricsCollector) getAvgQueryNanos() int64 {
	count := b.QueryCount.Load()
	if count == 0 {
		return 0
	}
	return b.QueryTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AddCount        int64
	AddErrors       int64
	BatchAddCount   int64
	BatchAddRecords int64
	BatchAddFailed  int64
	RemoveCount     int64
	RemoveMisses    int64
	GetCount        int64
	GetMisses       int64
	QueryCount      int64
	QueryErrors     int64
	QueryMatched    int64
	QueryAvgNanos   int64
}
