package gamedata

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/gamedata/collection"
)

// MetricsCollector defines an interface for collecting dataset lifecycle metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
// Partition-level engine events are reported through collection.MetricsObserver.
type MetricsCollector interface {
	// RecordBuild is called after each DatasetBuilder build, including validation.
	RecordBuild(duration time.Duration, err error)

	// RecordScoreUpdate is called when AddScoresToOffsets plans a new dataset.
	RecordScoreUpdate()

	// RecordMaterialize is called after each Materialize.
	RecordMaterialize(duration time.Duration, err error)

	// RecordPersist is called when Persist changes the cache level.
	RecordPersist(level collection.StorageLevel)

	// RecordUnpersist is called when Unpersist releases a cached dataset.
	RecordUnpersist(err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(time.Duration, error)       {}
func (NoopMetricsCollector) RecordScoreUpdate()                     {}
func (NoopMetricsCollector) RecordMaterialize(time.Duration, error) {}
func (NoopMetricsCollector) RecordPersist(collection.StorageLevel)  {}
func (NoopMetricsCollector) RecordUnpersist(error)                  {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	BuildCount            atomic.Int64
	BuildErrors           atomic.Int64
	BuildTotalNanos       atomic.Int64
	ScoreUpdateCount      atomic.Int64
	MaterializeCount      atomic.Int64
	MaterializeErrors     atomic.Int64
	MaterializeTotalNanos atomic.Int64
	PersistCount          atomic.Int64
	UnpersistCount        atomic.Int64
	UnpersistErrors       atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
	}
}

// RecordScoreUpdate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordScoreUpdate() {
	b.ScoreUpdateCount.Add(1)
}

// RecordMaterialize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMaterialize(duration time.Duration, err error) {
	b.MaterializeCount.Add(1)
	b.MaterializeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.MaterializeErrors.Add(1)
	}
}

// RecordPersist implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPersist(collection.StorageLevel) {
	b.PersistCount.Add(1)
}

// RecordUnpersist implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUnpersist(err error) {
	b.UnpersistCount.Add(1)
	if err != nil {
		b.UnpersistErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:          b.BuildCount.Load(),
		BuildErrors:         b.BuildErrors.Load(),
		BuildAvgNanos:       avg(b.BuildTotalNanos.Load(), b.BuildCount.Load()),
		ScoreUpdateCount:    b.ScoreUpdateCount.Load(),
		MaterializeCount:    b.MaterializeCount.Load(),
		MaterializeErrors:   b.MaterializeErrors.Load(),
		MaterializeAvgNanos: avg(b.MaterializeTotalNanos.Load(), b.MaterializeCount.Load()),
		PersistCount:        b.PersistCount.Load(),
		UnpersistCount:      b.UnpersistCount.Load(),
		UnpersistErrors:     b.UnpersistErrors.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount          int64
	BuildErrors         int64
	BuildAvgNanos       int64
	ScoreUpdateCount    int64
	MaterializeCount    int64
	MaterializeErrors   int64
	MaterializeAvgNanos int64
	PersistCount        int64
	UnpersistCount      int64
	UnpersistErrors     int64
}
