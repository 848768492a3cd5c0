package collection

import "time"

// Tier identifies where a cached partition lives.
type Tier string

const (
	TierMemory Tier = "memory"
	TierDisk   Tier = "disk"
)

// MetricsObserver defines the interface for observing engine events.
type MetricsObserver interface {
	// OnPartitionCompute is called after a partition was computed from its plan.
	OnPartitionCompute(duration time.Duration, rows int, err error)

	// OnCacheHit is called when a partition is served from a cache tier.
	OnCacheHit(tier Tier)

	// OnCacheStore is called when a partition is stored in a cache tier.
	OnCacheStore(tier Tier, bytes int64)

	// OnCacheRelease is called when a collection is uncached.
	OnCacheRelease(partitions int, bytes int64)

	// OnSpillIO reports a spill read ("read") or write ("write").
	OnSpillIO(op string, bytes int64, duration time.Duration, err error)
}

// NoopMetricsObserver is a no-op implementation of MetricsObserver.
type NoopMetricsObserver struct{}

func (o *NoopMetricsObserver) OnPartitionCompute(duration time.Duration, rows int, err error) {}
func (o *NoopMetricsObserver) OnCacheHit(tier Tier)                                           {}
func (o *NoopMetricsObserver) OnCacheStore(tier Tier, bytes int64)                            {}
func (o *NoopMetricsObserver) OnCacheRelease(partitions int, bytes int64)                     {}
func (o *NoopMetricsObserver) OnSpillIO(op string, bytes int64, duration time.Duration, err error) {
}
