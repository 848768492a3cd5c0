// Package promobserver exports collection engine events as Prometheus metrics.
package promobserver

import (
	"time"

	"github.com/hupe1980/gamedata/collection"
	"github.com/prometheus/client_golang/prometheus"
)

// Observer implements collection.MetricsObserver.
type Observer struct {
	computeLatency *prometheus.HistogramVec
	computedRows   prometheus.Counter
	cacheHits      *prometheus.CounterVec
	cacheStores    *prometheus.CounterVec
	cacheBytes     *prometheus.CounterVec
	released       prometheus.Counter
	releasedBytes  prometheus.Counter
	spillLatency   *prometheus.HistogramVec
	spillBytes     *prometheus.CounterVec
}

var _ collection.MetricsObserver = (*Observer)(nil)

// New creates an Observer and registers its collectors with reg.
// namespace prefixes every metric name; it defaults to "gamedata".
func New(reg prometheus.Registerer, namespace string) (*Observer, error) {
	if namespace == "" {
		namespace = "gamedata"
	}
	o := &Observer{
		computeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "partition_compute_seconds",
			Help:      "Latency of partition computations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		computedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partition_rows_total",
			Help:      "Rows produced by partition computations",
		}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Partitions served from a cache tier",
		}, []string{"tier"}),
		cacheStores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_stores_total",
			Help:      "Partitions stored in a cache tier",
		}, []string{"tier"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_stored_bytes_total",
			Help:      "Bytes stored in a cache tier",
		}, []string{"tier"}),
		released: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_released_partitions_total",
			Help:      "Cached partitions released by uncache",
		}),
		releasedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_released_bytes_total",
			Help:      "Memory bytes released by uncache",
		}),
		spillLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "spill_io_seconds",
			Help:      "Latency of spill reads and writes",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "status"}),
		spillBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spill_bytes_total",
			Help:      "Bytes read from or written to the spill store",
		}, []string{"op"}),
	}

	for _, c := range []prometheus.Collector{
		o.computeLatency, o.computedRows,
		o.cacheHits, o.cacheStores, o.cacheBytes,
		o.released, o.releasedBytes,
		o.spillLatency, o.spillBytes,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// MustNew is like New but panics on registration errors.
func MustNew(reg prometheus.Registerer, namespace string) *Observer {
	o, err := New(reg, namespace)
	if err != nil {
		panic(err)
	}
	return o
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (o *Observer) OnPartitionCompute(d time.Duration, rows int, err error) {
	o.computeLatency.WithLabelValues(status(err)).Observe(d.Seconds())
	if err == nil {
		o.computedRows.Add(float64(rows))
	}
}

func (o *Observer) OnCacheHit(tier collection.Tier) {
	o.cacheHits.WithLabelValues(string(tier)).Inc()
}

func (o *Observer) OnCacheStore(tier collection.Tier, bytes int64) {
	o.cacheStores.WithLabelValues(string(tier)).Inc()
	o.cacheBytes.WithLabelValues(string(tier)).Add(float64(bytes))
}

func (o *Observer) OnCacheRelease(partitions int, bytes int64) {
	o.released.Add(float64(partitions))
	o.releasedBytes.Add(float64(bytes))
}

func (o *Observer) OnSpillIO(op string, bytes int64, d time.Duration, err error) {
	o.spillLatency.WithLabelValues(op, status(err)).Observe(d.Seconds())
	if err == nil {
		o.spillBytes.WithLabelValues(op).Add(float64(bytes))
	}
}
