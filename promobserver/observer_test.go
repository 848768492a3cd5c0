package promobserver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/gamedata/blobstore"
	"github.com/hupe1980/gamedata/collection"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserver_Events(t *testing.T) {
	reg := prometheus.NewRegistry()
	o, err := New(reg, "test")
	require.NoError(t, err)

	o.OnPartitionCompute(time.Millisecond, 10, nil)
	o.OnPartitionCompute(time.Millisecond, 5, errors.New("boom"))
	o.OnCacheHit(collection.TierMemory)
	o.OnCacheHit(collection.TierDisk)
	o.OnCacheHit(collection.TierDisk)
	o.OnCacheStore(collection.TierMemory, 128)
	o.OnCacheRelease(3, 256)
	o.OnSpillIO("write", 64, time.Millisecond, nil)

	assert.Equal(t, 10.0, testutil.ToFloat64(o.computedRows))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.cacheHits.WithLabelValues("memory")))
	assert.Equal(t, 2.0, testutil.ToFloat64(o.cacheHits.WithLabelValues("disk")))
	assert.Equal(t, 128.0, testutil.ToFloat64(o.cacheBytes.WithLabelValues("memory")))
	assert.Equal(t, 3.0, testutil.ToFloat64(o.released))
	assert.Equal(t, 64.0, testutil.ToFloat64(o.spillBytes.WithLabelValues("write")))

	families, err := reg.Gather()
	require.NoError(t, err)
	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		byName[f.GetName()] = f
	}
	compute := byName["test_partition_compute_seconds"]
	require.NotNil(t, compute)
	assert.Equal(t, dto.MetricType_HISTOGRAM, compute.GetType())
	assert.Len(t, compute.GetMetric(), 2, "success and error series")
}

func TestObserver_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg, "")
	require.NoError(t, err)

	_, err = New(reg, "")
	assert.Error(t, err)
	assert.Panics(t, func() { MustNew(reg, "") })
}

func TestObserver_WithEngine(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	o := MustNew(reg, "")

	eng := collection.NewEngine(
		collection.WithParallelism(2),
		collection.WithSpillStore(blobstore.NewMemoryStore()),
		collection.WithMetricsObserver(o),
	)
	c := collection.Parallelize(eng, []collection.Pair[uint64, int]{{Key: 1, Value: 1}, {Key: 2, Value: 2}, {Key: 3, Value: 3}})
	c.Cache(collection.DiskOnly)

	n, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	_, err = c.Count(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(o.computedRows))
	assert.Equal(t, float64(eng.NumPartitions()), testutil.ToFloat64(o.cacheStores.WithLabelValues("disk")))
	assert.Equal(t, float64(eng.NumPartitions()), testutil.ToFloat64(o.cacheHits.WithLabelValues("disk")))
	assert.Positive(t, testutil.ToFloat64(o.spillBytes.WithLabelValues("read")))

	require.NoError(t, c.Uncache(ctx))
	assert.Equal(t, float64(eng.NumPartitions()), testutil.ToFloat64(o.released))
}
