package collection

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/gamedata/blobstore"
)

// Pair is a key-value entry of a collection.
type Pair[K Key, V any] struct {
	Key   K `json:"k"`
	Value V `json:"v"`
}

// computeFunc produces one partition. Returned slices are treated as immutable.
type computeFunc[K Key, V any] func(ctx context.Context, p int) ([]Pair[K, V], error)

// Collection is a lazy, partitioned collection of key-value pairs.
// Keys are unique within a collection produced by the sources in this package.
type Collection[K Key, V any] struct {
	engine      *Engine
	id          uint64
	partitioner Partitioner
	compute     computeFunc[K, V]
	cache       *cacheState[K, V]

	mu    sync.RWMutex
	label string
}

func newCollection[K Key, V any](e *Engine, part Partitioner, fn computeFunc[K, V]) *Collection[K, V] {
	return &Collection[K, V]{
		engine:      e,
		id:          e.newID(),
		partitioner: part,
		compute:     fn,
		cache:       newCacheState[K, V](part.NumPartitions()),
	}
}

// Parallelize distributes pairs over the engine's partitions by key hash.
// Within a partition, pairs keep the input order of their first occurrence.
// A key given more than once keeps its last value.
func Parallelize[K Key, V any](e *Engine, pairs []Pair[K, V]) *Collection[K, V] {
	part := NewHashPartitioner(e.numPartitions)
	buckets := make([][]Pair[K, V], part.N)
	seen := make(map[K]int, len(pairs))
	for _, kv := range pairs {
		p := partitionOf(part, kv.Key)
		if i, ok := seen[kv.Key]; ok {
			buckets[p][i].Value = kv.Value
			continue
		}
		seen[kv.Key] = len(buckets[p])
		buckets[p] = append(buckets[p], kv)
	}
	return newCollection(e, part, func(_ context.Context, p int) ([]Pair[K, V], error) {
		return buckets[p], nil
	})
}

// FromMap builds a collection from a map. Partitions are sorted by key.
func FromMap[K Key, V any](e *Engine, m map[K]V) *Collection[K, V] {
	pairs := make([]Pair[K, V], 0, len(m))
	for k, v := range m {
		pairs = append(pairs, Pair[K, V]{Key: k, Value: v})
	}
	slices.SortFunc(pairs, func(a, b Pair[K, V]) int { return cmp.Compare(a.Key, b.Key) })
	return Parallelize(e, pairs)
}

// Empty returns a collection without entries, laid out like the engine's sources.
func Empty[K Key, V any](e *Engine) *Collection[K, V] {
	return newCollection(e, NewHashPartitioner(e.numPartitions), func(context.Context, int) ([]Pair[K, V], error) {
		return nil, nil
	})
}

// Engine returns the engine that evaluates c.
func (c *Collection[K, V]) Engine() *Engine { return c.engine }

// ID returns the engine-unique node id.
func (c *Collection[K, V]) ID() uint64 { return c.id }

// NumPartitions returns the number of partitions.
func (c *Collection[K, V]) NumPartitions() int { return c.partitioner.NumPartitions() }

// Partitioner returns the key layout of c.
func (c *Collection[K, V]) Partitioner() Partitioner { return c.partitioner }

// SetLabel attaches a diagnostic name. It has no effect on contents.
func (c *Collection[K, V]) SetLabel(name string) *Collection[K, V] {
	c.mu.Lock()
	c.label = name
	c.mu.Unlock()
	return c
}

// Label returns the diagnostic name, or "" if none was set.
func (c *Collection[K, V]) Label() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.label
}

// displayName is the label if set, else a stable id-based name.
func (c *Collection[K, V]) displayName() string {
	if l := c.Label(); l != "" {
		return l
	}
	return fmt.Sprintf("c%d", c.id)
}

// StorageLevel returns the requested cache level.
func (c *Collection[K, V]) StorageLevel() StorageLevel {
	return c.cache.Level()
}

// IsCached reports whether a cache level other than StorageNone is set.
func (c *Collection[K, V]) IsCached() bool {
	return c.cache.Level() != StorageNone
}

// ResidentPartitions returns the partitions held in memory.
func (c *Collection[K, V]) ResidentPartitions() *roaring.Bitmap {
	return c.cache.residentSet()
}

// SpilledPartitions returns the partitions held in the spill store.
func (c *Collection[K, V]) SpilledPartitions() *roaring.Bitmap {
	return c.cache.spilledSet()
}

func (c *Collection[K, V]) String() string {
	return fmt.Sprintf("Collection(%s, partitions=%d, level=%s)", c.displayName(), c.NumPartitions(), c.StorageLevel())
}

// partition returns partition p, serving it from the cache when possible.
func (c *Collection[K, V]) partition(ctx context.Context, p int) ([]Pair[K, V], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	st := c.cache
	if st.Level() == StorageNone {
		return c.run(ctx, p)
	}

	unlock := st.lockPartition(p)
	defer unlock()

	gen, level, data, ok := st.lookup(p)
	if ok {
		c.engine.metrics.OnCacheHit(TierMemory)
		return data, nil
	}
	if level == StorageNone {
		return c.run(ctx, p)
	}

	if st.isSpilled(p) {
		data, err := c.readSpill(ctx, p)
		switch {
		case err == nil:
			c.engine.metrics.OnCacheHit(TierDisk)
			return data, nil
		case errors.Is(err, blobstore.ErrNotFound) && st.generation() != gen:
			// Uncached while reading.
			return c.run(ctx, p)
		default:
			return nil, err
		}
	}

	data, err := c.run(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := c.store(ctx, gen, level, p, data); err != nil {
		return nil, err
	}
	return data, nil
}

// run computes partition p from the plan.
func (c *Collection[K, V]) run(ctx context.Context, p int) ([]Pair[K, V], error) {
	start := time.Now()
	data, err := c.compute(ctx, p)
	c.engine.metrics.OnPartitionCompute(time.Since(start), len(data), err)
	return data, err
}
