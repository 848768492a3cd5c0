package collection

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// evaluate runs fn on every partition, at most Parallelism at a time.
// Each partition holds a worker slot of the resource controller.
func (c *Collection[K, V]) evaluate(ctx context.Context, fn func(p int, data []Pair[K, V]) error) error {
	e := c.engine
	ctx, release := withScratch(ctx, e.rc)
	defer release()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)

	for p := range c.NumPartitions() {
		g.Go(func() error {
			if err := e.rc.AcquireWorker(gctx); err != nil {
				return err
			}
			defer e.rc.ReleaseWorker()

			data, err := c.partition(gctx, p)
			if err != nil {
				return c.wrap(p, err)
			}
			if fn == nil {
				return nil
			}
			return fn(p, data)
		})
	}

	return g.Wait()
}

func (c *Collection[K, V]) wrap(p int, err error) error {
	var pe *PartitionError
	if errors.As(err, &pe) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &PartitionError{Label: c.displayName(), Partition: p, Err: err}
}

// ForceEvaluate evaluates every partition, filling the cache if c is cached.
func (c *Collection[K, V]) ForceEvaluate(ctx context.Context) error {
	return c.evaluate(ctx, nil)
}

// ForEachPartition evaluates every partition and calls fn with its entries.
// fn may run concurrently for different partitions and must not retain or
// modify data.
func (c *Collection[K, V]) ForEachPartition(ctx context.Context, fn func(p int, data []Pair[K, V]) error) error {
	return c.evaluate(ctx, fn)
}

// Count returns the number of entries.
func (c *Collection[K, V]) Count(ctx context.Context) (int64, error) {
	var n atomic.Int64
	err := c.evaluate(ctx, func(_ int, data []Pair[K, V]) error {
		n.Add(int64(len(data)))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n.Load(), nil
}

// Pairs returns all entries in partition order.
func (c *Collection[K, V]) Pairs(ctx context.Context) ([]Pair[K, V], error) {
	parts := make([][]Pair[K, V], c.NumPartitions())
	err := c.evaluate(ctx, func(p int, data []Pair[K, V]) error {
		parts[p] = data
		return nil
	})
	if err != nil {
		return nil, err
	}

	var total int
	for _, part := range parts {
		total += len(part)
	}
	out := make([]Pair[K, V], 0, total)
	for _, part := range parts {
		out = append(out, part...)
	}
	return out, nil
}

// Collect returns all entries as a map.
func (c *Collection[K, V]) Collect(ctx context.Context) (map[K]V, error) {
	var mu sync.Mutex
	out := make(map[K]V)
	err := c.evaluate(ctx, func(_ int, data []Pair[K, V]) error {
		mu.Lock()
		defer mu.Unlock()
		for _, kv := range data {
			out[kv.Key] = kv.Value
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// First returns the first entry in partition order. Partitions are evaluated
// one by one until an entry is found.
func (c *Collection[K, V]) First(ctx context.Context) (Pair[K, V], bool, error) {
	e := c.engine
	ctx, release := withScratch(ctx, e.rc)
	defer release()

	if err := e.rc.AcquireWorker(ctx); err != nil {
		return Pair[K, V]{}, false, err
	}
	defer e.rc.ReleaseWorker()

	for p := range c.NumPartitions() {
		data, err := c.partition(ctx, p)
		if err != nil {
			return Pair[K, V]{}, false, c.wrap(p, err)
		}
		if len(data) > 0 {
			return data[0], true, nil
		}
	}
	return Pair[K, V]{}, false, nil
}

// Lookup returns the value for key, evaluating only the partition that holds it.
func (c *Collection[K, V]) Lookup(ctx context.Context, key K) (V, bool, error) {
	var zero V
	e := c.engine
	ctx, release := withScratch(ctx, e.rc)
	defer release()

	if err := e.rc.AcquireWorker(ctx); err != nil {
		return zero, false, err
	}
	defer e.rc.ReleaseWorker()

	p := partitionOf(c.partitioner, key)
	data, err := c.partition(ctx, p)
	if err != nil {
		return zero, false, c.wrap(p, err)
	}
	for _, kv := range data {
		if kv.Key == key {
			return kv.Value, true, nil
		}
	}
	return zero, false, nil
}

// Aggregate folds every partition with seq starting from zero(), then merges
// the partition results with comb in partition order.
func Aggregate[K Key, V, A any](
	ctx context.Context,
	c *Collection[K, V],
	zero func() A,
	seq func(acc A, key K, value V) A,
	comb func(a, b A) A,
) (A, error) {
	parts := make([]A, c.NumPartitions())
	err := c.evaluate(ctx, func(p int, data []Pair[K, V]) error {
		acc := zero()
		for _, kv := range data {
			acc = seq(acc, kv.Key, kv.Value)
		}
		parts[p] = acc
		return nil
	})
	if err != nil {
		var none A
		return none, err
	}

	result := zero()
	for _, a := range parts {
		result = comb(result, a)
	}
	return result, nil
}
