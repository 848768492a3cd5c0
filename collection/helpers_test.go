package collection

import (
	"context"
	"sync/atomic"
)

func testEngine(opts ...Option) *Engine {
	return NewEngine(append([]Option{WithParallelism(4), WithNumPartitions(4)}, opts...)...)
}

func rangeMap(n int) map[uint64]float64 {
	m := make(map[uint64]float64, n)
	for i := 1; i <= n; i++ {
		m[uint64(i)] = float64(i)
	}
	return m
}

// counted wraps src so that every partition computation is counted.
func counted[K Key, V any](src *Collection[K, V], calls *atomic.Int64) *Collection[K, V] {
	return newCollection(src.engine, src.partitioner, func(ctx context.Context, p int) ([]Pair[K, V], error) {
		calls.Add(1)
		return src.partition(ctx, p)
	})
}
