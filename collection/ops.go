package collection

import (
	"context"
	"sync"
	"unsafe"
)

// MapValues applies f to every value. Keys and partitioning are preserved.
// The transformation is lazy.
func MapValues[K Key, V, V2 any](c *Collection[K, V], f func(V) V2) *Collection[K, V2] {
	return newCollection(c.engine, c.partitioner, func(ctx context.Context, p int) ([]Pair[K, V2], error) {
		in, err := c.partition(ctx, p)
		if err != nil {
			return nil, err
		}
		out := make([]Pair[K, V2], len(in))
		for i, kv := range in {
			out[i] = Pair[K, V2]{Key: kv.Key, Value: f(kv.Value)}
		}
		return out, nil
	})
}

// TryMapValues is MapValues for fallible functions. The first error aborts
// the evaluation that hit it and is returned by the terminal operation.
func TryMapValues[K Key, V, V2 any](c *Collection[K, V], f func(K, V) (V2, error)) *Collection[K, V2] {
	return newCollection(c.engine, c.partitioner, func(ctx context.Context, p int) ([]Pair[K, V2], error) {
		in, err := c.partition(ctx, p)
		if err != nil {
			return nil, err
		}
		out := make([]Pair[K, V2], len(in))
		for i, kv := range in {
			v, err := f(kv.Key, kv.Value)
			if err != nil {
				return nil, err
			}
			out[i] = Pair[K, V2]{Key: kv.Key, Value: v}
		}
		return out, nil
	})
}

// Joined is the value of a left outer join entry.
type Joined[V, W any] struct {
	Left     V    `json:"left"`
	Right    W    `json:"right"`
	HasRight bool `json:"hasRight"`
}

// RightOr returns Right if present, else def.
func (j Joined[V, W]) RightOr(def W) W {
	if j.HasRight {
		return j.Right
	}
	return def
}

// SizeBytes reports the sizes of Left and Right that implement Sizer.
func (j Joined[V, W]) SizeBytes() int64 {
	var size int64
	if s, ok := any(j.Left).(Sizer); ok {
		size += s.SizeBytes()
	}
	if s, ok := any(j.Right).(Sizer); ok {
		size += s.SizeBytes()
	}
	return size
}

// LeftOuterJoin pairs every left entry with the right value of the same key,
// if any. Right-only keys are dropped. The result has the left layout.
//
// When both sides share a layout the join is partition-local. Otherwise the
// right side is redistributed into the left layout once per terminal
// operation; the redistributed copy is charged to the memory budget and
// dropped when the operation returns. Cache the result to avoid repeating
// the redistribution. If the right side holds a key more than once, the last
// value in partition order wins.
func LeftOuterJoin[K Key, V, W any](left *Collection[K, V], right *Collection[K, W]) *Collection[K, Joined[V, W]] {
	if left.partitioner == right.partitioner {
		return newCollection(left.engine, left.partitioner, func(ctx context.Context, p int) ([]Pair[K, Joined[V, W]], error) {
			r, err := right.partition(ctx, p)
			if err != nil {
				return nil, err
			}
			lookup := make(map[K]W, len(r))
			for _, kv := range r {
				lookup[kv.Key] = kv.Value
			}
			return joinPartition(ctx, left, p, lookup)
		})
	}

	sh := &shuffle[K, W]{from: right, to: left.partitioner}
	return newCollection(left.engine, left.partitioner, func(ctx context.Context, p int) ([]Pair[K, Joined[V, W]], error) {
		lookup, err := sh.get(ctx, p)
		if err != nil {
			return nil, err
		}
		return joinPartition(ctx, left, p, lookup)
	})
}

func joinPartition[K Key, V, W any](ctx context.Context, left *Collection[K, V], p int, lookup map[K]W) ([]Pair[K, Joined[V, W]], error) {
	l, err := left.partition(ctx, p)
	if err != nil {
		return nil, err
	}
	out := make([]Pair[K, Joined[V, W]], len(l))
	for i, kv := range l {
		w, ok := lookup[kv.Key]
		out[i] = Pair[K, Joined[V, W]]{Key: kv.Key, Value: Joined[V, W]{Left: kv.Value, Right: w, HasRight: ok}}
	}
	return out, nil
}

// shuffle redistributes a collection into another layout. The source
// partitions are evaluated sequentially in the calling goroutine so no extra
// worker slots are needed.
type shuffle[K Key, W any] struct {
	from *Collection[K, W]
	to   Partitioner
}

// shuffled is the redistribution memoized for one terminal operation.
type shuffled[K Key, W any] struct {
	mu    sync.Mutex
	parts []map[K]W
}

// get returns target partition p. Within a terminal operation the source is
// read once if the memory budget admits the redistributed copy; otherwise
// every call reads it again.
func (s *shuffle[K, W]) get(ctx context.Context, p int) (map[K]W, error) {
	sc := scratchFrom(ctx)
	if sc == nil {
		parts, _, err := s.run(ctx)
		if err != nil {
			return nil, err
		}
		return parts[p], nil
	}

	memo := sc.entry(s, func() any { return &shuffled[K, W]{} }).(*shuffled[K, W])
	memo.mu.Lock()
	defer memo.mu.Unlock()
	if memo.parts != nil {
		return memo.parts[p], nil
	}

	parts, size, err := s.run(ctx)
	if err != nil {
		return nil, err
	}
	if sc.reserve(size) {
		memo.parts = parts
	} else {
		s.from.engine.logger.Debug("shuffle exceeds memory budget, not memoized",
			"collection", s.from.displayName(), "bytes", size)
	}
	return parts[p], nil
}

func (s *shuffle[K, W]) run(ctx context.Context) ([]map[K]W, int64, error) {
	parts := make([]map[K]W, s.to.NumPartitions())
	for i := range parts {
		parts[i] = make(map[K]W)
	}

	var n int
	var size int64
	for p := range s.from.NumPartitions() {
		data, err := s.from.partition(ctx, p)
		if err != nil {
			return nil, 0, err
		}
		n += len(data)
		for _, kv := range data {
			parts[partitionOf(s.to, kv.Key)][kv.Key] = kv.Value
			if sz, ok := any(kv.Value).(Sizer); ok {
				size += sz.SizeBytes()
			}
		}
	}
	size += int64(n) * int64(unsafe.Sizeof(Pair[K, W]{}))

	s.from.engine.logger.Debug("shuffled collection",
		"collection", s.from.displayName(),
		"from", s.from.NumPartitions(),
		"to", len(parts),
		"bytes", size,
	)
	return parts, size, nil
}
