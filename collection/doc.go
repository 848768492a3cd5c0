// Package collection implements a lazy, partitioned, keyed collection on top
// of an in-process execution engine.
//
// A Collection is a plan node. Transformations (MapValues, TryMapValues,
// LeftOuterJoin) build new nodes without running anything; terminal
// operations (Count, Collect, Pairs, Aggregate, ForceEvaluate, ...) evaluate
// every partition on a bounded worker group and block until all partitions
// are done.
//
// # Caching
//
// Cache(level) marks a node so that each partition is stored the first time
// it is evaluated:
//
//	MemoryOnly     partitions stay resident while the memory budget allows;
//	               partitions that do not fit are recomputed on demand
//	MemoryAndDisk  partitions that do not fit are spilled to the spill store
//	DiskOnly       every partition is spilled
//
// Spilled partitions are encoded with the engine codec, compressed, framed
// with a CRC32C checksum and written to a blobstore.BlobStore. Cache state
// belongs to the node, so every handle sharing a node observes the same
// state, and Uncache through any of them releases it for all.
//
// # Example
//
//	eng := collection.NewEngine(
//	    collection.WithParallelism(8),
//	    collection.WithMemoryLimit(4<<30),
//	    collection.WithSpillStore(blobstore.NewLocalStore("/tmp/spill")),
//	)
//	c := collection.FromMap(eng, map[uint64]float64{1: 0.5, 2: 1.5})
//	doubled := collection.MapValues(c, func(v float64) float64 { return 2 * v }).
//	    Cache(collection.MemoryAndDisk)
//	n, err := doubled.Count(ctx)
package collection
