// Package gamedata provides the fixed-effect dataset layer of a GAME
// (generalized additive mixed effect) trainer.
//
// A FixedEffectDataset is a lazily evaluated, partitioned collection of
// labeled records keyed by a global id, projected from one feature shard of
// the upstream training data. In every coordinate-descent iteration the
// scores of the other model coordinates are folded into the record offsets,
// and the caller controls when the resulting collections are cached,
// released, evaluated and named.
//
// # Quick Start
//
//	ctx := context.Background()
//	eng := collection.NewEngine(
//	    collection.WithParallelism(8),
//	    collection.WithMemoryLimit(8<<30),
//	    collection.WithSpillStore(blobstore.NewLocalStore("/mnt/spill")),
//	)
//
//	source := collection.FromMap(eng, rawData) // map[model.Key]model.RawDatum
//
//	ds, err := gamedata.NewDatasetBuilder().
//	    Name("global").
//	    StorageLevel(collection.MemoryAndDisk).
//	    BuildWithConfiguration(ctx, source, gamedata.Configuration{FeatureShardID: "globalShard"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Score Offsets
//
// AddScoresToOffsets returns a new dataset; the receiver is never modified.
// Every record survives the update, records without a score keep their
// offset, and scores for unknown keys are ignored:
//
//	next := ds.AddScoresToOffsets(randomEffectScores).
//	    Persist(collection.MemoryAndDisk).
//	    Rename("global-iter-1")
//	if _, err := next.Materialize(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := ds.Unpersist(ctx); err != nil {
//	    log.Print(err)
//	}
//
// # Lifecycle
//
// Persist and Unpersist are idempotent. Cache state belongs to the backing
// collection: datasets sharing a collection observe the same state, and
// Unpersist through any of them releases the cache for all.
//
// # Observability
//
// Lifecycle events are logged through Logger (log/slog) and counted by a
// MetricsCollector. Partition-level engine events are reported by a
// collection.MetricsObserver; package promobserver exports them to Prometheus.
package gamedata
