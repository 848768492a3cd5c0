package gamedata_test

import (
	"context"
	"fmt"

	"github.com/hupe1980/gamedata"
	"github.com/hupe1980/gamedata/collection"
	"github.com/hupe1980/gamedata/model"
)

func Example() {
	ctx := context.Background()
	eng := collection.NewEngine(collection.WithParallelism(2))

	source := collection.FromMap(eng, map[model.Key]model.RawDatum{
		1: {Response: 1, Weight: 1, FeatureShards: map[string]model.Vector{"global": model.NewDense([]float64{0.1, 0.2})}},
		2: {Response: 0, Weight: 2, Offset: 0.5, FeatureShards: map[string]model.Vector{"global": model.NewDense([]float64{0.3, 0.1})}},
	})

	ds, err := gamedata.NewDatasetBuilder().
		FeatureShard("global").
		StorageLevel(collection.MemoryOnly).
		Build(ctx, source)
	if err != nil {
		panic(err)
	}

	scores := collection.FromMap(eng, map[model.Key]float64{1: 0.25, 3: 9})
	updated, err := ds.AddScoresToOffsets(scores).Rename("iter-1").Materialize(ctx)
	if err != nil {
		panic(err)
	}

	records, err := updated.Records().Collect(ctx)
	if err != nil {
		panic(err)
	}
	fmt.Println(records[1].Offset(), records[2].Offset())

	text, err := updated.Summarize(ctx)
	if err != nil {
		panic(err)
	}
	fmt.Println(text)
	// Output:
	// 0.25 0.5
	// numSamples: 2
	// weightSum: 3.0
	// responseSum: 1.0
	// numFeatures: 2
	// featureShardId: global
	// activeFeatures: (count: 2, mean: 2.0, stdev: 0.0, max: 2.0, min: 2.0)
}

func ExampleFixedEffectDataset_Persist() {
	ctx := context.Background()
	eng := collection.NewEngine()

	records := collection.FromMap(eng, map[model.Key]model.LabeledRecord{
		7: model.NewLabeledRecord(1, model.NewDense([]float64{1}), 0, 1),
	})
	ds, err := gamedata.NewFixedEffectDataset(records, "global", gamedata.WithName("fe"))
	if err != nil {
		panic(err)
	}

	fmt.Println(ds.Persist(collection.MemoryAndDisk).StorageLevel())
	fmt.Println(ds.Persist(collection.DiskOnly).StorageLevel())

	if _, err := ds.Unpersist(ctx); err != nil {
		panic(err)
	}
	fmt.Println(ds.StorageLevel())
	// Output:
	// MEMORY_AND_DISK
	// MEMORY_AND_DISK
	// NONE
}
