package gamedata

import (
	"math/rand/v2"
	"testing"

	"github.com/hupe1980/gamedata/collection"
	"github.com/hupe1980/gamedata/model"
	"github.com/stretchr/testify/require"
)

func testEngine(opts ...collection.Option) *collection.Engine {
	return collection.NewEngine(append([]collection.Option{
		collection.WithParallelism(4),
		collection.WithNumPartitions(4),
	}, opts...)...)
}

// scenarioDataset is D = {1:(1.0,[0.1,0.2],0.0,1.0), 2:(0.0,[0.3,0.1],0.5,2.0)}.
func scenarioDataset(t *testing.T, eng *collection.Engine) *FixedEffectDataset {
	t.Helper()
	records := collection.FromMap(eng, map[model.Key]model.LabeledRecord{
		1: model.NewLabeledRecord(1.0, model.NewDense([]float64{0.1, 0.2}), 0.0, 1.0),
		2: model.NewLabeledRecord(0.0, model.NewDense([]float64{0.3, 0.1}), 0.5, 2.0),
	})
	ds, err := NewFixedEffectDataset(records, "global")
	require.NoError(t, err)
	return ds
}

func randomRecords(rng *rand.Rand, n, dim int) map[model.Key]model.LabeledRecord {
	out := make(map[model.Key]model.LabeledRecord, n)
	for len(out) < n {
		k := model.Key(rng.Uint64N(10 * uint64(n)))
		values := make([]float64, dim)
		for i := range values {
			values[i] = rng.NormFloat64()
		}
		out[k] = model.NewLabeledRecord(float64(rng.IntN(2)), model.NewDense(values), rng.NormFloat64(), 1+rng.Float64())
	}
	return out
}

func randomScores(rng *rand.Rand, keys map[model.Key]model.LabeledRecord, extra int) map[model.Key]float64 {
	out := make(map[model.Key]float64)
	for k := range keys {
		if rng.IntN(2) == 0 {
			out[k] = rng.NormFloat64()
		}
	}
	for range extra {
		out[model.Key(rng.Uint64())] = rng.NormFloat64()
	}
	return out
}

func rawSource(eng *collection.Engine, data map[model.Key]model.RawDatum) Source {
	return collection.FromMap(eng, data)
}

func datum(label float64, shards map[string][]float64) model.RawDatum {
	fs := make(map[string]model.Vector, len(shards))
	for id, v := range shards {
		fs[id] = model.NewDense(v)
	}
	return model.RawDatum{Response: label, Weight: 1, FeatureShards: fs}
}
