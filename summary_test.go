package gamedata

import (
	"context"
	"math"
	"testing"

	"github.com/hupe1980/gamedata/collection"
	"github.com/hupe1980/gamedata/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary_Scenario(t *testing.T) {
	ctx := context.Background()
	d := scenarioDataset(t, testEngine())

	s, err := d.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.NumSamples)
	assert.Equal(t, 3.0, s.WeightSum)
	assert.Equal(t, 1.0, s.ResponseSum)
	assert.Equal(t, 2, s.NumFeatures)
	assert.Equal(t, "global", s.FeatureShardID)
	assert.Equal(t, int64(2), s.ActiveFeatures.Count)
	assert.Equal(t, 2.0, s.ActiveFeatures.Mean)
	assert.Equal(t, 0.0, s.ActiveFeatures.Stdev)

	text, err := d.Summarize(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "numSamples: 2\n")
	assert.Contains(t, text, "weightSum: 3.0\n")
	assert.Contains(t, text, "responseSum: 1.0\n")
	assert.Contains(t, text, "numFeatures: 2\n")
	assert.Contains(t, text, "featureShardId: global\n")
	assert.Contains(t, text, "activeFeatures: (count: 2, mean: 2.0")
}

func TestSummary_SparseActiveFeatures(t *testing.T) {
	ctx := context.Background()
	eng := testEngine()

	sparse := func(indices ...int32) model.Vector {
		values := make([]float64, len(indices))
		for i := range values {
			values[i] = 1
		}
		v, err := model.NewSparse(10, indices, values)
		require.NoError(t, err)
		return v
	}

	records := collection.FromMap(eng, map[model.Key]model.LabeledRecord{
		1: model.NewLabeledRecord(1, sparse(0), 0, 1),
		2: model.NewLabeledRecord(0, sparse(1, 2, 3), 0, 1),
		3: model.NewLabeledRecord(1, sparse(), 0, 0.5),
	})
	d, err := NewFixedEffectDataset(records, "sparse")
	require.NoError(t, err)

	s, err := d.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.NumSamples)
	assert.Equal(t, 2.5, s.WeightSum)
	assert.Equal(t, 10, s.NumFeatures)
	assert.Equal(t, 0.0, s.ActiveFeatures.Min)
	assert.Equal(t, 3.0, s.ActiveFeatures.Max)
	assert.InDelta(t, 4.0/3.0, s.ActiveFeatures.Mean, 1e-12)
}

func TestSummary_Empty(t *testing.T) {
	d, err := NewFixedEffectDataset(collection.Empty[model.Key, model.LabeledRecord](testEngine()), "global")
	require.NoError(t, err)

	s, err := d.Summary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, s.NumSamples)
	assert.Zero(t, s.NumFeatures)
	assert.True(t, math.IsNaN(s.ActiveFeatures.Mean))
	assert.Contains(t, s.String(), "mean: NaN")
}

func TestFormatFloat(t *testing.T) {
	tests := map[float64]string{
		3:           "3.0",
		-1:          "-1.0",
		0.25:        "0.25",
		1e21:        "1e+21",
		math.Inf(1): "+Inf",
		math.NaN():  "NaN",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatFloat(in))
	}
}
