package gamedata

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/gamedata/collection"
	"github.com/hupe1980/gamedata/internal/stats"
	"github.com/hupe1980/gamedata/model"
)

// FeatureStats summarizes the number of active features per record.
type FeatureStats struct {
	Count int64
	Mean  float64
	Stdev float64
	Min   float64
	Max   float64
}

func (s FeatureStats) String() string {
	return fmt.Sprintf("(count: %d, mean: %s, stdev: %s, max: %s, min: %s)",
		s.Count, formatFloat(s.Mean), formatFloat(s.Stdev), formatFloat(s.Max), formatFloat(s.Min))
}

// Summary holds whole-dataset reductions.
type Summary struct {
	Name           string
	FeatureShardID string
	NumSamples     int64
	WeightSum      float64
	ResponseSum    float64
	NumFeatures    int
	ActiveFeatures FeatureStats
}

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "numSamples: %d\n", s.NumSamples)
	fmt.Fprintf(&b, "weightSum: %s\n", formatFloat(s.WeightSum))
	fmt.Fprintf(&b, "responseSum: %s\n", formatFloat(s.ResponseSum))
	fmt.Fprintf(&b, "numFeatures: %d\n", s.NumFeatures)
	fmt.Fprintf(&b, "featureShardId: %s\n", s.FeatureShardID)
	fmt.Fprintf(&b, "activeFeatures: %s", s.ActiveFeatures)
	return b.String()
}

// formatFloat prints whole numbers with a trailing ".0".
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(s, ".eEIN") {
		return s
	}
	return s + ".0"
}

type summaryAcc struct {
	n           int64
	weightSum   float64
	responseSum float64
	active      stats.StatCounter
}

// Summary reduces the whole dataset. It evaluates every partition.
func (d *FixedEffectDataset) Summary(ctx context.Context) (Summary, error) {
	acc, err := collection.Aggregate(ctx, d.records,
		func() summaryAcc { return summaryAcc{} },
		func(a summaryAcc, _ model.Key, r model.LabeledRecord) summaryAcc {
			a.n++
			a.weightSum += r.Weight()
			a.responseSum += r.Label()
			a.active = a.active.Add(float64(r.Features().ActiveSize()))
			return a
		},
		func(a, b summaryAcc) summaryAcc {
			return summaryAcc{
				n:           a.n + b.n,
				weightSum:   a.weightSum + b.weightSum,
				responseSum: a.responseSum + b.responseSum,
				active:      a.active.Merge(b.active),
			}
		},
	)
	if err != nil {
		return Summary{}, err
	}

	numFeatures, err := d.NumFeatures(ctx)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{
		Name:           d.Name(),
		FeatureShardID: d.featureShardID,
		NumSamples:     acc.n,
		WeightSum:      acc.weightSum,
		ResponseSum:    acc.responseSum,
		NumFeatures:    numFeatures,
		ActiveFeatures: FeatureStats{
			Count: acc.active.Count(),
			Mean:  acc.active.Mean(),
			Stdev: acc.active.Stdev(),
			Min:   acc.active.Min(),
			Max:   acc.active.Max(),
		},
	}
	d.logger.LogSummary(ctx, s)
	return s, nil
}

// Summarize returns Summary formatted as text.
func (d *FixedEffectDataset) Summarize(ctx context.Context) (string, error) {
	s, err := d.Summary(ctx)
	if err != nil {
		return "", err
	}
	return s.String(), nil
}
