package gamedata

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/gamedata/collection"
	"github.com/hupe1980/gamedata/model"
)

// Source is the upstream keyed collection of raw training data.
type Source = *collection.Collection[model.Key, model.RawDatum]

// Configuration selects what a builder projects out of a source.
type Configuration struct {
	// FeatureShardID names the feature shard used as record features.
	FeatureShardID string
}

// DatasetBuilder is an immutable fluent builder for FixedEffectDataset.
// Each method returns a new builder with the updated configuration.
//
// Example:
//
//	ds, err := gamedata.NewDatasetBuilder().
//	    FeatureShard("global").
//	    Name("fixed-effect").
//	    StorageLevel(collection.MemoryAndDisk).
//	    Build(ctx, source)
type DatasetBuilder struct {
	featureShardID string
	validate       bool
	logger         *Logger
	metrics        MetricsCollector
	name           string
	level          collection.StorageLevel
}

// NewDatasetBuilder returns a builder with validation enabled.
func NewDatasetBuilder() DatasetBuilder {
	return DatasetBuilder{
		validate: true,
		logger:   NoopLogger(),
		metrics:  NoopMetricsCollector{},
	}
}

// FeatureShard sets the feature shard to project.
func (b DatasetBuilder) FeatureShard(id string) DatasetBuilder {
	b.featureShardID = id
	return b
}

// Validate enables or disables the build-time validation pass.
// Default: true.
//
// With validation, Build evaluates the projection once and fails if any datum
// lacks the shard or the feature vectors differ in length. Without it,
// missing shards surface on first evaluation and lengths are not checked.
func (b DatasetBuilder) Validate(enabled bool) DatasetBuilder {
	b.validate = enabled
	return b
}

// Logger sets the logger passed to built datasets.
func (b DatasetBuilder) Logger(l *Logger) DatasetBuilder {
	if l == nil {
		l = NoopLogger()
	}
	b.logger = l
	return b
}

// Metrics sets the metrics collector passed to built datasets.
func (b DatasetBuilder) Metrics(mc MetricsCollector) DatasetBuilder {
	if mc == nil {
		mc = NoopMetricsCollector{}
	}
	b.metrics = mc
	return b
}

// Name sets the diagnostic name of built datasets.
func (b DatasetBuilder) Name(name string) DatasetBuilder {
	b.name = name
	return b
}

// StorageLevel persists built datasets at level. With validation enabled the
// validation pass also fills the cache.
func (b DatasetBuilder) StorageLevel(level collection.StorageLevel) DatasetBuilder {
	b.level = level
	return b
}

// Build projects source onto the configured feature shard.
func (b DatasetBuilder) Build(ctx context.Context, source Source) (*FixedEffectDataset, error) {
	return b.BuildWithConfiguration(ctx, source, Configuration{FeatureShardID: b.featureShardID})
}

// BuildWithConfiguration projects source onto cfg.FeatureShardID.
// On error no dataset is returned.
func (b DatasetBuilder) BuildWithConfiguration(ctx context.Context, source Source, cfg Configuration) (ds *FixedEffectDataset, err error) {
	start := time.Now()
	numFeatures := -1
	defer func() {
		b.metrics.RecordBuild(time.Since(start), err)
		b.logger.LogBuild(ctx, cfg.FeatureShardID, numFeatures, b.validate, err)
	}()

	if cfg.FeatureShardID == "" {
		return nil, fmt.Errorf("%w: empty feature shard id", ErrInvalidConfiguration)
	}
	if source == nil {
		return nil, fmt.Errorf("%w: nil source", ErrInvalidConfiguration)
	}

	shard := cfg.FeatureShardID
	records := collection.TryMapValues(source, func(k model.Key, d model.RawDatum) (model.LabeledRecord, error) {
		return d.ToLabeledRecord(k, shard)
	})

	opts := []Option{
		WithLogger(b.logger.WithFeatureShard(shard)),
		WithMetricsCollector(b.metrics),
		WithName(b.name),
	}

	if b.level != collection.StorageNone {
		records.Cache(b.level)
	}

	if b.validate {
		numFeatures, err = validateLengths(ctx, records, shard)
		if err != nil {
			_ = records.Uncache(ctx)
			return nil, err
		}
		opts = append(opts, WithNumFeatures(numFeatures))
	}

	return NewFixedEffectDataset(records, shard, opts...)
}

// lengthCheck is the validation accumulator: the first feature length seen
// and the first record that disagrees with it.
type lengthCheck struct {
	seen     bool
	length   int
	key      model.Key
	mismatch *ErrFeatureLengthMismatch
}

func validateLengths(ctx context.Context, records Records, shardID string) (int, error) {
	res, err := collection.Aggregate(ctx, records,
		func() lengthCheck { return lengthCheck{} },
		func(acc lengthCheck, k model.Key, r model.LabeledRecord) lengthCheck {
			if acc.mismatch != nil {
				return acc
			}
			n := r.Features().Len()
			switch {
			case !acc.seen:
				acc.seen, acc.length, acc.key = true, n, k
			case n != acc.length:
				acc.mismatch = &ErrFeatureLengthMismatch{ShardID: shardID, Expected: acc.length, Actual: n, Key: k}
			}
			return acc
		},
		func(a, b lengthCheck) lengthCheck {
			switch {
			case a.mismatch != nil:
				return a
			case !a.seen:
				return b
			case b.mismatch != nil:
				return b
			case b.seen && b.length != a.length:
				a.mismatch = &ErrFeatureLengthMismatch{ShardID: shardID, Expected: a.length, Actual: b.length, Key: b.key}
			}
			return a
		},
	)
	if err != nil {
		return 0, err
	}
	if res.mismatch != nil {
		return 0, res.mismatch
	}
	return res.length, nil
}
