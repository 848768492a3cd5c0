package gamedata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/gamedata/collection"
	"github.com/hupe1980/gamedata/model"
)

// Records is the keyed collection of labeled records backing a dataset.
type Records = *collection.Collection[model.Key, model.LabeledRecord]

// ScoreTable maps keys to scalar scores produced by another model coordinate.
// The dataset only reads it.
type ScoreTable = *collection.Collection[model.Key, float64]

// FixedEffectDataset is a partitioned collection of labeled records for one
// feature shard.
//
// Transformations return new datasets and never modify the receiver.
// Persist, Unpersist, Materialize and Rename act on the backing collection
// and return the receiver for chaining. Datasets that share a collection
// share its cache state: unpersisting through one releases it for all.
type FixedEffectDataset struct {
	records        Records
	featureShardID string
	features       *featureCount
	logger         *Logger
	metrics        MetricsCollector
}

// featureCount is numFeatures, derived once from the first record.
type featureCount struct {
	mu    sync.Mutex
	known bool
	n     int
}

func (f *featureCount) get(ctx context.Context, records Records) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.known {
		return f.n, nil
	}
	first, ok, err := records.First(ctx)
	if err != nil {
		return 0, err
	}
	if ok {
		f.n = first.Value.Features().Len()
	}
	f.known = true
	return f.n, nil
}

func (f *featureCount) peek() (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.n, f.known
}

func knownFeatures(n int) *featureCount {
	return &featureCount{known: true, n: n}
}

// NewFixedEffectDataset wraps records for the given feature shard.
func NewFixedEffectDataset(records Records, featureShardID string, optFns ...Option) (*FixedEffectDataset, error) {
	if records == nil {
		return nil, fmt.Errorf("%w: nil records", ErrInvalidConfiguration)
	}
	if featureShardID == "" {
		return nil, fmt.Errorf("%w: empty feature shard id", ErrInvalidConfiguration)
	}

	o := options{
		logger:      NoopLogger(),
		metrics:     NoopMetricsCollector{},
		numFeatures: -1,
	}
	for _, fn := range optFns {
		fn(&o)
	}

	features := &featureCount{}
	if o.numFeatures >= 0 {
		features = knownFeatures(o.numFeatures)
	}
	if o.name != "" {
		records.SetLabel(o.name)
	}

	return &FixedEffectDataset{
		records:        records,
		featureShardID: featureShardID,
		features:       features,
		logger:         o.logger,
		metrics:        o.metrics,
	}, nil
}

// Records returns the backing collection.
func (d *FixedEffectDataset) Records() Records { return d.records }

// FeatureShardID returns the feature shard the records were projected from.
func (d *FixedEffectDataset) FeatureShardID() string { return d.featureShardID }

// Name returns the diagnostic name, or "" if none was set.
func (d *FixedEffectDataset) Name() string { return d.records.Label() }

// StorageLevel returns the cache level of the records.
func (d *FixedEffectDataset) StorageLevel() collection.StorageLevel { return d.records.StorageLevel() }

// NumFeatures returns the feature vector length of the first record found.
// An empty dataset has zero features. The value is computed at most once.
func (d *FixedEffectDataset) NumFeatures(ctx context.Context) (int, error) {
	return d.features.get(ctx, d.records)
}

// AddScoresToOffsets returns a dataset whose record offsets include scores.
//
// Every record is kept: offset' = offset + score, where a key without a score
// contributes zero. Scores for keys that are not in the dataset are ignored.
// A nil table is treated as empty. The result is lazy and unnamed.
func (d *FixedEffectDataset) AddScoresToOffsets(scores ScoreTable) *FixedEffectDataset {
	empty := scores == nil
	if empty {
		scores = collection.Empty[model.Key, float64](d.records.Engine())
	}

	joined := collection.LeftOuterJoin(d.records, scores)
	updated := collection.MapValues(joined, func(j collection.Joined[model.LabeledRecord, float64]) model.LabeledRecord {
		return j.Left.AddOffset(j.RightOr(0))
	})

	features := &featureCount{}
	if n, ok := d.features.peek(); ok {
		features = knownFeatures(n)
	}

	d.metrics.RecordScoreUpdate()
	d.logger.LogScoreUpdate(d.Name(), d.featureShardID, empty)

	return &FixedEffectDataset{
		records:        updated,
		featureShardID: d.featureShardID,
		features:       features,
		logger:         d.logger,
		metrics:        d.metrics,
	}
}

// Persist caches the records at level on first evaluation. It is a no-op if
// the records are already cached or level is StorageNone.
func (d *FixedEffectDataset) Persist(level collection.StorageLevel) *FixedEffectDataset {
	if level == collection.StorageNone {
		return d
	}
	if d.records.IsCached() {
		d.logger.LogPersist(d.Name(), d.records.StorageLevel(), true)
		return d
	}
	d.records.Cache(level)
	d.metrics.RecordPersist(level)
	d.logger.LogPersist(d.Name(), level, false)
	return d
}

// Unpersist releases cached records. It is a no-op if they are not cached.
func (d *FixedEffectDataset) Unpersist(ctx context.Context) (*FixedEffectDataset, error) {
	if !d.records.IsCached() {
		return d, nil
	}
	err := d.records.Uncache(ctx)
	d.metrics.RecordUnpersist(err)
	d.logger.LogUnpersist(ctx, d.Name(), err)
	return d, err
}

// Materialize evaluates every partition of the records. Contents are unchanged;
// a persisted dataset is fully cached afterwards.
func (d *FixedEffectDataset) Materialize(ctx context.Context) (*FixedEffectDataset, error) {
	start := time.Now()
	err := d.records.ForceEvaluate(ctx)
	duration := time.Since(start)
	d.metrics.RecordMaterialize(duration, err)
	d.logger.LogMaterialize(ctx, d.Name(), duration, err)
	return d, err
}

// Rename sets the diagnostic name. It has no effect on identity or contents.
func (d *FixedEffectDataset) Rename(name string) *FixedEffectDataset {
	d.records.SetLabel(name)
	return d
}

func (d *FixedEffectDataset) String() string {
	return fmt.Sprintf("FixedEffectDataset(name=%q, featureShardId=%s, level=%s)",
		d.Name(), d.featureShardID, d.StorageLevel())
}
