package gamedata

import (
	"context"
	"fmt"
	"path"
	"sync/atomic"

	"github.com/hupe1980/gamedata/blobstore"
	"github.com/hupe1980/gamedata/collection"
	"github.com/hupe1980/gamedata/model"
	"github.com/hupe1980/gamedata/scoring"
)

// ScoringResults plans one scoring.Result per record: the prediction is the
// record offset plus the model score (zero when the key has no score).
// The key is used as uid.
func (d *FixedEffectDataset) ScoringResults(scores ScoreTable, modelID string) *collection.Collection[model.Key, scoring.Result] {
	if scores == nil {
		scores = collection.Empty[model.Key, float64](d.records.Engine())
	}
	joined := collection.LeftOuterJoin(d.records, scores)
	return collection.TryMapValues(joined, func(k model.Key, j collection.Joined[model.LabeledRecord, float64]) (scoring.Result, error) {
		r := j.Left
		return scoring.Result{
			UID:             scoring.Ptr(k.String()),
			Label:           scoring.Ptr(r.Label()),
			ModelID:         modelID,
			PredictionScore: r.Offset() + j.RightOr(0),
			Weight:          scoring.Ptr(r.Weight()),
		}, nil
	})
}

// SaveScoringResults writes ScoringResults to store, one blob per partition
// under dir, and returns the number of results written. Blobs already under
// dir are deleted first.
func (d *FixedEffectDataset) SaveScoringResults(ctx context.Context, store blobstore.BlobStore, dir string, scores ScoreTable, modelID string) (int64, error) {
	if modelID == "" {
		return 0, scoring.ErrMissingModelID
	}

	if err := blobstore.DeletePrefix(ctx, store, dir+"/"); err != nil {
		return 0, fmt.Errorf("clear %s: %w", dir, err)
	}

	results := d.ScoringResults(scores, modelID)
	rc := d.records.Engine().ResourceController()

	var written atomic.Int64
	err := results.ForEachPartition(ctx, func(p int, data []collection.Pair[model.Key, scoring.Result]) error {
		w, err := scoring.NewWriter(ctx, store, path.Join(dir, fmt.Sprintf("part-%05d%s", p, scoring.Extension)), rc)
		if err != nil {
			return err
		}
		for _, kv := range data {
			if err := w.Write(kv.Value); err != nil {
				_ = w.Abort()
				return err
			}
		}
		written.Add(w.Count())
		return w.Close()
	})
	if err != nil {
		return 0, err
	}
	d.logger.InfoContext(ctx, "scoring results saved",
		"dataset", d.Name(),
		"model_id", modelID,
		"dir", dir,
		"count", written.Load(),
	)
	return written.Load(), nil
}
