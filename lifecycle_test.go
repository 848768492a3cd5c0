package gamedata

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/hupe1980/gamedata/blobstore"
	"github.com/hupe1980/gamedata/collection"
	"github.com/hupe1980/gamedata/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLifecycle_CoordinateDescent replays the way a training loop drives a
// dataset: each iteration persists the updated dataset, materializes it and
// releases the previous one.
func TestLifecycle_CoordinateDescent(t *testing.T) {
	tests := []struct {
		name  string
		level collection.StorageLevel
	}{
		{"MemoryOnly", collection.MemoryOnly},
		{"MemoryAndDisk", collection.MemoryAndDisk},
		{"DiskOnly", collection.DiskOnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := blobstore.NewMemoryStore()
			eng := testEngine(
				collection.WithSpillStore(store),
				collection.WithMemoryLimit(1<<20),
			)
			rng := rand.New(rand.NewPCG(7, 11))

			data := randomRecords(rng, 200, 5)
			records := collection.FromMap(eng, data)
			current, err := NewFixedEffectDataset(records, "global", WithName("iter-0"))
			require.NoError(t, err)
			current.Persist(tt.level)
			_, err = current.Materialize(ctx)
			require.NoError(t, err)

			want := make(map[model.Key]float64, len(data))
			for k, r := range data {
				want[k] = r.Offset()
			}

			for iter := 1; iter <= 3; iter++ {
				scores := randomScores(rng, data, 5)
				for k, s := range scores {
					if _, ok := want[k]; ok {
						want[k] += s
					}
				}

				next := current.AddScoresToOffsets(collection.FromMap(eng, scores)).Persist(tt.level)
				_, err := next.Materialize(ctx)
				require.NoError(t, err)

				_, err = current.Unpersist(ctx)
				require.NoError(t, err)
				assert.False(t, current.Records().IsCached())
				current = next
			}

			got, err := current.Records().Collect(ctx)
			require.NoError(t, err)
			require.Len(t, got, len(want))
			for k, off := range want {
				assert.InDelta(t, off, got[k].Offset(), 1e-9)
			}

			_, err = current.Unpersist(ctx)
			require.NoError(t, err)
			assert.Zero(t, eng.ResourceController().MemoryUsage())
			assert.Zero(t, store.Len(), "spilled partitions are deleted on release")
		})
	}
}
