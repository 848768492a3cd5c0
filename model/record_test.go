package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabeledRecord_AddOffsetIsPure(t *testing.T) {
	rec := NewLabeledRecord(1.0, NewDense([]float64{0.1, 0.2}), 0.5, 2.0)

	next := rec.AddOffset(0.25)

	assert.Equal(t, 0.5, rec.Offset())
	assert.Equal(t, 0.75, next.Offset())
	assert.Equal(t, rec.Label(), next.Label())
	assert.Equal(t, rec.Weight(), next.Weight())
	assert.True(t, rec.Features().Equal(next.Features()))
}

func TestLabeledRecord_WithOffset(t *testing.T) {
	rec := NewLabeledRecord(0, NewDense(nil), 3, 1)
	assert.Equal(t, -1.0, rec.WithOffset(-1).Offset())
	assert.Equal(t, 3.0, rec.Offset())
}

func TestLabeledRecord_JSON(t *testing.T) {
	features, err := NewSparse(5, []int32{0, 4}, []float64{1, 2})
	require.NoError(t, err)
	rec := NewLabeledRecord(1, features, 0.25, 3)

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var got LabeledRecord
	require.NoError(t, json.Unmarshal(data, &got))
	assert.True(t, rec.Equal(got))
}

func TestLabeledRecord_String(t *testing.T) {
	rec := NewLabeledRecord(1, NewDense([]float64{1, 0}), 0, 1)
	assert.Equal(t, "(label=1, features=2/2, offset=0, weight=1)", rec.String())
}
