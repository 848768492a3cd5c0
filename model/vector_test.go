package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDense(t *testing.T) {
	src := []float64{0.1, 0.2, 0.3}
	v := NewDense(src)
	src[0] = 42 // must not leak into the vector

	assert.Equal(t, 3, v.Len())
	assert.Equal(t, 3, v.ActiveSize())
	assert.False(t, v.IsSparse())
	assert.Equal(t, 0.1, v.At(0))
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, v.Dense())
}

func TestNewSparse(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		indices []int32
		values  []float64
		wantErr bool
	}{
		{name: "valid", size: 10, indices: []int32{1, 4, 9}, values: []float64{1, 2, 3}},
		{name: "empty", size: 5},
		{name: "length mismatch", size: 10, indices: []int32{1}, values: []float64{1, 2}, wantErr: true},
		{name: "unsorted", size: 10, indices: []int32{4, 1}, values: []float64{1, 2}, wantErr: true},
		{name: "duplicate", size: 10, indices: []int32{1, 1}, values: []float64{1, 2}, wantErr: true},
		{name: "out of range", size: 3, indices: []int32{3}, values: []float64{1}, wantErr: true},
		{name: "negative size", size: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewSparse(tt.size, tt.indices, tt.values)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidVector)
				return
			}
			require.NoError(t, err)
			assert.True(t, v.IsSparse())
			assert.Equal(t, tt.size, v.Len())
			assert.Equal(t, len(tt.values), v.ActiveSize())
		})
	}
}

func TestSparseAt(t *testing.T) {
	v, err := NewSparse(6, []int32{0, 3, 5}, []float64{1.5, -2, 7})
	require.NoError(t, err)

	assert.Equal(t, 1.5, v.At(0))
	assert.Equal(t, 0.0, v.At(1))
	assert.Equal(t, -2.0, v.At(3))
	assert.Equal(t, 7.0, v.At(5))
	assert.Equal(t, []float64{1.5, 0, 0, -2, 0, 7}, v.Dense())
	assert.Panics(t, func() { v.At(6) })
}

func TestForEachActive(t *testing.T) {
	v, err := NewSparse(4, []int32{1, 2}, []float64{3, 4})
	require.NoError(t, err)

	var idx []int
	var sum float64
	v.ForEachActive(func(i int, value float64) {
		idx = append(idx, i)
		sum += value
	})
	assert.Equal(t, []int{1, 2}, idx)
	assert.Equal(t, 7.0, sum)
}

func TestVectorJSON(t *testing.T) {
	sparse, err := NewSparse(8, []int32{2, 7}, []float64{0.5, 1})
	require.NoError(t, err)

	for _, v := range []Vector{NewDense([]float64{1, 2}), sparse, {}} {
		data, err := json.Marshal(v)
		require.NoError(t, err)

		var got Vector
		require.NoError(t, json.Unmarshal(data, &got))
		assert.True(t, v.Equal(got), "round trip of %s", data)
	}
}

func TestVectorJSON_RejectsInvalid(t *testing.T) {
	var v Vector
	err := json.Unmarshal([]byte(`{"size":3,"values":[1]}`), &v)
	assert.ErrorIs(t, err, ErrInvalidVector)

	err = json.Unmarshal([]byte(`{"size":3,"sparse":true,"indices":[2,1],"values":[1,2]}`), &v)
	assert.ErrorIs(t, err, ErrInvalidVector)
}

func TestVector_SizeBytes(t *testing.T) {
	assert.Equal(t, int64(24), NewDense([]float64{1, 2, 3}).SizeBytes())

	sp, err := NewSparse(100, []int32{1, 5}, []float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, int64(2*4+2*8), sp.SizeBytes())

	r := NewLabeledRecord(1, sp, 0, 1)
	assert.Equal(t, sp.SizeBytes(), r.SizeBytes())
}
