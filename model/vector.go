package model

import (
	"encoding/json"
	"fmt"
)

// Vector is an immutable, fixed-length feature vector.
//
// A vector is either dense (every entry stored) or sparse (only the active
// entries stored, with strictly increasing indices). The zero value is an
// empty dense vector.
type Vector struct {
	size    int
	sparse  bool
	indices []int32
	values  []float64
}

// NewDense returns a dense vector holding a copy of values.
func NewDense(values []float64) Vector {
	v := make([]float64, len(values))
	copy(v, values)
	return Vector{size: len(v), values: v}
}

// NewSparse returns a sparse vector of the given size.
// Indices must be strictly increasing, within [0, size), and have the same
// length as values.
func NewSparse(size int, indices []int32, values []float64) (Vector, error) {
	if size < 0 {
		return Vector{}, fmt.Errorf("%w: negative size %d", ErrInvalidVector, size)
	}
	if len(indices) != len(values) {
		return Vector{}, fmt.Errorf("%w: %d indices for %d values", ErrInvalidVector, len(indices), len(values))
	}
	prev := int32(-1)
	for _, idx := range indices {
		if idx <= prev || int(idx) >= size {
			return Vector{}, fmt.Errorf("%w: index %d out of order or range (size %d)", ErrInvalidVector, idx, size)
		}
		prev = idx
	}

	ind := make([]int32, len(indices))
	copy(ind, indices)
	val := make([]float64, len(values))
	copy(val, values)
	return Vector{size: size, sparse: true, indices: ind, values: val}, nil
}

// Len returns the logical length of the vector.
func (v Vector) Len() int { return v.size }

// IsSparse reports whether the vector stores only its active entries.
func (v Vector) IsSparse() bool { return v.sparse }

// ActiveSize returns the number of stored entries.
// For dense vectors this equals Len.
func (v Vector) ActiveSize() int { return len(v.values) }

// SizeBytes returns the heap bytes held by the vector's backing arrays.
func (v Vector) SizeBytes() int64 {
	return int64(cap(v.indices))*4 + int64(cap(v.values))*8
}

// At returns the value at index i (zero for inactive sparse entries).
// It panics if i is out of range.
func (v Vector) At(i int) float64 {
	if i < 0 || i >= v.size {
		panic(fmt.Sprintf("model: index %d out of range [0,%d)", i, v.size))
	}
	if !v.sparse {
		return v.values[i]
	}
	lo, hi := 0, len(v.indices)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		switch idx := int(v.indices[mid]); {
		case idx == i:
			return v.values[mid]
		case idx < i:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0
}

// ForEachActive calls fn for every stored entry in index order.
func (v Vector) ForEachActive(fn func(i int, value float64)) {
	for k, val := range v.values {
		if v.sparse {
			fn(int(v.indices[k]), val)
		} else {
			fn(k, val)
		}
	}
}

// Dense returns a dense copy of the vector values.
func (v Vector) Dense() []float64 {
	out := make([]float64, v.size)
	v.ForEachActive(func(i int, value float64) {
		out[i] = value
	})
	return out
}

// Equal reports whether both vectors have the same form, length and entries.
func (v Vector) Equal(other Vector) bool {
	if v.size != other.size || v.sparse != other.sparse || len(v.values) != len(other.values) {
		return false
	}
	for i := range v.values {
		if v.values[i] != other.values[i] {
			return false
		}
	}
	for i := range v.indices {
		if v.indices[i] != other.indices[i] {
			return false
		}
	}
	return true
}

type vectorJSON struct {
	Size    int       `json:"size"`
	Sparse  bool      `json:"sparse,omitempty"`
	Indices []int32   `json:"indices,omitempty"`
	Values  []float64 `json:"values"`
}

// MarshalJSON implements json.Marshaler.
func (v Vector) MarshalJSON() ([]byte, error) {
	values := v.values
	if values == nil {
		values = []float64{}
	}
	return json.Marshal(vectorJSON{
		Size:    v.size,
		Sparse:  v.sparse,
		Indices: v.indices,
		Values:  values,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
// Sparse payloads are validated the same way NewSparse validates them.
func (v *Vector) UnmarshalJSON(data []byte) error {
	var raw vectorJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.Sparse {
		if raw.Size != len(raw.Values) {
			return fmt.Errorf("%w: dense size %d with %d values", ErrInvalidVector, raw.Size, len(raw.Values))
		}
		*v = Vector{size: raw.Size, values: raw.Values}
		return nil
	}
	out, err := NewSparse(raw.Size, raw.Indices, raw.Values)
	if err != nil {
		return err
	}
	*v = out
	return nil
}
