package model

import (
	"encoding/json"
	"fmt"
)

// LabeledRecord is one training example.
//
// LabeledRecord is an immutable value. Methods that "change" a field return
// a new record and leave the receiver untouched.
type LabeledRecord struct {
	label    float64
	features Vector
	offset   float64
	weight   float64
}

// NewLabeledRecord constructs a record.
// Weight is non-negative by convention; it is not checked here.
func NewLabeledRecord(label float64, features Vector, offset, weight float64) LabeledRecord {
	return LabeledRecord{
		label:    label,
		features: features,
		offset:   offset,
		weight:   weight,
	}
}

// Label returns the response value.
func (r LabeledRecord) Label() float64 { return r.label }

// Features returns the feature vector.
func (r LabeledRecord) Features() Vector { return r.features }

// Offset returns the accumulated prior score contribution.
func (r LabeledRecord) Offset() float64 { return r.offset }

// Weight returns the example importance weight.
func (r LabeledRecord) Weight() float64 { return r.weight }

// WithOffset returns a copy of r with the offset replaced.
func (r LabeledRecord) WithOffset(offset float64) LabeledRecord {
	r.offset = offset
	return r
}

// AddOffset returns a copy of r with delta added to the offset.
func (r LabeledRecord) AddOffset(delta float64) LabeledRecord {
	return r.WithOffset(r.offset + delta)
}

// SizeBytes returns the heap bytes held by the record's features.
func (r LabeledRecord) SizeBytes() int64 { return r.features.SizeBytes() }

// Equal reports whether both records carry identical values.
func (r LabeledRecord) Equal(other LabeledRecord) bool {
	return r.label == other.label &&
		r.offset == other.offset &&
		r.weight == other.weight &&
		r.features.Equal(other.features)
}

// String implements fmt.Stringer.
func (r LabeledRecord) String() string {
	return fmt.Sprintf("(label=%g, features=%d/%d, offset=%g, weight=%g)",
		r.label, r.features.ActiveSize(), r.features.Len(), r.offset, r.weight)
}

type labeledRecordJSON struct {
	Label    float64 `json:"label"`
	Features Vector  `json:"features"`
	Offset   float64 `json:"offset"`
	Weight   float64 `json:"weight"`
}

// MarshalJSON implements json.Marshaler.
func (r LabeledRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(labeledRecordJSON{
		Label:    r.label,
		Features: r.features,
		Offset:   r.offset,
		Weight:   r.weight,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *LabeledRecord) UnmarshalJSON(data []byte) error {
	var raw labeledRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = NewLabeledRecord(raw.Label, raw.Features, raw.Offset, raw.Weight)
	return nil
}
