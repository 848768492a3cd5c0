// Package model defines the value types that flow through a fixed-effect dataset.
//
// # Identity Types
//
//   - Key: Globally unique, iteration-stable record identifier (uint64)
//
// # Data Types
//
//   - Vector: Fixed-length feature vector in dense or sparse form
//   - LabeledRecord: One training example (label, features, offset, weight)
//   - RawDatum: Upstream per-entity datum carrying every feature shard
//
// All types are immutable values. "Updating" a LabeledRecord returns a copy:
//
//	rec := model.NewLabeledRecord(1.0, model.NewDense([]float64{0.1, 0.2}), 0, 1)
//	next := rec.AddOffset(0.25) // rec is unchanged
package model
