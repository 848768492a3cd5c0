package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidVector is returned when sparse indices are unsorted, duplicated,
	// out of range, or do not line up with the values.
	ErrInvalidVector = errors.New("invalid vector")

	// ErrUnknownFeatureShard is returned when a datum has no feature vector for
	// the requested feature shard.
	ErrUnknownFeatureShard = errors.New("unknown feature shard")
)

// ErrMissingFeatureShard reports which datum lacked which feature shard.
//
// It matches ErrUnknownFeatureShard via errors.Is.
type ErrMissingFeatureShard struct {
	ShardID string
	Key     Key
}

func (e *ErrMissingFeatureShard) Error() string {
	return fmt.Sprintf("unknown feature shard %q for key %d", e.ShardID, e.Key)
}

func (e *ErrMissingFeatureShard) Unwrap() error { return ErrUnknownFeatureShard }
