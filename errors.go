package gamedata

import (
	"errors"
	"fmt"

	"github.com/hupe1980/gamedata/model"
)

var (
	// ErrInvalidConfiguration is returned for a missing feature shard id or source.
	ErrInvalidConfiguration = errors.New("invalid dataset configuration")

	// ErrUnknownFeatureShard is returned when a datum lacks the configured feature shard.
	ErrUnknownFeatureShard = model.ErrUnknownFeatureShard
)

// ErrFeatureLengthMismatch indicates records of one shard with different
// feature vector lengths.
type ErrFeatureLengthMismatch struct {
	ShardID  string
	Expected int
	Actual   int
	Key      model.Key
}

func (e *ErrFeatureLengthMismatch) Error() string {
	return fmt.Sprintf("feature shard %q: record %s has %d features, expected %d",
		e.ShardID, e.Key, e.Actual, e.Expected)
}
