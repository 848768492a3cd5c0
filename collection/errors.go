package collection

import (
	"errors"
	"strconv"
)

var (
	// ErrCorruptPartition is returned when a spilled partition fails its checksum
	// or cannot be decoded.
	ErrCorruptPartition = errors.New("collection: corrupt spilled partition")

	// ErrNoSpillStore is returned when a partition must be spilled but the
	// engine has no spill store.
	ErrNoSpillStore = errors.New("collection: no spill store configured")

	// ErrUnknownStorageLevel is returned by ParseStorageLevel.
	ErrUnknownStorageLevel = errors.New("collection: unknown storage level")
)

// PartitionError reports a failure evaluating one partition.
type PartitionError struct {
	Label     string
	Partition int
	Err       error
}

func (e *PartitionError) Error() string {
	return "collection " + e.Label + ": partition " + strconv.Itoa(e.Partition) + ": " + e.Err.Error()
}

func (e *PartitionError) Unwrap() error {
	return e.Err
}
