package collection

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Key is the constraint for collection keys.
type Key interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64
}

// Partitioner maps keys to partitions. Two collections whose partitioners
// compare equal share a layout, and joins between them are partition-local.
// Implementations must be comparable.
type Partitioner interface {
	NumPartitions() int
	Partition(key uint64) int
}

// HashPartitioner assigns keys by xxhash of their big-endian encoding.
type HashPartitioner struct {
	N int
}

// NewHashPartitioner returns a partitioner with n partitions (at least one).
func NewHashPartitioner(n int) HashPartitioner {
	if n <= 0 {
		n = 1
	}
	return HashPartitioner{N: n}
}

func (p HashPartitioner) NumPartitions() int { return p.N }

func (p HashPartitioner) Partition(key uint64) int {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], key)
	return int(xxhash.Sum64(buf[:]) % uint64(p.N))
}

func partitionOf[K Key](p Partitioner, k K) int {
	return p.Partition(uint64(k))
}
