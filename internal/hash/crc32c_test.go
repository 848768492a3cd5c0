package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC32C_KnownValue(t *testing.T) {
	// RFC 3720 test vector: 32 bytes of zeros.
	assert.Equal(t, uint32(0x8A9136AA), CRC32C(make([]byte, 32)))
}

func TestCRC32C_DetectsBitFlip(t *testing.T) {
	data := []byte("partition-0007 of dataset fixed-effect/global")
	sum := CRC32C(data)

	flipped := append([]byte(nil), data...)
	flipped[3] ^= 0x01
	assert.NotEqual(t, sum, CRC32C(flipped))
}
