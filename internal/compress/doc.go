// Package compress frames byte blocks with optional LZ4 or ZSTD compression
// and a CRC32C checksum.
//
// Frame layout (little endian):
//
//	[Type uint8][UncompressedSize uint32][StoredSize uint32][CRC32C uint32][payload...]
//
// StoredSize == 0 means the payload is stored uncompressed. The checksum
// covers the uncompressed bytes, so corruption is detected regardless of the
// algorithm used.
package compress
