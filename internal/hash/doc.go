// Package hash provides the checksum used to protect spilled partitions and
// uploaded blobs.
//
// All checksums use CRC32-Castagnoli (CRC32C), which Go's crc32 package
// accelerates with SSE4.2 on x86-64 and the CRC extension on ARM64. S3 also
// accepts CRC32C as an upload integrity checksum, so the same value can be
// computed once and sent with the object.
//
//	checksum := hash.CRC32C(data)
package hash
