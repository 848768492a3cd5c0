// Package mmap provides read-only memory-mapped file access.
//
// The local blob store maps spilled partition files instead of reading them
// into the heap; a partition is decoded straight from the mapping and the
// mapping is released right after.
//
//	m, err := mmap.Open("part-00003.blk")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// On Unix the package uses mmap(2) and madvise(2); on Windows it uses
// CreateFileMapping/MapViewOfFile and access hints are ignored.
package mmap
