package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations return an error that satisfies errors.Is(err, ErrNotFound).
var ErrNotFound = os.ErrNotExist

// BlobStore is an abstraction for storing immutable data blobs.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Create creates a blob for streaming writes. The blob becomes visible on Close.
	Create(ctx context.Context, name string) (WritableBlob, error)
	// Put writes a blob atomically.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the sorted names of all blobs with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	io.Closer
	// ReadAt reads len(p) bytes at offset off.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	// ReadRange returns a reader over length bytes starting at off.
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)
	// Size returns the size of the blob in bytes.
	Size() int64
}

// WritableBlob is a blob being written.
type WritableBlob interface {
	io.WriteCloser
	// Sync flushes buffered data to durable storage where supported.
	Sync() error
}

// Aborter is implemented by WritableBlobs that can discard a pending write.
// After Abort the blob is never published and Close is a no-op.
type Aborter interface {
	Abort() error
}

// Abort discards a blob being written to store under name. Blobs that do not
// implement Aborter are closed and deleted.
func Abort(ctx context.Context, store BlobStore, name string, w WritableBlob) error {
	if a, ok := w.(Aborter); ok {
		return a.Abort()
	}
	_ = w.Close()
	return store.Delete(ctx, name)
}

// Mappable is an optional interface for Blobs that expose their bytes directly.
type Mappable interface {
	// Bytes returns the underlying byte slice.
	// The slice is valid until the Blob is closed.
	Bytes() ([]byte, error)
}

// View opens a blob and calls fn with its full contents.
//
// Mappable blobs are passed without copying, so fn must not retain data after
// it returns.
func View(ctx context.Context, store BlobStore, name string, fn func(data []byte) error) (err error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := blob.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if m, ok := blob.(Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return err
		}
		return fn(data)
	}

	if blob.Size() == 0 {
		return fn(nil)
	}

	r, err := blob.ReadRange(ctx, 0, blob.Size())
	if err != nil {
		return err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if int64(len(data)) != blob.Size() {
		return fmt.Errorf("blobstore: short read of %s: %d of %d bytes", name, len(data), blob.Size())
	}
	return fn(data)
}

// ReadAll returns a copy of the full contents of a blob.
func ReadAll(ctx context.Context, store BlobStore, name string) ([]byte, error) {
	var out []byte
	err := View(ctx, store, name, func(data []byte) error {
		out = make([]byte, len(data))
		copy(out, data)
		return nil
	})
	return out, err
}

// DeletePrefix removes every blob whose name starts with prefix.
// It attempts all deletions and returns the joined errors.
func DeletePrefix(ctx context.Context, store BlobStore, prefix string) error {
	names, err := store.List(ctx, prefix)
	if err != nil {
		return err
	}
	var errs []error
	for _, name := range names {
		if err := store.Delete(ctx, name); err != nil && !errors.Is(err, ErrNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
