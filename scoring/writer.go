package scoring

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/hupe1980/gamedata/blobstore"
	"github.com/hupe1980/gamedata/resource"
	"github.com/klauspost/compress/zstd"
)

// Extension is the suffix of scoring output blobs.
const Extension = ".ndjson.zst"

// Writer streams results into one blob. It is not safe for concurrent use.
type Writer struct {
	ctx    context.Context
	store  blobstore.BlobStore
	name   string
	blob   blobstore.WritableBlob
	zw     *zstd.Encoder
	enc    *json.Encoder
	count  int64
	closed bool
}

// NewWriter creates name in store. Writes are charged to rc's IO limit; rc may be nil.
func NewWriter(ctx context.Context, store blobstore.BlobStore, name string, rc *resource.Controller) (*Writer, error) {
	blob, err := store.Create(ctx, name)
	if err != nil {
		return nil, err
	}

	zw, err := zstd.NewWriter(resource.NewRateLimitedWriter(ctx, blob, rc))
	if err != nil {
		_ = blobstore.Abort(ctx, store, name, blob)
		return nil, err
	}

	return &Writer{
		ctx:   ctx,
		store: store,
		name:  name,
		blob:  blob,
		zw:    zw,
		enc:   json.NewEncoder(zw),
	}, nil
}

// Write appends one result.
func (w *Writer) Write(r Result) error {
	if w.closed {
		return io.ErrClosedPipe
	}
	if err := r.Validate(); err != nil {
		return err
	}
	if err := w.enc.Encode(r); err != nil {
		return fmt.Errorf("scoring: encode: %w", err)
	}
	w.count++
	return nil
}

// Count returns the number of results written.
func (w *Writer) Count() int64 {
	return w.count
}

// Close flushes the stream and publishes the blob.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return errors.Join(w.zw.Close(), w.blob.Close())
}

// Abort discards everything written; the blob is not published. It is a
// no-op after Close.
func (w *Writer) Abort() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.zw.Reset(io.Discard)
	_ = w.zw.Close()
	return blobstore.Abort(w.ctx, w.store, w.name, w.blob)
}

// ReadAll reads every result from name. Reads are charged to rc's IO limit; rc may be nil.
func ReadAll(ctx context.Context, store blobstore.BlobStore, name string, rc *resource.Controller) ([]Result, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = blob.Close() }()

	r, err := blob.ReadRange(ctx, 0, blob.Size())
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	zr, err := zstd.NewReader(resource.NewRateLimitedReader(ctx, r, rc))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var out []Result
	dec := json.NewDecoder(zr)
	for {
		var w wireResult
		if err := dec.Decode(&w); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, fmt.Errorf("scoring: %s: record %d: %w", name, len(out), err)
		}
		r, err := w.result()
		if err != nil {
			return nil, fmt.Errorf("scoring: %s: record %d: %w", name, len(out), err)
		}
		out = append(out, r)
	}
}

// ReadPrefix reads every scoring blob under prefix in name order.
func ReadPrefix(ctx context.Context, store blobstore.BlobStore, prefix string, rc *resource.Controller) ([]Result, error) {
	names, err := store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	var out []Result
	for _, name := range names {
		if !strings.HasSuffix(name, Extension) {
			continue
		}
		rs, err := ReadAll(ctx, store, name, rc)
		if err != nil {
			return nil, err
		}
		out = append(out, rs...)
	}
	return out, nil
}
