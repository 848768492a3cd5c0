package collection

import (
	"log/slog"
	"runtime"
	"sync/atomic"

	"github.com/hupe1980/gamedata/blobstore"
	"github.com/hupe1980/gamedata/codec"
	"github.com/hupe1980/gamedata/internal/compress"
	"github.com/hupe1980/gamedata/resource"
)

// Engine evaluates collections. It owns the worker budget, the memory budget
// for cached partitions and the spill store. An Engine is safe for concurrent
// use and may be shared by any number of collections.
type Engine struct {
	logger      *slog.Logger
	rc          *resource.Controller
	spill       blobstore.BlobStore
	codec       codec.Codec
	compression compress.Type
	metrics     MetricsObserver

	parallelism   int
	numPartitions int
	memoryLimit   int64

	nextID atomic.Uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for the engine.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithResourceController sets the resource controller for the engine.
// It takes precedence over WithMemoryLimit.
func WithResourceController(rc *resource.Controller) Option {
	return func(e *Engine) {
		e.rc = rc
	}
}

// WithMemoryLimit caps the memory reserved by cached partitions.
// Ignored when a resource controller is supplied.
func WithMemoryLimit(bytes int64) Option {
	return func(e *Engine) {
		e.memoryLimit = bytes
	}
}

// WithSpillStore sets the store for MemoryAndDisk and DiskOnly partitions.
func WithSpillStore(st blobstore.BlobStore) Option {
	return func(e *Engine) {
		e.spill = st
	}
}

// WithCodec sets the codec for spilled partitions.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(e *Engine) {
		if c == nil {
			c = codec.Default
		}
		e.codec = c
	}
}

// WithCompression sets the compression for spilled partitions.
func WithCompression(t compress.Type) Option {
	return func(e *Engine) {
		e.compression = t
	}
}

// WithParallelism sets how many partitions are evaluated concurrently.
// Values <= 0 mean runtime.GOMAXPROCS(0).
func WithParallelism(n int) Option {
	return func(e *Engine) {
		e.parallelism = n
	}
}

// WithNumPartitions sets the partition count used by sources.
// Values <= 0 mean the parallelism.
func WithNumPartitions(n int) Option {
	return func(e *Engine) {
		e.numPartitions = n
	}
}

// WithMetricsObserver sets the metrics observer for the engine.
func WithMetricsObserver(observer MetricsObserver) Option {
	return func(e *Engine) {
		if observer != nil {
			e.metrics = observer
		}
	}
}

// NewEngine creates an engine.
//
// Defaults: GOMAXPROCS workers, one source partition per worker, no memory
// limit, codec.Default, zstd compression and no spill store.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger:      slog.New(slog.DiscardHandler),
		codec:       codec.Default,
		compression: compress.ZSTD,
		metrics:     &NoopMetricsObserver{},
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.parallelism <= 0 {
		e.parallelism = runtime.GOMAXPROCS(0)
	}
	if e.numPartitions <= 0 {
		e.numPartitions = e.parallelism
	}
	if e.rc == nil {
		e.rc = resource.NewController(resource.Config{
			MemoryLimitBytes: e.memoryLimit,
			MaxWorkers:       int64(e.parallelism),
		})
	}

	return e
}

// Parallelism returns the number of concurrently evaluated partitions.
func (e *Engine) Parallelism() int { return e.parallelism }

// NumPartitions returns the partition count used by sources.
func (e *Engine) NumPartitions() int { return e.numPartitions }

// ResourceController returns the engine's resource controller.
func (e *Engine) ResourceController() *resource.Controller { return e.rc }

// SpillStore returns the spill store, or nil.
func (e *Engine) SpillStore() blobstore.BlobStore { return e.spill }

// Logger returns the engine logger.
func (e *Engine) Logger() *slog.Logger { return e.logger }

func (e *Engine) newID() uint64 {
	return e.nextID.Add(1)
}
