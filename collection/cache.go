package collection

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/gamedata/blobstore"
	"github.com/hupe1980/gamedata/codec"
	"github.com/hupe1980/gamedata/internal/compress"
)

// StorageLevel selects how a cached collection keeps its partitions.
type StorageLevel uint8

const (
	StorageNone StorageLevel = iota
	MemoryOnly
	MemoryAndDisk
	DiskOnly
)

func (l StorageLevel) String() string {
	switch l {
	case StorageNone:
		return "NONE"
	case MemoryOnly:
		return "MEMORY_ONLY"
	case MemoryAndDisk:
		return "MEMORY_AND_DISK"
	case DiskOnly:
		return "DISK_ONLY"
	default:
		return fmt.Sprintf("StorageLevel(%d)", uint8(l))
	}
}

// ParseStorageLevel parses the names returned by StorageLevel.String.
func ParseStorageLevel(s string) (StorageLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NONE", "":
		return StorageNone, nil
	case "MEMORY_ONLY":
		return MemoryOnly, nil
	case "MEMORY_AND_DISK":
		return MemoryAndDisk, nil
	case "DISK_ONLY":
		return DiskOnly, nil
	default:
		return StorageNone, fmt.Errorf("%w: %q", ErrUnknownStorageLevel, s)
	}
}

// Sizer is implemented by values that can report their approximate heap size.
// It is used to charge cached partitions against the memory budget.
type Sizer interface {
	SizeBytes() int64
}

func estimateSize[K Key, V any](data []Pair[K, V]) int64 {
	size := int64(unsafe.Sizeof(Pair[K, V]{})) * int64(len(data))
	for i := range data {
		if s, ok := any(data[i].Value).(Sizer); ok {
			size += s.SizeBytes()
		}
	}
	return size
}

// cacheState is shared by every handle of a collection node.
// gen increases on every Uncache so in-flight stores of a released
// cache are discarded.
type cacheState[K Key, V any] struct {
	mu       sync.Mutex
	level    StorageLevel
	gen      uint64
	mem      [][]Pair[K, V]
	memBytes []int64
	resident *roaring.Bitmap
	spilled  *roaring.Bitmap
	prefix   string

	partLocks []sync.Mutex
}

func newCacheState[K Key, V any](n int) *cacheState[K, V] {
	return &cacheState[K, V]{
		mem:       make([][]Pair[K, V], n),
		memBytes:  make([]int64, n),
		resident:  roaring.New(),
		spilled:   roaring.New(),
		partLocks: make([]sync.Mutex, n),
	}
}

func (s *cacheState[K, V]) Level() StorageLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

func (s *cacheState[K, V]) lockPartition(p int) func() {
	s.partLocks[p].Lock()
	return s.partLocks[p].Unlock
}

func (s *cacheState[K, V]) lookup(p int) (gen uint64, level StorageLevel, data []Pair[K, V], ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resident.Contains(uint32(p)) {
		return s.gen, s.level, s.mem[p], true
	}
	return s.gen, s.level, nil, false
}

func (s *cacheState[K, V]) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *cacheState[K, V]) isSpilled(p int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spilled.Contains(uint32(p))
}

func (s *cacheState[K, V]) putMemory(gen uint64, p int, data []Pair[K, V], size int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen || s.level == StorageNone {
		return false
	}
	s.mem[p] = data
	s.memBytes[p] = size
	s.resident.Add(uint32(p))
	return true
}

func (s *cacheState[K, V]) markSpilled(gen uint64, p int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen || s.level == StorageNone {
		return false
	}
	s.spilled.Add(uint32(p))
	return true
}

func (s *cacheState[K, V]) residentSet() *roaring.Bitmap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resident.Clone()
}

func (s *cacheState[K, V]) spilledSet() *roaring.Bitmap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spilled.Clone()
}

// Cache requests that partitions be stored at level when first evaluated.
// It is a no-op if c is already cached or level is StorageNone.
func (c *Collection[K, V]) Cache(level StorageLevel) *Collection[K, V] {
	st := c.cache
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.level != StorageNone || level == StorageNone {
		return c
	}
	st.level = level
	c.engine.logger.Debug("collection cached", "collection", c.displayName(), "level", level.String())
	return c
}

// Uncache releases all cached partitions: memory reservations are returned
// and spilled blobs deleted. It is a no-op if c is not cached.
func (c *Collection[K, V]) Uncache(ctx context.Context) error {
	st := c.cache
	st.mu.Lock()
	if st.level == StorageNone {
		st.mu.Unlock()
		return nil
	}

	var bytes int64
	for i := range st.mem {
		bytes += st.memBytes[i]
		st.mem[i] = nil
		st.memBytes[i] = 0
	}
	resident := st.resident.GetCardinality()
	spilled := st.spilled.ToArray()
	prefix := st.prefix

	st.level = StorageNone
	st.gen++
	st.resident.Clear()
	st.spilled.Clear()
	st.prefix = ""
	st.mu.Unlock()

	c.engine.rc.ReleaseMemory(bytes)

	var errs []error
	if len(spilled) > 0 && c.engine.spill != nil {
		for _, p := range spilled {
			if err := c.engine.spill.Delete(ctx, spillName(prefix, int(p))); err != nil {
				errs = append(errs, err)
			}
		}
	}

	c.engine.metrics.OnCacheRelease(int(resident)+len(spilled), bytes)
	c.engine.logger.Debug("collection uncached",
		"collection", c.displayName(),
		"resident", resident,
		"spilled", len(spilled),
		"bytes", bytes,
	)
	return errors.Join(errs...)
}

func (c *Collection[K, V]) store(ctx context.Context, gen uint64, level StorageLevel, p int, data []Pair[K, V]) error {
	if level == MemoryOnly || level == MemoryAndDisk {
		size := estimateSize(data)
		if c.engine.rc.TryAcquireMemory(size) {
			if c.cache.putMemory(gen, p, data, size) {
				c.engine.metrics.OnCacheStore(TierMemory, size)
			} else {
				c.engine.rc.ReleaseMemory(size)
			}
			return nil
		}
		if level == MemoryOnly {
			c.engine.logger.Debug("partition exceeds memory budget, not cached",
				"collection", c.displayName(), "partition", p, "bytes", size)
			return nil
		}
	}
	return c.writeSpill(ctx, gen, p, data)
}

// spillPrefix returns the blob prefix of c, fixing it on first use.
func (c *Collection[K, V]) spillPrefix() string {
	st := c.cache
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.prefix == "" {
		if l := c.Label(); l != "" {
			st.prefix = fmt.Sprintf("%s-%d", sanitize(l), c.id)
		} else {
			st.prefix = fmt.Sprintf("c%d", c.id)
		}
	}
	return st.prefix
}

func spillName(prefix string, p int) string {
	return fmt.Sprintf("%s/part-%05d.blk", prefix, p)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}

// Spill blobs are [name length][codec name][compress frame].
func (c *Collection[K, V]) writeSpill(ctx context.Context, gen uint64, p int, data []Pair[K, V]) error {
	e := c.engine
	if e.spill == nil {
		return &PartitionError{Label: c.displayName(), Partition: p, Err: ErrNoSpillStore}
	}

	payload, err := e.codec.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode partition %d: %w", p, err)
	}
	frame, err := compress.Encode(payload, e.compression)
	if err != nil {
		return err
	}

	name := e.codec.Name()
	blob := make([]byte, 0, 1+len(name)+len(frame))
	blob = append(blob, byte(len(name)))
	blob = append(blob, name...)
	blob = append(blob, frame...)

	if err := e.rc.AcquireIO(ctx, len(blob)); err != nil {
		return err
	}

	key := spillName(c.spillPrefix(), p)
	start := time.Now()
	err = e.spill.Put(ctx, key, blob)
	e.metrics.OnSpillIO("write", int64(len(blob)), time.Since(start), err)
	if err != nil {
		return fmt.Errorf("spill partition %d: %w", p, err)
	}

	if !c.cache.markSpilled(gen, p) {
		// Uncached while writing.
		_ = e.spill.Delete(ctx, key)
		return nil
	}
	e.metrics.OnCacheStore(TierDisk, int64(len(blob)))
	return nil
}

func (c *Collection[K, V]) readSpill(ctx context.Context, p int) ([]Pair[K, V], error) {
	e := c.engine
	if e.spill == nil {
		return nil, &PartitionError{Label: c.displayName(), Partition: p, Err: ErrNoSpillStore}
	}

	key := spillName(c.spillPrefix(), p)
	start := time.Now()

	var (
		out  []Pair[K, V]
		size int
	)
	err := blobstore.View(ctx, e.spill, key, func(blob []byte) error {
		size = len(blob)
		if err := e.rc.AcquireIO(ctx, size); err != nil {
			return err
		}
		if len(blob) < 1 || len(blob) < 1+int(blob[0]) {
			return fmt.Errorf("%w: %s: truncated header", ErrCorruptPartition, key)
		}
		n := int(blob[0])
		name := string(blob[1 : 1+n])
		cd := e.codec
		if name != cd.Name() {
			var err error
			if cd, err = codec.Lookup(name); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrCorruptPartition, key, err)
			}
		}
		payload, err := compress.Decode(blob[1+n:])
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrCorruptPartition, key, err)
		}
		if err := cd.Unmarshal(payload, &out); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrCorruptPartition, key, err)
		}
		return nil
	})
	e.metrics.OnSpillIO("read", int64(size), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return out, nil
}
