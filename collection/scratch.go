package collection

import (
	"context"
	"sync"

	"github.com/hupe1980/gamedata/resource"
)

// scratch holds intermediate results shared by the partitions of one
// terminal operation. Its memory is charged to the resource controller and
// released when the operation returns.
type scratch struct {
	rc *resource.Controller

	mu      sync.Mutex
	entries map[any]any
	bytes   int64
}

type scratchKey struct{}

// withScratch attaches a scratch to ctx. Nested terminal operations reuse
// the outer scratch; only the outermost release frees it.
func withScratch(ctx context.Context, rc *resource.Controller) (context.Context, func()) {
	if _, ok := ctx.Value(scratchKey{}).(*scratch); ok {
		return ctx, func() {}
	}
	sc := &scratch{rc: rc, entries: make(map[any]any)}
	return context.WithValue(ctx, scratchKey{}, sc), sc.release
}

func scratchFrom(ctx context.Context) *scratch {
	sc, _ := ctx.Value(scratchKey{}).(*scratch)
	return sc
}

// entry returns the value stored under key, creating it with fn on first use.
func (s *scratch) entry(key any, fn func() any) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	if !ok {
		v = fn()
		s.entries[key] = v
	}
	return v
}

// reserve charges bytes to the memory budget. It reports false if the
// budget cannot hold them.
func (s *scratch) reserve(bytes int64) bool {
	if !s.rc.TryAcquireMemory(bytes) {
		return false
	}
	s.mu.Lock()
	s.bytes += bytes
	s.mu.Unlock()
	return true
}

func (s *scratch) release() {
	s.mu.Lock()
	bytes := s.bytes
	s.bytes = 0
	s.entries = nil
	s.mu.Unlock()
	s.rc.ReleaseMemory(bytes)
}
