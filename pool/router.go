// File: pool/router.go
// Author: momentics <momentics@gmail.com>
//
// Size-class routing across several pools. This is caller-level strategy,
// not pool behavior: each Alloc against a member pool is atomic only with
// respect to that pool, and fallback decisions live entirely here.

package pool

import (
	"time"

	"github.com/momentics/primkit/api"
)

// Buffer is what a Router hands out: either a pool block or, when every
// fitting pool is exhausted and fallback is enabled, a heap slice.
type Buffer struct {
	handle Handle
	heap   []byte
	n      int
}

// Bytes returns the first n requested bytes of the buffer.
func (b Buffer) Bytes() []byte {
	if b.heap != nil {
		return b.heap[:b.n]
	}
	return b.handle.Bytes()[:b.n]
}

// Pooled reports whether the buffer came from a pool rather than the heap.
func (b Buffer) Pooled() bool { return b.heap == nil }

// Router picks the smallest pool whose block size accommodates a request,
// walks larger pools on exhaustion, and optionally falls back to the
// general allocator. Exhaustion is never retried against the same pool.
type Router struct {
	pools        []*Pool // ascending block size
	heapFallback bool
}

// NewRouter builds a router over pools sorted by ascending block size
// (Registry.BySize produces that order). heapFallback enables the
// general-allocator escape hatch when all fitting pools are exhausted.
func NewRouter(pools []*Pool, heapFallback bool) *Router {
	return &Router{pools: pools, heapFallback: heapFallback}
}

// Alloc services a request for n bytes.
func (r *Router) Alloc(n int, timeout time.Duration) (Buffer, error) {
	if n <= 0 {
		return Buffer{}, api.NewError(api.ErrCodeInvalidArgument, "router: size must be positive")
	}
	tried := false
	for _, p := range r.pools {
		if p.BlockSize() < n {
			continue
		}
		tried = true
		h, err := p.Alloc(timeout)
		if err == nil {
			return Buffer{handle: h, n: n}, nil
		}
		// Exhausted walks up to the next size class; anything else
		// (lock timeout, closed) aborts the walk.
		if !api.IsExhausted(err) {
			return Buffer{}, err
		}
	}
	if r.heapFallback {
		return Buffer{heap: make([]byte, n), n: n}, nil
	}
	if tried {
		return Buffer{}, api.NewError(api.ErrCodeExhausted, "router: all fitting pools exhausted").
			WithContext("size", n)
	}
	return Buffer{}, api.NewError(api.ErrCodeExhausted, "router: no pool fits request").
		WithContext("size", n)
}

// Free routes a buffer back to its owning pool. Heap fallbacks are simply
// released to the garbage collector.
func (r *Router) Free(b Buffer, timeout time.Duration) error {
	if b.heap != nil {
		return nil
	}
	if !b.handle.Valid() {
		return api.NewError(api.ErrCodeInvalidArgument, "router: zero buffer")
	}
	return b.handle.pool.Free(b.handle, timeout)
}
