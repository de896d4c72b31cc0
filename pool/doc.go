// Package pool
// Author: momentics <momentics@gmail.com>
//
// Fixed-block memory pools for the primkit library.
// Each Pool owns a contiguous arena carved into equal-size blocks linked
// through an index-based free list, giving O(1) allocation and deallocation
// without touching the general-purpose allocator on the hot path. Block
// state tags catch double-free and use-after-free at deallocation time.
// Router layers size-class routing with general-allocator fallback across
// several pools; Registry replaces file-scope pool arrays with an explicit
// named collection.
// See pool.go, router.go, registry.go for implementation details.
package pool
