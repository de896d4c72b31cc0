// File: pool/pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fixed-block pool over a single arena. The free list is intrusive in
// spirit but index-linked: block metadata lives in a parallel slice and
// "next free" is an arena index, so no pointer arithmetic can dangle.

package pool

import (
	"time"

	"github.com/momentics/primkit/api"
	"github.com/momentics/primkit/internal/concurrency"
)

// MemoryClass labels the backing-memory preference a pool was created
// with. In-process it selects nothing beyond the label itself; it is
// carried so routing and monitoring can distinguish pool tiers.
type MemoryClass string

const (
	ClassInternal MemoryClass = "internal"
	ClassExternal MemoryClass = "external"
	ClassDMA      MemoryClass = "dma"
)

// BlockState tags each block's lifecycle position. An explicit enum
// replaces sentinel magic integers; every transition validates it.
type BlockState uint8

const (
	BlockFree BlockState = iota
	BlockAllocated
)

const (
	blockAlign = 8
	noBlock    = int32(-1)

	// maxArenaBytes bounds a single pool's up-front reservation.
	maxArenaBytes = 1 << 30
)

// blockMeta is the per-block header held outside the payload arena.
type blockMeta struct {
	state   BlockState
	next    int32 // free-list link, arena index
	allocAt int64 // unix nanos of last allocation
}

// Config describes one pool. All fields are fixed for the pool's lifetime.
type Config struct {
	Name       string
	BlockSize  int
	BlockCount int
	Class      MemoryClass
}

// Pool manages BlockCount equal-size blocks carved from one arena.
// A single timed mutex guards the free list and counters; it is held only
// for list and counter mutation, never while callers use a payload.
type Pool struct {
	name        string
	blockSize   int
	alignedSize int
	blockCount  int
	class       MemoryClass

	mu    *concurrency.TimedMutex
	arena []byte
	meta  []blockMeta

	freeHead    int32
	allocated   int
	peak        int
	totalAllocs uint64
	totalFrees  uint64
	failures    uint64
	corruptions uint64
	closed      bool
}

// New reserves the pool's full arena up front and threads every block onto
// the free list. The reservation never grows or shrinks afterwards.
func New(cfg Config) (*Pool, error) {
	if cfg.BlockSize <= 0 || cfg.BlockCount <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "pool: block size and count must be positive").
			WithContext("name", cfg.Name)
	}
	aligned := (cfg.BlockSize + blockAlign - 1) &^ (blockAlign - 1)
	total := uint64(aligned) * uint64(cfg.BlockCount)
	if total > maxArenaBytes {
		return nil, api.NewError(api.ErrCodeAllocationFailed, "pool: arena reservation too large").
			WithContext("name", cfg.Name).
			WithContext("bytes", total)
	}
	if cfg.Class == "" {
		cfg.Class = ClassInternal
	}

	p := &Pool{
		name:        cfg.Name,
		blockSize:   cfg.BlockSize,
		alignedSize: aligned,
		blockCount:  cfg.BlockCount,
		class:       cfg.Class,
		mu:          concurrency.NewTimedMutex(),
		arena:       make([]byte, int(total)),
		meta:        make([]blockMeta, cfg.BlockCount),
		freeHead:    noBlock,
	}
	for i := cfg.BlockCount - 1; i >= 0; i-- {
		p.meta[i].state = BlockFree
		p.meta[i].next = p.freeHead
		p.freeHead = int32(i)
	}
	return p, nil
}

// Name returns the pool's configured name.
func (p *Pool) Name() string { return p.name }

// BlockSize returns the usable payload size of each block.
func (p *Pool) BlockSize() int { return p.blockSize }

// Class returns the backing-memory class label.
func (p *Pool) Class() MemoryClass { return p.class }

// Handle identifies one allocated block. The zero Handle is invalid.
type Handle struct {
	pool  *Pool
	index int32
}

// Bytes returns the block's payload. Valid only between the Alloc that
// produced the handle and the matching Free.
func (h Handle) Bytes() []byte {
	p := h.pool
	off := int(h.index) * p.alignedSize
	return p.arena[off : off+p.blockSize : off+p.alignedSize]
}

// Valid reports whether the handle refers to some pool's block.
func (h Handle) Valid() bool { return h.pool != nil }

// Alloc pops the free-list head. The timeout bounds only the internal lock
// acquisition; an empty free list fails immediately with ErrExhausted,
// which is an expected, recoverable condition under load.
func (p *Pool) Alloc(timeout time.Duration) (Handle, error) {
	if !p.mu.Lock(timeout) {
		return Handle{}, api.NewError(api.ErrCodeLockTimeout, "pool: lock not acquired").
			WithContext("pool", p.name)
	}
	defer p.mu.Unlock()

	if p.closed {
		return Handle{}, api.NewError(api.ErrCodeClosed, "pool: closed").WithContext("pool", p.name)
	}
	if p.freeHead == noBlock {
		p.failures++
		return Handle{}, api.NewError(api.ErrCodeExhausted, "pool: no free blocks").
			WithContext("pool", p.name).
			WithContext("capacity", p.blockCount)
	}

	idx := p.freeHead
	m := &p.meta[idx]
	p.freeHead = m.next
	m.state = BlockAllocated
	m.next = noBlock
	m.allocAt = time.Now().UnixNano()

	p.allocated++
	if p.allocated > p.peak {
		p.peak = p.allocated
	}
	p.totalAllocs++
	return Handle{pool: p, index: idx}, nil
}

// Free returns a block to the free list. A handle from another pool, a
// double free, or an out-of-range index yields ErrCorruptionDetected and
// the free list is left untouched so the damage cannot compound.
func (p *Pool) Free(h Handle, timeout time.Duration) error {
	if !p.mu.Lock(timeout) {
		return api.NewError(api.ErrCodeLockTimeout, "pool: lock not acquired").
			WithContext("pool", p.name)
	}
	defer p.mu.Unlock()

	if h.pool != p {
		p.corruptions++
		return api.NewError(api.ErrCodeCorruption, "pool: handle owned by different pool").
			WithContext("pool", p.name)
	}
	if h.index < 0 || int(h.index) >= p.blockCount {
		p.corruptions++
		return api.NewError(api.ErrCodeCorruption, "pool: handle index out of range").
			WithContext("pool", p.name).
			WithContext("index", h.index)
	}
	m := &p.meta[h.index]
	if m.state != BlockAllocated {
		p.corruptions++
		return api.NewError(api.ErrCodeCorruption, "pool: block not in allocated state").
			WithContext("pool", p.name).
			WithContext("index", h.index)
	}

	m.state = BlockFree
	m.allocAt = 0
	m.next = p.freeHead
	p.freeHead = h.index
	p.allocated--
	p.totalFrees++
	return nil
}

// Stats takes a momentarily-locked snapshot of the pool counters.
func (p *Pool) Stats() api.PoolStats {
	p.mu.Lock(api.Forever)
	defer p.mu.Unlock()
	return api.PoolStats{
		Name:        p.name,
		BlockSize:   p.blockSize,
		Capacity:    p.blockCount,
		Allocated:   p.allocated,
		PeakUsage:   p.peak,
		TotalAllocs: p.totalAllocs,
		TotalFrees:  p.totalFrees,
		Failures:    p.failures,
		Corruptions: p.corruptions,
	}
}

// FreeListLen walks the free list and returns its measured length. Unlike
// PoolStats.Free, which is derived from the allocation counter, the walk
// exercises the links themselves: a healthy pool always satisfies
// FreeListLen() == Capacity - Allocated, and a lost or duplicated link
// breaks that equality.
func (p *Pool) FreeListLen() int {
	p.mu.Lock(api.Forever)
	defer p.mu.Unlock()
	n := 0
	for idx := p.freeHead; idx != noBlock; idx = p.meta[idx].next {
		n++
		if n > p.blockCount {
			break // cycle in the links; the returned over-count exposes it
		}
	}
	return n
}

// StaleBlocks counts allocated blocks older than maxAge. A monitoring task
// polling this with a generous age catches leaked handles.
func (p *Pool) StaleBlocks(maxAge time.Duration) int {
	p.mu.Lock(api.Forever)
	defer p.mu.Unlock()
	cutoff := time.Now().Add(-maxAge).UnixNano()
	n := 0
	for i := range p.meta {
		if p.meta[i].state == BlockAllocated && p.meta[i].allocAt < cutoff {
			n++
		}
	}
	return n
}

// Close releases the arena. It fails with ErrPoolBusy while any block is
// outstanding; after a successful Close every operation reports ErrClosed.
func (p *Pool) Close() error {
	p.mu.Lock(api.Forever)
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	if p.allocated != 0 {
		return api.NewError(api.ErrCodeBusy, "pool: blocks still allocated").
			WithContext("pool", p.name).
			WithContext("allocated", p.allocated)
	}
	p.closed = true
	p.arena = nil
	p.freeHead = noBlock
	return nil
}

// StatsName implements api.StatsSource.
func (p *Pool) StatsName() string { return "pool." + p.name }

// StatsSnapshot implements api.StatsSource.
func (p *Pool) StatsSnapshot() any { return p.Stats() }

var _ api.StatsSource = (*Pool)(nil)
