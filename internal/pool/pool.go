// Package pool implements a fixed-block free-list allocator for
// obtypes.Order records, avoiding a heap allocation per order on the
// matching engine's hot path.
package pool

import "github.com/aeromatch/internal/obtypes"

// DefaultBlockSize matches the original C++ ObjectPool's default.
const DefaultBlockSize = 4096

// Pool is a typed free-list allocator over pre-allocated blocks of
// obtypes.Order. Allocate and Deallocate are O(1). When the free list is
// exhausted, a new block is appended and its slots chained onto the free
// list — capacity grows monotonically and is never released until the
// pool itself is discarded. Not safe for concurrent use; the matching
// engine that owns a Pool is itself single-threaded (spec section 5).
type Pool struct {
	blockSize int
	blocks    [][]obtypes.Order
	free      []*obtypes.Order
	allocated int
}

// New creates a pool with the given block size. A blockSize <= 0 uses
// DefaultBlockSize.
func New(blockSize int) *Pool {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	p := &Pool{blockSize: blockSize}
	p.growBlock()
	return p
}

// Allocate returns a zeroed *obtypes.Order slot. Never returns nil.
func (p *Pool) Allocate() *obtypes.Order {
	if len(p.free) == 0 {
		p.growBlock()
	}
	last := len(p.free) - 1
	o := p.free[last]
	p.free[last] = nil
	p.free = p.free[:last]
	*o = obtypes.Order{}
	p.allocated++
	return o
}

// Deallocate returns a slot to the free list. Deallocating an order not
// obtained from this pool, or deallocating twice, is a programmer error
// and is not detected.
func (p *Pool) Deallocate(o *obtypes.Order) {
	p.free = append(p.free, o)
	p.allocated--
}

// AllocatedCount returns the number of slots currently checked out.
func (p *Pool) AllocatedCount() int {
	return p.allocated
}

// Capacity returns the total number of slots across all blocks.
func (p *Pool) Capacity() int {
	return len(p.blocks) * p.blockSize
}

func (p *Pool) growBlock() {
	block := make([]obtypes.Order, p.blockSize)
	p.blocks = append(p.blocks, block)
	if cap(p.free) < len(p.free)+p.blockSize {
		grown := make([]*obtypes.Order, len(p.free), len(p.free)+p.blockSize)
		copy(grown, p.free)
		p.free = grown
	}
	for i := range block {
		p.free = append(p.free, &block[i])
	}
}
