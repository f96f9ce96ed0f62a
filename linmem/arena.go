package linmem

import (
	"math"

	"github.com/structkit/memlayout/align"
	"github.com/structkit/memlayout/errors"
)

// Arena is a bump allocator over a fixed region of a linear memory.
// Alloc hands out aligned addresses from the region front to back;
// individual allocations are not reclaimed until Reset.
type Arena struct {
	base   uint32
	limit  uint32
	offset uint32
}

// NewArena returns an arena allocating from [base, base+size). A
// region reaching past the 32-bit address space is clipped at its top.
func NewArena(base, size uint32) *Arena {
	limit := uint64(base) + uint64(size)
	if limit > math.MaxUint32 {
		limit = math.MaxUint32
	}
	return &Arena{base: base, limit: uint32(limit), offset: base}
}

// Alloc reserves size bytes at the next free multiple of alignment and
// returns the address. Alignment must be a power of two; zero is
// treated as one.
func (ar *Arena) Alloc(size, alignment uint32) (uint32, error) {
	if alignment == 0 {
		alignment = 1
	}
	start := align.Up(uint64(ar.offset), uint64(alignment))
	end := start + uint64(size)
	if end > uint64(ar.limit) {
		return 0, errors.AllocationFailed(errors.PhasePlace, size, alignment)
	}
	ar.offset = uint32(end)
	return uint32(start), nil
}

// Free is a no-op. Arena memory is reclaimed all at once by Reset.
func (ar *Arena) Free(ptr, size, alignment uint32) {}

// Reset returns the arena to its initial empty state.
func (ar *Arena) Reset() {
	ar.offset = ar.base
}

// Used returns the number of bytes consumed, alignment gaps included.
func (ar *Arena) Used() uint32 {
	return ar.offset - ar.base
}
