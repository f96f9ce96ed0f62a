// Package align provides alignment arithmetic for addresses and offsets.
//
// All helpers treat alignment as a power of two. Passing a non-power-of-two
// alignment is a caller error: the mask arithmetic assumes the invariant and
// does not check it. Zero alignment is accepted by Up, Down and Padding and
// leaves the value unchanged.
//
// The pointer helpers answer the question "may this address hold a T":
//
//	var v int64
//	align.Aligned(&v)                  // true, &v is a multiple of 8
//	align.IsAligned(addr, align.Of[int64]())
//
// Addresses handed out by the Go allocator always satisfy the pointee's
// alignment requirement, and every element of an array is aligned because a
// type's size is a multiple of its alignment.
package align
