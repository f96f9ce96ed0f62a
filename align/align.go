package align

import (
	"reflect"
	"unsafe"
)

// Integer constrains the offset arithmetic helpers.
type Integer interface {
	~uint32 | ~uint64 | ~uintptr | ~int
}

// IsAligned reports whether addr is a multiple of align.
// align must be a power of two; see the package documentation.
func IsAligned(addr, align uintptr) bool {
	return addr&(align-1) == 0
}

// IsAlignedPtr reports whether p is a multiple of align.
func IsAlignedPtr(p unsafe.Pointer, align uintptr) bool {
	return IsAligned(uintptr(p), align)
}

// Aligned reports whether p satisfies the alignment requirement of T.
// A nil pointer is aligned to everything.
func Aligned[T any](p *T) bool {
	return IsAlignedPtr(unsafe.Pointer(p), Of[T]())
}

// Of returns the alignment requirement of T in bytes.
func Of[T any]() uintptr {
	return uintptr(reflect.TypeFor[T]().Align())
}

// SizeOf returns the size of T in bytes.
func SizeOf[T any]() uintptr {
	return reflect.TypeFor[T]().Size()
}

// Up returns the smallest multiple of align that is >= v.
func Up[N Integer](v, align N) N {
	if align == 0 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}

// Down returns the largest multiple of align that is <= v.
func Down[N Integer](v, align N) N {
	if align == 0 {
		return v
	}
	return v &^ (align - 1)
}

// Padding returns the number of bytes needed to advance v to the next
// multiple of align. Zero when v is already aligned.
func Padding[N Integer](v, align N) N {
	return Up(v, align) - v
}

// IsPow2 reports whether v is a power of two.
func IsPow2[N Integer](v N) bool {
	return v > 0 && v&(v-1) == 0
}
