// Package linmem places Go values into 32-bit linear memories using C
// layout rules.
//
// # Main Types
//
//   - SliceMemory: bounds-checked little-endian memory backed by a byte slice
//   - Arena: bump allocator handing out aligned addresses from a fixed region
//   - Placer: copies struct values in and out of a memory at computed offsets
//   - WazeroMemory: adapter over a live wazero module memory
//
// # Supported Shapes
//
// Placer handles structs built from fixed-width scalars (bool, sized
// integers, floats), arrays of those, and nested structs. Host-width
// types such as int, uintptr, pointers, strings and slices are
// rejected, since their layout depends on the host rather than on the
// placement target.
//
// # Thread Safety
//
// None of the types in this package are safe for concurrent use.
//
// # Example
//
//	mem := linmem.NewSliceMemory(64 * 1024)
//	placer := linmem.NewPlacer(mem, linmem.NewArena(1024, 32*1024))
//	ptr, _ := placer.Place(Vec3{X: 1, Y: 2, Z: 3})
//	var out Vec3
//	_ = placer.Read(ptr, &out)
package linmem
