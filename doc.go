// Package memlayout provides tools for understanding and improving the
// memory layout of structured data.
//
// The toolkit answers three questions: where does the compiler put each
// field and what does the padding cost, how much smaller would the
// struct be with fields ordered by descending alignment, and where does
// a value land when placed into a linear memory region.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	memlayout/           Root package with core Memory and Allocator interfaces
//	├── align/           Alignment arithmetic: IsAligned, Up, Down, Padding
//	├── layout/          Target-aware layout engine and field reordering
//	├── inspect/         Reflect frontend for live Go types
//	├── witconv/         WIT record frontend onto the layout model
//	├── source/          Go source analyzer with SARIF output and fixes
//	├── linmem/          Linear-memory placement: slice memory, arena, wazero
//	├── errors/          Structured error types for debugging
//	└── cmd/memlayout/   CLI: check, show, explore
//
// # Quick Start
//
// Inspect a live type:
//
//	rep, err := inspect.Describe(reflect.TypeFor[Header]())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(rep) // byte map with offsets and padding holes
//
// Project the saving a reorder would buy:
//
//	c := layout.NewCalculator(layout.AMD64)
//	cmp, _ := c.Compare(model)
//	fmt.Printf("%d -> %d bytes\n", cmp.CurrentSize, cmp.OptimalSize)
//
// Or run the analyzer over source:
//
//	memlayout check ./pkg/types.go
//	memlayout check --fix --target wasm32 ./pkg/types.go
//
// # Layout Model
//
// All frontends translate onto one model: scalar kinds, fixed arrays
// and named structs, laid out under a Target (pointer size plus maximum
// scalar alignment). Offsets follow the usual C rules: each field goes
// to the next multiple of its alignment, the struct is padded to a
// multiple of its own alignment so array elements stay aligned.
//
// # Linear Memory
//
// The root package defines the Memory and Allocator contracts shared by
// the placement subsystem. Implementations include a byte-slice memory,
// a bump-allocating Arena, and an adapter for wazero module memory, so
// placement works the same against a test buffer or a live WebAssembly
// instance.
package memlayout
