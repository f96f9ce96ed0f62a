// Package inspect reports the memory layout of live Go types.
//
// # Main Operations
//
//   - Describe: field offsets, sizes and padding holes exactly as the
//     compiler laid the struct out, via reflection
//   - Model: projects a Go struct onto the layout package's type model
//     so reordering savings can be computed for any target
//   - Optimized: the layout Describe would report after reordering
//     fields by descending alignment and size
//   - Aligned: whether a pointer satisfies its pointee's alignment
//
// # Reference Types
//
// Model widens reference kinds to their headers: a string becomes a
// pointer and a length, a slice adds a capacity word, an interface is
// two words. Maps, channels, funcs and pointers are single words.
// Struct-typed fields stay opaque in Describe; call Describe on the
// field's type to see inside it.
//
// # Example
//
//	rep, _ := inspect.Describe(reflect.TypeFor[Header]())
//	fmt.Println(rep)        // byte map with padding holes
//	opt, _ := inspect.Optimized(reflect.TypeFor[Header]())
//	fmt.Println(opt.Size)   // size after reordering
package inspect
