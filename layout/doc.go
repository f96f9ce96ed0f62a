// Package layout computes sizes, alignments and field offsets for an
// abstract struct model under configurable target rules.
//
// The model is deliberately small: scalar kinds, fixed-count arrays and
// named structs. Frontends translate richer type systems onto it (the
// inspect package maps live Go types, witconv maps WIT records) and a
// single engine answers layout questions for all of them.
//
// # Layout Rules
//
// A Target fixes two numbers, the pointer size and the maximum scalar
// alignment. Everything else follows:
//
//	scalar align = min(scalar size, target MaxAlign)
//	field offset = previous end rounded up to the field's align
//	struct align = max field align
//	struct size  = end of last field rounded up to struct align
//	array stride = element size (already a multiple of element align)
//
// Three targets are predefined:
//
//	Target  PtrSize  MaxAlign  Notes
//	──────────────────────────────────────────────
//	AMD64   8        8         LP64 host model
//	I386    4        4         SysV: u64 aligns to 4
//	Wasm32  4        8         Canonical ABI: u64 aligns to 8
//
// # Key Types
//
//	Calculator  - computes Info per type, caches structs by identity
//	Info        - size, align, field offsets, padding holes
//	Comparison  - declared layout vs. size-optimal field order
//
// # Reordering
//
// Optimize reorders fields by descending alignment, then descending
// size, keeping declaration order for ties. Placing wide fields first
// removes the padding that mixed orderings force, so the reordered
// struct is never larger. Compare reports both layouts side by side:
//
//	c := layout.NewCalculator(layout.AMD64)
//	cmp, _ := c.Compare(s)
//	// cmp.CurrentSize 40, cmp.OptimalSize 24 for the classic
//	// i8/i64/i8/i16/i64/f32 ordering
//
// # Error Handling
//
// Calculate returns errors only for malformed input (nil types,
// recursive struct nesting) and for sizes that overflow uint64. A
// zero-field struct is valid: size 0, align 1.
package layout
