// Package errors provides structured error types for the memlayout library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, Go type name, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCalc, errors.KindOverflow).
//		Path("Outer", "blob").
//		Detail("array size exceeds uint64").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotStruct(errors.PhaseInspect, "int64")
//	err := errors.OutOfBounds(errors.PhasePlace, 1024, 8)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
