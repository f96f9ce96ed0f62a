// Package source analyzes Go source for structs whose field order
// wastes padding bytes.
//
// # Main Types
//
//   - Analyzer: a go/analysis pass ("structpad") reporting padded structs
//   - Finding: one diagnostic resolved to a file position, with fix text
//   - Model: go/types counterpart of the reflect-based inspect.Model
//
// # Entry Points
//
// Check and CheckDir parse, type check and analyze files directly,
// without a go/packages driver, so they work on plain files and in
// tests. FixFile applies the suggested reorders in place and formats
// the result. WriteSARIF renders findings for code scanning services.
//
// # Example
//
//	findings, err := source.Check("model.go", layout.AMD64)
//	if err != nil {
//		return err
//	}
//	for _, f := range findings {
//		fmt.Printf("%s: %s\n", f.Pos, f.Message)
//	}
package source
