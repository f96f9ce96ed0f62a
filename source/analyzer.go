package source

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/structkit/memlayout/errors"
	"github.com/structkit/memlayout/layout"
)

var targetFlag string

// Analyzer reports struct types whose declared field order costs
// padding bytes that a descending alignment order would not.
var Analyzer = &analysis.Analyzer{
	Name:     "structpad",
	Doc:      "reports structs whose field order wastes padding bytes",
	Run:      runAnalyzer,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
}

func init() {
	Analyzer.Flags.StringVar(&targetFlag, "target", layout.AMD64.Name, "layout target (amd64, 386, wasm32)")
}

func runAnalyzer(pass *analysis.Pass) (any, error) {
	target, ok := layout.TargetByName(targetFlag)
	if !ok {
		return nil, errors.InvalidInput(errors.PhaseAnalyze, fmt.Sprintf("unknown target %q", targetFlag))
	}
	calc := layout.NewCalculator(target)

	ins := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	nodeFilter := []ast.Node{(*ast.StructType)(nil)}
	ins.Preorder(nodeFilter, func(n ast.Node) {
		node := n.(*ast.StructType)
		if node.Fields == nil || len(node.Fields.List) < 2 {
			return
		}
		t := pass.TypesInfo.TypeOf(node)
		if t == nil {
			return
		}
		st, ok := t.Underlying().(*types.Struct)
		if !ok {
			return
		}

		// Structs with fields this model cannot lay out (type
		// parameters and the like) are skipped, not reported.
		model, err := structModel(st, "", nil)
		if err != nil {
			return
		}
		cmp, err := calc.Compare(model)
		if err != nil {
			return
		}
		if cmp.SavedBytes == 0 {
			return
		}

		diag := analysis.Diagnostic{
			Pos: node.Pos(),
			End: node.End(),
			Message: fmt.Sprintf("struct of size %d could be %d (%d bytes of padding)",
				cmp.CurrentSize, cmp.OptimalSize, cmp.CurrentPadding),
		}
		if fix := reorderFix(calc, node, model); fix != nil {
			diag.SuggestedFixes = []analysis.SuggestedFix{*fix}
		}
		pass.Report(diag)
	})
	return nil, nil
}

// reorderFix builds the replacement struct literal with fields in
// descending alignment order. Multi-name fields, embedded fields and
// tagged fields don't survive a mechanical reorder, so those structs
// get a diagnostic without a fix.
func reorderFix(calc *layout.Calculator, node *ast.StructType, model *layout.Struct) *analysis.SuggestedFix {
	for _, f := range node.Fields.List {
		if len(f.Names) != 1 || f.Tag != nil {
			return nil
		}
	}

	opt, err := calc.Optimize(model)
	if err != nil {
		return nil
	}

	byName := make(map[string]*ast.Field, len(node.Fields.List))
	for _, f := range node.Fields.List {
		byName[f.Names[0].Name] = f
	}

	var buf bytes.Buffer
	buf.WriteString("struct {\n")
	for _, f := range opt.Fields {
		decl, ok := byName[f.Name]
		if !ok {
			return nil
		}
		fmt.Fprintf(&buf, "\t%s %s\n", f.Name, types.ExprString(decl.Type))
	}
	buf.WriteString("}")

	return &analysis.SuggestedFix{
		Message: "reorder fields by descending alignment",
		TextEdits: []analysis.TextEdit{{
			Pos:     node.Pos(),
			End:     node.End(),
			NewText: buf.Bytes(),
		}},
	}
}
