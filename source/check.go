package source

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/analysis"

	"github.com/structkit/memlayout/errors"
	"github.com/structkit/memlayout/layout"
)

// Finding is one analyzer diagnostic resolved to file positions.
type Finding struct {
	Pos     token.Position
	End     token.Position
	Message string
	Fix     []byte // replacement text for the struct type, nil when no mechanical fix exists
}

// Check parses and type checks a single Go file and reports structs
// whose field order wastes padding under the given target.
func Check(path string, target layout.Target) ([]Finding, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, errors.ParseFailed(path, err)
	}
	return checkFiles(fset, []*ast.File{file}, target)
}

// CheckDir runs Check over every non-test Go file of a directory,
// type checked together as one package.
func CheckDir(dir string, target layout.Target) ([]Finding, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.go"))
	if err != nil {
		return nil, errors.ParseFailed(dir, err)
	}

	fset := token.NewFileSet()
	var files []*ast.File
	for _, path := range paths {
		if strings.HasSuffix(path, "_test.go") {
			continue
		}
		file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			return nil, errors.ParseFailed(path, err)
		}
		files = append(files, file)
	}
	if len(files) == 0 {
		return nil, errors.InvalidInput(errors.PhaseParse, "no Go files in "+dir)
	}
	return checkFiles(fset, files, target)
}

func checkFiles(fset *token.FileSet, files []*ast.File, target layout.Target) ([]Finding, error) {
	pkgName := files[0].Name.Name
	conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}
	info := &types.Info{
		Types: make(map[ast.Expr]types.TypeAndValue),
		Defs:  make(map[*ast.Ident]types.Object),
		Uses:  make(map[*ast.Ident]types.Object),
	}
	pkg, err := conf.Check(pkgName, fset, files, info)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, "type check "+pkgName)
	}

	prevTarget := targetFlag
	targetFlag = target.Name
	defer func() { targetFlag = prevTarget }()

	resultsOf := make(map[*analysis.Analyzer]any)
	for _, req := range Analyzer.Requires {
		pass := &analysis.Pass{
			Analyzer:  req,
			Fset:      fset,
			Files:     files,
			Pkg:       pkg,
			TypesInfo: info,
			Report:    func(analysis.Diagnostic) {},
			ResultOf:  resultsOf,
		}
		result, err := req.Run(pass)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseAnalyze, errors.KindInvalidData, err, "prerequisite "+req.Name)
		}
		resultsOf[req] = result
	}

	var diags []analysis.Diagnostic
	pass := &analysis.Pass{
		Analyzer:  Analyzer,
		Fset:      fset,
		Files:     files,
		Pkg:       pkg,
		TypesInfo: info,
		Report:    func(d analysis.Diagnostic) { diags = append(diags, d) },
		ResultOf:  resultsOf,
	}
	if _, err := Analyzer.Run(pass); err != nil {
		return nil, errors.Wrap(errors.PhaseAnalyze, errors.KindInvalidData, err, "run "+Analyzer.Name)
	}

	findings := make([]Finding, 0, len(diags))
	for _, d := range diags {
		f := Finding{
			Pos:     fset.Position(d.Pos),
			End:     fset.Position(d.End),
			Message: d.Message,
		}
		if len(d.SuggestedFixes) > 0 && len(d.SuggestedFixes[0].TextEdits) > 0 {
			f.Fix = d.SuggestedFixes[0].TextEdits[0].NewText
		}
		findings = append(findings, f)
	}

	Logger().Debug("analysis finished",
		zap.String("package", pkgName),
		zap.String("target", target.Name),
		zap.Int("findings", len(findings)))
	return findings, nil
}
