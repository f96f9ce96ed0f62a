package main

import (
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/structkit/memlayout/align"
	"github.com/structkit/memlayout/layout"
	"github.com/structkit/memlayout/source"
)

var (
	showTarget   string
	showOptimize bool
)

var showCmd = &cobra.Command{
	Use:   "show <file.go> [struct...]",
	Short: "Print the byte map of structs in a file",
	Long: `show prints one row per field and per padding hole, in offset order.
Without struct names it prints every struct in the file. With
--optimize the fields are reordered by descending alignment first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showTarget, "target", "t", "amd64", "layout target (amd64, 386, wasm32)")
	showCmd.Flags().BoolVar(&showOptimize, "optimize", false, "show the size-optimal field order")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	target, err := resolveTarget(showTarget)
	if err != nil {
		return err
	}

	entries, err := loadStructs(args[0])
	if err != nil {
		return err
	}
	if len(args) > 1 {
		entries, err = filterEntries(entries, args[1:])
		if err != nil {
			return err
		}
	}

	plain := !term.IsTerminal(int(os.Stdout.Fd()))
	calc := layout.NewCalculator(target)
	for i, e := range entries {
		if i > 0 {
			fmt.Println()
		}
		out, err := renderLayout(e, target, showOptimize, nil, plain)
		if err != nil {
			return err
		}
		fmt.Print(out)

		if showOptimize {
			continue
		}
		cmp, err := calc.Compare(e.model)
		if err == nil && cmp.SavedBytes > 0 {
			hint := fmt.Sprintf("reordering saves %d bytes (%d -> %d)", cmp.SavedBytes, cmp.CurrentSize, cmp.OptimalSize)
			if !plain {
				hint = helpStyle.Render(hint)
			}
			fmt.Println(hint)
		}
	}
	return nil
}

// structEntry is one named struct pulled out of a source file: its
// layout model plus the Go type text of each field for display.
type structEntry struct {
	name       string
	model      *layout.Struct
	fieldTypes map[string]string
}

// loadStructs parses and type checks one file and models every named
// struct type declared in it, in declaration order. Structs the model
// cannot lay out (generics and the like) are skipped.
func loadStructs(path string) ([]structEntry, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}
	pkg, err := conf.Check(file.Name.Name, fset, []*ast.File{file}, nil)
	if err != nil {
		return nil, fmt.Errorf("type check: %w", err)
	}
	qual := types.RelativeTo(pkg)

	var entries []structEntry
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			obj := pkg.Scope().Lookup(ts.Name.Name)
			if obj == nil {
				continue
			}
			st, ok := obj.Type().Underlying().(*types.Struct)
			if !ok {
				continue
			}
			model, err := source.Model(obj.Type())
			if err != nil {
				continue
			}

			fieldTypes := make(map[string]string, st.NumFields())
			for i := 0; i < st.NumFields(); i++ {
				f := st.Field(i)
				fieldTypes[f.Name()] = types.TypeString(f.Type(), qual)
			}
			entries = append(entries, structEntry{
				name:       ts.Name.Name,
				model:      model,
				fieldTypes: fieldTypes,
			})
		}
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no structs in %s", path)
	}
	return entries, nil
}

func filterEntries(entries []structEntry, names []string) ([]structEntry, error) {
	byName := make(map[string]structEntry, len(entries))
	for _, e := range entries {
		byName[e.name] = e
	}
	out := make([]structEntry, 0, len(names))
	for _, name := range names {
		e, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("no struct named %s", name)
		}
		out = append(out, e)
	}
	return out, nil
}

// renderLayout draws the byte map of one struct: one row per field and
// per padding hole. With a base address it also marks whether each
// field lands on a multiple of its alignment when the struct is placed
// there.
func renderLayout(e structEntry, target layout.Target, optimize bool, base *uint64, plain bool) (string, error) {
	calc := layout.NewCalculator(target)
	model := e.model
	if optimize {
		opt, err := calc.Optimize(model)
		if err != nil {
			return "", err
		}
		model = opt
	}
	info, err := calc.Calculate(model)
	if err != nil {
		return "", err
	}

	style := func(s lipgloss.Style, text string) string {
		if plain {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	b.WriteString(style(titleStyle, model.Name))
	fmt.Fprintf(&b, " %s: size %d, align %d", target.Name, info.Size, info.Align)
	if info.Padding > 0 {
		fmt.Fprintf(&b, ", padding %d", info.Padding)
	}
	if optimize {
		b.WriteString(" (reordered)")
	}
	if base != nil {
		if align.IsAligned(uintptr(*base), uintptr(info.Align)) {
			b.WriteString("  " + style(okStyle, fmt.Sprintf("base 0x%X aligned", *base)))
		} else {
			b.WriteString("  " + style(errorStyle, fmt.Sprintf("base 0x%X misaligned", *base)))
		}
	}
	b.WriteByte('\n')

	fmt.Fprintf(&b, "%8s  %5s  %s\n", "offset", "size", "field")
	hole := 0
	writeHole := func(h layout.Hole) {
		b.WriteString(style(padStyle, fmt.Sprintf("%8d  %5d  (padding)", h.Offset, h.Size)))
		b.WriteByte('\n')
	}
	for i, f := range model.Fields {
		offset := info.Offsets[i]
		for hole < len(info.Holes) && info.Holes[hole].Offset < offset {
			writeHole(info.Holes[hole])
			hole++
		}
		fieldInfo, err := calc.Calculate(f.Type)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%8d  %5d  ", offset, fieldInfo.Size)
		b.WriteString(style(fieldStyle, f.Name))
		if t := e.fieldTypes[f.Name]; t != "" {
			b.WriteString(" " + style(typeStyle, t))
		}
		if base != nil {
			if align.IsAligned(uintptr(*base+offset), uintptr(fieldInfo.Align)) {
				b.WriteString("  " + style(okStyle, "aligned"))
			} else {
				b.WriteString("  " + style(errorStyle, "misaligned"))
			}
		}
		b.WriteByte('\n')
	}
	for hole < len(info.Holes) {
		writeHole(info.Holes[hole])
		hole++
	}
	return b.String(), nil
}
