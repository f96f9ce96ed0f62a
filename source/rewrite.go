package source

import (
	"go/format"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/structkit/memlayout/errors"
	"github.com/structkit/memlayout/layout"
)

// FixFile reorders the fields of padded structs in one file and writes
// the result back, gofmt formatted. When a reported struct nests inside
// another reported struct only the outer one is rewritten; running
// again reaches the inner ones. Returns the number of structs
// rewritten.
func FixFile(path string, target layout.Target) (int, error) {
	findings, err := Check(path, target)
	if err != nil {
		return 0, err
	}

	edits := make([]Finding, 0, len(findings))
	for _, f := range findings {
		if f.Fix != nil {
			edits = append(edits, f)
		}
	}
	if len(edits) == 0 {
		return 0, nil
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].Pos.Offset < edits[j].Pos.Offset })

	src, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseRewrite, errors.KindInvalidData, err, "read "+path)
	}

	var out []byte
	cur := 0
	applied := 0
	for _, e := range edits {
		if e.Pos.Offset < cur {
			continue
		}
		out = append(out, src[cur:e.Pos.Offset]...)
		out = append(out, e.Fix...)
		cur = e.End.Offset
		applied++
	}
	out = append(out, src[cur:]...)

	formatted, err := format.Source(out)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseRewrite, errors.KindInvalidData, err, "format rewritten source")
	}
	if err := os.WriteFile(path, formatted, 0o644); err != nil {
		return 0, errors.Wrap(errors.PhaseRewrite, errors.KindInvalidData, err, "write "+path)
	}

	Logger().Info("rewrote structs",
		zap.String("file", path),
		zap.Int("structs", applied))
	return applied, nil
}
