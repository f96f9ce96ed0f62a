package source

import (
	"io"
	"os"

	"github.com/owenrumney/go-sarif/sarif"

	"github.com/structkit/memlayout/errors"
)

// ruleID identifies padding findings in SARIF output.
const ruleID = "MEMLAYOUT_RULE_001"

// WriteSARIF renders findings as a SARIF 2.1.0 report.
func WriteSARIF(findings []Finding, w io.Writer) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return errors.Wrap(errors.PhaseAnalyze, errors.KindInvalidData, err, "create SARIF report")
	}

	run := sarif.NewRun("memlayout", "https://github.com/structkit/memlayout")
	for _, f := range findings {
		run.AddResult(ruleID).
			WithLocation(sarif.NewLocationWithPhysicalLocation(sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().
					WithUri(f.Pos.Filename)).
				WithRegion(sarif.NewRegion().
					WithStartLine(f.Pos.Line).
					WithStartColumn(f.Pos.Column)))).
			WithMessage(sarif.NewMessage().WithText(f.Message))
	}
	report.AddRun(run)
	return report.Write(w)
}

// WriteSARIFFile writes the SARIF report to path.
func WriteSARIFFile(findings []Finding, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.PhaseAnalyze, errors.KindInvalidData, err, "create "+path)
	}
	defer file.Close()
	return WriteSARIF(findings, file)
}
