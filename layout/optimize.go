package layout

import (
	"sort"

	"github.com/structkit/memlayout/errors"
)

// Comparison summarizes what reordering would buy for one struct.
type Comparison struct {
	CurrentSize    uint64
	OptimalSize    uint64
	SavedBytes     uint64
	CurrentPadding uint64
	OptimalPadding uint64
}

// Optimize returns a copy of s with fields reordered by descending
// alignment, then descending size. Fields that compare equal keep
// their original order. The reordered struct is never larger than the
// original.
func (c *Calculator) Optimize(s *Struct) (*Struct, error) {
	if s == nil {
		return nil, errors.InvalidInput(errors.PhaseCalc, "nil struct")
	}

	type ranked struct {
		field Field
		size  uint64
		align uint64
	}

	fields := make([]ranked, len(s.Fields))
	for i, f := range s.Fields {
		info, err := c.Calculate(f.Type)
		if err != nil {
			return nil, err
		}
		fields[i] = ranked{field: f, size: info.Size, align: info.Align}
	}

	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].align != fields[j].align {
			return fields[i].align > fields[j].align
		}
		return fields[i].size > fields[j].size
	})

	out := &Struct{Name: s.Name, Fields: make([]Field, len(fields))}
	for i, r := range fields {
		out.Fields[i] = r.field
	}
	return out, nil
}

// Compare computes the layout of s as declared and as Optimize would
// order it.
func (c *Calculator) Compare(s *Struct) (Comparison, error) {
	current, err := c.Calculate(s)
	if err != nil {
		return Comparison{}, err
	}

	optimized, err := c.Optimize(s)
	if err != nil {
		return Comparison{}, err
	}

	optimal, err := c.Calculate(optimized)
	if err != nil {
		return Comparison{}, err
	}

	return Comparison{
		CurrentSize:    current.Size,
		OptimalSize:    optimal.Size,
		SavedBytes:     current.Size - optimal.Size,
		CurrentPadding: current.Padding,
		OptimalPadding: optimal.Padding,
	}, nil
}
