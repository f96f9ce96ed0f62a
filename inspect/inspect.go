package inspect

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/structkit/memlayout/align"
	"github.com/structkit/memlayout/errors"
	"github.com/structkit/memlayout/layout"
)

// Report is the layout of one struct type.
type Report struct {
	Name    string
	Size    uint64
	Align   uint64
	Fields  []FieldInfo
	Holes   []layout.Hole
	Padding uint64
}

// FieldInfo describes one field of a reported struct.
type FieldInfo struct {
	Name   string
	Type   string
	Offset uint64
	Size   uint64
	Align  uint64
}

// Describe reports the layout of t as the compiler built it: offsets
// from reflect.StructField, holes wherever consecutive fields do not
// touch, trailing padding up to the struct size. t must be a struct
// type.
func Describe(t reflect.Type) (*Report, error) {
	if t == nil {
		return nil, errors.InvalidInput(errors.PhaseInspect, "nil type")
	}
	if t.Kind() != reflect.Struct {
		return nil, errors.NotStruct(errors.PhaseInspect, t.String())
	}

	rep := &Report{
		Name:   typeName(t),
		Size:   uint64(t.Size()),
		Align:  uint64(t.Align()),
		Fields: make([]FieldInfo, 0, t.NumField()),
	}

	end := uint64(0)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		offset := uint64(f.Offset)
		size := uint64(f.Type.Size())

		if offset > end {
			rep.Holes = append(rep.Holes, layout.Hole{Offset: end, Size: offset - end})
		}

		rep.Fields = append(rep.Fields, FieldInfo{
			Name:   f.Name,
			Type:   f.Type.String(),
			Offset: offset,
			Size:   size,
			Align:  uint64(f.Type.Align()),
		})
		end = offset + size
	}

	if rep.Size > end {
		rep.Holes = append(rep.Holes, layout.Hole{Offset: end, Size: rep.Size - end})
	}
	for _, h := range rep.Holes {
		rep.Padding += h.Size
	}

	return rep, nil
}

// String renders the report as a byte map: one row per field and per
// padding hole, in offset order.
func (r *Report) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: size %d, align %d", r.Name, r.Size, r.Align)
	if r.Padding > 0 {
		fmt.Fprintf(&b, ", padding %d", r.Padding)
	}
	b.WriteByte('\n')
	fmt.Fprintf(&b, "%8s  %5s  %s\n", "offset", "size", "field")

	hole := 0
	for _, f := range r.Fields {
		for hole < len(r.Holes) && r.Holes[hole].Offset < f.Offset {
			writeHole(&b, r.Holes[hole])
			hole++
		}
		fmt.Fprintf(&b, "%8d  %5d  %s %s\n", f.Offset, f.Size, f.Name, f.Type)
	}
	for hole < len(r.Holes) {
		writeHole(&b, r.Holes[hole])
		hole++
	}

	return b.String()
}

func writeHole(b *strings.Builder, h layout.Hole) {
	fmt.Fprintf(b, "%8d  %5d  (padding)\n", h.Offset, h.Size)
}

// Aligned reports whether the pointer v holds the address of a
// properly aligned value. v must be a non-nil pointer.
func Aligned(v any) (bool, error) {
	if v == nil {
		return false, errors.InvalidInput(errors.PhaseInspect, "nil value")
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer {
		return false, errors.TypeMismatch(errors.PhaseInspect, nil, rv.Type().String(), "pointer")
	}
	if rv.IsNil() {
		return false, errors.NilPointer(errors.PhaseInspect, rv.Type().String())
	}

	return align.IsAligned(rv.Pointer(), uintptr(rv.Type().Elem().Align())), nil
}

func typeName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
