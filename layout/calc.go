package layout

import (
	"math"

	"github.com/structkit/memlayout/align"
	"github.com/structkit/memlayout/errors"
)

// Info is the computed layout of a type.
type Info struct {
	Size    uint64
	Align   uint64
	Offsets []uint64 // byte offset of each struct field, nil for non-structs
	Holes   []Hole   // padding runs, including trailing padding
	Padding uint64   // total padding bytes, sum of hole sizes
}

// Hole is a run of padding bytes inside a struct.
type Hole struct {
	Offset uint64
	Size   uint64
}

// Calculator computes layouts for one target. Struct results are cached
// by identity, so shared *Struct nodes are computed once.
type Calculator struct {
	target  Target
	cache   map[*Struct]Info
	walking map[*Struct]bool
}

func NewCalculator(target Target) *Calculator {
	return &Calculator{
		target:  target,
		cache:   make(map[*Struct]Info),
		walking: make(map[*Struct]bool),
	}
}

// Target returns the target this calculator lays out for.
func (c *Calculator) Target() Target {
	return c.target
}

// Calculate computes the layout of t. Each field is placed at the
// smallest offset not before the previous field's end that is a
// multiple of the field's alignment, and the total size is rounded up
// to a multiple of the struct alignment so array elements stay aligned.
// Errors are reserved for malformed input and size overflow.
func (c *Calculator) Calculate(t Type) (Info, error) {
	switch typ := t.(type) {
	case Kind:
		return c.scalar(typ)
	case *Array:
		return c.array(typ)
	case *Struct:
		return c.calculateStruct(typ)
	case nil:
		return Info{}, errors.InvalidInput(errors.PhaseCalc, "nil type")
	default:
		return Info{}, errors.New(errors.PhaseCalc, errors.KindInvalidInput).
			Detail("unknown type %T", t).
			Build()
	}
}

func (c *Calculator) scalar(k Kind) (Info, error) {
	var size uint64
	switch k {
	case Bool, I8, U8:
		size = 1
	case I16, U16:
		size = 2
	case I32, U32, F32:
		size = 4
	case I64, U64, F64:
		size = 8
	case Ptr:
		size = c.target.PtrSize
	default:
		return Info{}, errors.New(errors.PhaseCalc, errors.KindInvalidInput).
			Detail("unknown scalar kind %d", uint8(k)).
			Build()
	}

	a := size
	if a > c.target.MaxAlign {
		a = c.target.MaxAlign
	}
	return Info{Size: size, Align: a}, nil
}

func (c *Calculator) array(a *Array) (Info, error) {
	if a == nil || a.Elem == nil {
		return Info{}, errors.InvalidInput(errors.PhaseCalc, "array with nil element type")
	}

	elem, err := c.Calculate(a.Elem)
	if err != nil {
		return Info{}, err
	}

	size, ok := safeMulU64(elem.Size, a.Count)
	if !ok {
		return Info{}, errors.Overflow(errors.PhaseCalc, nil, "array size exceeds uint64")
	}

	return Info{Size: size, Align: elem.Align}, nil
}

func (c *Calculator) calculateStruct(s *Struct) (Info, error) {
	if s == nil {
		return Info{}, errors.InvalidInput(errors.PhaseCalc, "nil struct")
	}
	if cached, ok := c.cache[s]; ok {
		return cached, nil
	}
	if c.walking[s] {
		return Info{}, errors.New(errors.PhaseCalc, errors.KindInvalidInput).
			Path(s.Name).
			Detail("recursive struct nesting").
			Build()
	}

	if len(s.Fields) == 0 {
		info := Info{Size: 0, Align: 1}
		c.cache[s] = info
		return info, nil
	}

	c.walking[s] = true
	defer delete(c.walking, s)

	offsets := make([]uint64, len(s.Fields))
	var holes []Hole
	maxAlign := uint64(1)
	offset := uint64(0)

	for i, field := range s.Fields {
		fieldLayout, err := c.Calculate(field.Type)
		if err != nil {
			return Info{}, err
		}

		aligned, ok := alignUpU64(offset, fieldLayout.Align)
		if !ok {
			return Info{}, errors.Overflow(errors.PhaseCalc, []string{s.Name, field.Name}, "field offset exceeds uint64")
		}
		if aligned > offset {
			holes = append(holes, Hole{Offset: offset, Size: aligned - offset})
		}
		offsets[i] = aligned

		if fieldLayout.Align > maxAlign {
			maxAlign = fieldLayout.Align
		}

		offset, ok = safeAddU64(aligned, fieldLayout.Size)
		if !ok {
			return Info{}, errors.Overflow(errors.PhaseCalc, []string{s.Name, field.Name}, "struct size exceeds uint64")
		}
	}

	totalSize, ok := alignUpU64(offset, maxAlign)
	if !ok {
		return Info{}, errors.Overflow(errors.PhaseCalc, []string{s.Name}, "struct size exceeds uint64")
	}
	if totalSize > offset {
		holes = append(holes, Hole{Offset: offset, Size: totalSize - offset})
	}

	var padding uint64
	for _, h := range holes {
		padding += h.Size
	}

	info := Info{
		Size:    totalSize,
		Align:   maxAlign,
		Offsets: offsets,
		Holes:   holes,
		Padding: padding,
	}
	c.cache[s] = info
	return info, nil
}

func alignUpU64(v, a uint64) (uint64, bool) {
	if a == 0 {
		return v, true
	}
	if v > math.MaxUint64-(a-1) {
		return 0, false
	}
	return align.Up(v, a), true
}

func safeAddU64(a, b uint64) (uint64, bool) {
	if a > math.MaxUint64-b {
		return 0, false
	}
	return a + b, true
}

func safeMulU64(a, b uint64) (uint64, bool) {
	if b != 0 && a > math.MaxUint64/b {
		return 0, false
	}
	return a * b, true
}
