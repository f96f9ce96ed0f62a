package linmem

import (
	"math"
	"reflect"

	"go.uber.org/zap"

	"github.com/structkit/memlayout"
	"github.com/structkit/memlayout/errors"
	"github.com/structkit/memlayout/layout"
)

// Placer copies Go struct values into a linear memory at the offsets a
// layout target assigns. The same placer reads values back out, so a
// round trip through Place and Read reproduces the original value.
type Placer struct {
	mem    memlayout.Memory
	alloc  memlayout.Allocator
	calc   *layout.Calculator
	models map[reflect.Type]*layout.Struct
}

// NewPlacer returns a placer laying out for 32-bit WebAssembly memories.
func NewPlacer(mem memlayout.Memory, alloc memlayout.Allocator) *Placer {
	return NewPlacerFor(mem, alloc, layout.Wasm32)
}

// NewPlacerFor returns a placer using the given target's layout rules.
func NewPlacerFor(mem memlayout.Memory, alloc memlayout.Allocator, target layout.Target) *Placer {
	return &Placer{
		mem:    mem,
		alloc:  alloc,
		calc:   layout.NewCalculator(target),
		models: make(map[reflect.Type]*layout.Struct),
	}
}

// Target returns the layout target values are placed for.
func (p *Placer) Target() layout.Target {
	return p.calc.Target()
}

// Place allocates room for v and writes it into the memory field by
// field. v must be a struct or non-nil pointer to struct whose fields
// are fixed-width scalars, arrays or nested structs, all exported.
// Padding bytes inside the allocation are left untouched. Returns the
// address of the placed value.
func (p *Placer) Place(v any) (uint32, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return 0, errors.InvalidInput(errors.PhasePlace, "nil value")
	}
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return 0, errors.NilPointer(errors.PhasePlace, rv.Type().String())
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return 0, errors.NotStruct(errors.PhasePlace, rv.Type().String())
	}

	model, err := p.model(rv.Type())
	if err != nil {
		return 0, err
	}
	info, err := p.calc.Calculate(model)
	if err != nil {
		return 0, err
	}
	if info.Size > math.MaxUint32 {
		return 0, errors.Overflow(errors.PhasePlace, []string{rv.Type().String()}, "size exceeds 32-bit address space")
	}

	ptr, err := p.alloc.Alloc(uint32(info.Size), uint32(info.Align))
	if err != nil {
		return 0, err
	}
	if err := p.writeValue(rv, model, ptr); err != nil {
		return 0, err
	}

	Logger().Debug("placed value",
		zap.String("type", rv.Type().String()),
		zap.Uint32("ptr", ptr),
		zap.Uint64("size", info.Size))
	return ptr, nil
}

// Read copies the value at ptr back into out, which must be a non-nil
// pointer to a struct of a supported shape.
func (p *Placer) Read(ptr uint32, out any) error {
	rv := reflect.ValueOf(out)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.TypeMismatch(errors.PhasePlace, nil, goTypeName(out), "non-nil pointer to struct")
	}
	elem := rv.Elem()
	if elem.Kind() != reflect.Struct {
		return errors.NotStruct(errors.PhasePlace, elem.Type().String())
	}
	model, err := p.model(elem.Type())
	if err != nil {
		return err
	}
	return p.readValue(elem, model, ptr)
}

// model returns the layout model for a struct type, building and
// caching it on first use. Cached models keep their identity, so the
// calculator's own cache stays warm across placements.
func (p *Placer) model(t reflect.Type) (*layout.Struct, error) {
	if m, ok := p.models[t]; ok {
		return m, nil
	}
	m, err := p.structModel(t, nil)
	if err != nil {
		return nil, err
	}
	p.models[t] = m
	return m, nil
}

func (p *Placer) structModel(t reflect.Type, path []string) (*layout.Struct, error) {
	s := &layout.Struct{
		Name:   t.Name(),
		Fields: make([]layout.Field, 0, t.NumField()),
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		fpath := append(append([]string(nil), path...), f.Name)
		if !f.IsExported() {
			return nil, errors.New(errors.PhasePlace, errors.KindUnsupported).
				Path(fpath...).
				GoType(f.Type.String()).
				Detail("unexported field").
				Build()
		}
		ft, err := p.fieldModel(f.Type, fpath)
		if err != nil {
			return nil, err
		}
		s.Fields = append(s.Fields, layout.Field{Name: f.Name, Type: ft})
	}
	return s, nil
}

func (p *Placer) fieldModel(t reflect.Type, path []string) (layout.Type, error) {
	switch t.Kind() {
	case reflect.Bool:
		return layout.Bool, nil
	case reflect.Int8:
		return layout.I8, nil
	case reflect.Uint8:
		return layout.U8, nil
	case reflect.Int16:
		return layout.I16, nil
	case reflect.Uint16:
		return layout.U16, nil
	case reflect.Int32:
		return layout.I32, nil
	case reflect.Uint32:
		return layout.U32, nil
	case reflect.Int64:
		return layout.I64, nil
	case reflect.Uint64:
		return layout.U64, nil
	case reflect.Float32:
		return layout.F32, nil
	case reflect.Float64:
		return layout.F64, nil
	case reflect.Array:
		elem, err := p.fieldModel(t.Elem(), path)
		if err != nil {
			return nil, err
		}
		return &layout.Array{Elem: elem, Count: uint64(t.Len())}, nil
	case reflect.Struct:
		return p.structModel(t, path)
	default:
		return nil, errors.New(errors.PhasePlace, errors.KindUnsupported).
			Path(path...).
			GoType(t.String()).
			Detail("placement needs fixed-width scalars, arrays or structs").
			Build()
	}
}

func (p *Placer) writeValue(v reflect.Value, t layout.Type, addr uint32) error {
	switch tt := t.(type) {
	case layout.Kind:
		return p.writeScalar(v, tt, addr)
	case *layout.Array:
		info, err := p.calc.Calculate(tt.Elem)
		if err != nil {
			return err
		}
		for i := 0; i < v.Len(); i++ {
			if err := p.writeValue(v.Index(i), tt.Elem, addr+uint32(uint64(i)*info.Size)); err != nil {
				return err
			}
		}
		return nil
	case *layout.Struct:
		info, err := p.calc.Calculate(tt)
		if err != nil {
			return err
		}
		for i, f := range tt.Fields {
			if err := p.writeValue(v.Field(i), f.Type, addr+uint32(info.Offsets[i])); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.Unsupported(errors.PhasePlace, "unknown layout node")
	}
}

func (p *Placer) writeScalar(v reflect.Value, k layout.Kind, addr uint32) error {
	switch k {
	case layout.Bool:
		var b uint8
		if v.Bool() {
			b = 1
		}
		return p.mem.WriteU8(addr, b)
	case layout.I8:
		return p.mem.WriteU8(addr, uint8(v.Int()))
	case layout.U8:
		return p.mem.WriteU8(addr, uint8(v.Uint()))
	case layout.I16:
		return p.mem.WriteU16(addr, uint16(v.Int()))
	case layout.U16:
		return p.mem.WriteU16(addr, uint16(v.Uint()))
	case layout.I32:
		return p.mem.WriteU32(addr, uint32(v.Int()))
	case layout.U32:
		return p.mem.WriteU32(addr, uint32(v.Uint()))
	case layout.I64:
		return p.mem.WriteU64(addr, uint64(v.Int()))
	case layout.U64:
		return p.mem.WriteU64(addr, v.Uint())
	case layout.F32:
		return p.mem.WriteU32(addr, math.Float32bits(float32(v.Float())))
	case layout.F64:
		return p.mem.WriteU64(addr, math.Float64bits(v.Float()))
	default:
		return errors.Unsupported(errors.PhasePlace, "scalar kind "+k.String())
	}
}

func (p *Placer) readValue(v reflect.Value, t layout.Type, addr uint32) error {
	switch tt := t.(type) {
	case layout.Kind:
		return p.readScalar(v, tt, addr)
	case *layout.Array:
		info, err := p.calc.Calculate(tt.Elem)
		if err != nil {
			return err
		}
		for i := 0; i < v.Len(); i++ {
			if err := p.readValue(v.Index(i), tt.Elem, addr+uint32(uint64(i)*info.Size)); err != nil {
				return err
			}
		}
		return nil
	case *layout.Struct:
		info, err := p.calc.Calculate(tt)
		if err != nil {
			return err
		}
		for i, f := range tt.Fields {
			if err := p.readValue(v.Field(i), f.Type, addr+uint32(info.Offsets[i])); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.Unsupported(errors.PhasePlace, "unknown layout node")
	}
}

func (p *Placer) readScalar(v reflect.Value, k layout.Kind, addr uint32) error {
	switch k {
	case layout.Bool:
		b, err := p.mem.ReadU8(addr)
		if err != nil {
			return err
		}
		v.SetBool(b != 0)
	case layout.I8:
		b, err := p.mem.ReadU8(addr)
		if err != nil {
			return err
		}
		v.SetInt(int64(int8(b)))
	case layout.U8:
		b, err := p.mem.ReadU8(addr)
		if err != nil {
			return err
		}
		v.SetUint(uint64(b))
	case layout.I16:
		u, err := p.mem.ReadU16(addr)
		if err != nil {
			return err
		}
		v.SetInt(int64(int16(u)))
	case layout.U16:
		u, err := p.mem.ReadU16(addr)
		if err != nil {
			return err
		}
		v.SetUint(uint64(u))
	case layout.I32:
		u, err := p.mem.ReadU32(addr)
		if err != nil {
			return err
		}
		v.SetInt(int64(int32(u)))
	case layout.U32:
		u, err := p.mem.ReadU32(addr)
		if err != nil {
			return err
		}
		v.SetUint(uint64(u))
	case layout.I64:
		u, err := p.mem.ReadU64(addr)
		if err != nil {
			return err
		}
		v.SetInt(int64(u))
	case layout.U64:
		u, err := p.mem.ReadU64(addr)
		if err != nil {
			return err
		}
		v.SetUint(u)
	case layout.F32:
		u, err := p.mem.ReadU32(addr)
		if err != nil {
			return err
		}
		v.SetFloat(float64(math.Float32frombits(u)))
	case layout.F64:
		u, err := p.mem.ReadU64(addr)
		if err != nil {
			return err
		}
		v.SetFloat(math.Float64frombits(u))
	default:
		return errors.Unsupported(errors.PhasePlace, "scalar kind "+k.String())
	}
	return nil
}

func goTypeName(v any) string {
	if t := reflect.TypeOf(v); t != nil {
		return t.String()
	}
	return "<nil>"
}
