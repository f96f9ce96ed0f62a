package inspect

import (
	"reflect"

	"github.com/structkit/memlayout/errors"
	"github.com/structkit/memlayout/layout"
)

// Model projects a Go struct type onto the layout type model. Scalar
// fields map to scalar kinds, reference kinds widen to their headers
// (string is a pointer and a length, a slice adds a capacity word, an
// interface is two words) and complex numbers become two floats.
func Model(t reflect.Type) (*layout.Struct, error) {
	if t == nil {
		return nil, errors.InvalidInput(errors.PhaseConvert, "nil type")
	}
	if t.Kind() != reflect.Struct {
		return nil, errors.NotStruct(errors.PhaseConvert, t.String())
	}

	typ, err := convertType(t, nil)
	if err != nil {
		return nil, err
	}
	return typ.(*layout.Struct), nil
}

func convertType(t reflect.Type, path []string) (layout.Type, error) {
	switch t.Kind() {
	case reflect.Bool:
		return layout.Bool, nil
	case reflect.Int8:
		return layout.I8, nil
	case reflect.Int16:
		return layout.I16, nil
	case reflect.Int32:
		return layout.I32, nil
	case reflect.Int64:
		return layout.I64, nil
	case reflect.Uint8:
		return layout.U8, nil
	case reflect.Uint16:
		return layout.U16, nil
	case reflect.Uint32:
		return layout.U32, nil
	case reflect.Uint64:
		return layout.U64, nil
	case reflect.Float32:
		return layout.F32, nil
	case reflect.Float64:
		return layout.F64, nil
	case reflect.Int, reflect.Uint, reflect.Uintptr:
		return layout.Ptr, nil
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan, reflect.Func:
		return layout.Ptr, nil
	case reflect.Complex64:
		return &layout.Array{Elem: layout.F32, Count: 2}, nil
	case reflect.Complex128:
		return &layout.Array{Elem: layout.F64, Count: 2}, nil
	case reflect.String:
		return &layout.Struct{Name: "string", Fields: []layout.Field{
			{Name: "data", Type: layout.Ptr},
			{Name: "len", Type: layout.Ptr},
		}}, nil
	case reflect.Slice:
		return &layout.Struct{Name: "slice", Fields: []layout.Field{
			{Name: "data", Type: layout.Ptr},
			{Name: "len", Type: layout.Ptr},
			{Name: "cap", Type: layout.Ptr},
		}}, nil
	case reflect.Interface:
		return &layout.Struct{Name: "iface", Fields: []layout.Field{
			{Name: "tab", Type: layout.Ptr},
			{Name: "data", Type: layout.Ptr},
		}}, nil
	case reflect.Array:
		elem, err := convertType(t.Elem(), path)
		if err != nil {
			return nil, err
		}
		return &layout.Array{Elem: elem, Count: uint64(t.Len())}, nil
	case reflect.Struct:
		s := &layout.Struct{Name: typeName(t), Fields: make([]layout.Field, t.NumField())}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			ft, err := convertType(f.Type, append(path, f.Name))
			if err != nil {
				return nil, err
			}
			s.Fields[i] = layout.Field{Name: f.Name, Type: ft}
		}
		return s, nil
	default:
		return nil, errors.New(errors.PhaseConvert, errors.KindUnsupported).
			Path(path...).
			GoType(t.String()).
			Detail("no linear layout").
			Build()
	}
}

// Project reports the layout the model of t takes under target, fields
// in declaration order. Unlike Describe this uses the layout engine,
// so the numbers answer "what would this struct cost on that target"
// rather than "what did this compiler do".
func Project(t reflect.Type, target layout.Target) (*Report, error) {
	model, err := Model(t)
	if err != nil {
		return nil, err
	}
	return reportFromModel(layout.NewCalculator(target), t, model)
}

// Optimized reports the layout of t after fields are reordered by
// descending alignment and size, under the AMD64 target.
func Optimized(t reflect.Type) (*Report, error) {
	return OptimizedFor(t, layout.AMD64)
}

// OptimizedFor is Optimized under a specific target.
func OptimizedFor(t reflect.Type, target layout.Target) (*Report, error) {
	model, err := Model(t)
	if err != nil {
		return nil, err
	}

	c := layout.NewCalculator(target)
	opt, err := c.Optimize(model)
	if err != nil {
		return nil, err
	}
	return reportFromModel(c, t, opt)
}

func reportFromModel(c *layout.Calculator, t reflect.Type, s *layout.Struct) (*Report, error) {
	info, err := c.Calculate(s)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Name:    s.Name,
		Size:    info.Size,
		Align:   info.Align,
		Fields:  make([]FieldInfo, len(s.Fields)),
		Holes:   info.Holes,
		Padding: info.Padding,
	}

	for i, f := range s.Fields {
		fieldInfo, err := c.Calculate(f.Type)
		if err != nil {
			return nil, err
		}

		typeStr := ""
		if sf, ok := t.FieldByName(f.Name); ok {
			typeStr = sf.Type.String()
		}
		rep.Fields[i] = FieldInfo{
			Name:   f.Name,
			Type:   typeStr,
			Offset: info.Offsets[i],
			Size:   fieldInfo.Size,
			Align:  fieldInfo.Align,
		}
	}

	return rep, nil
}
