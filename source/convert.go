package source

import (
	"go/types"

	"github.com/structkit/memlayout/errors"
	"github.com/structkit/memlayout/layout"
)

// Model projects a type-checked struct onto the layout type model,
// using the same widening rules as the reflect-based inspector: host
// ints and reference kinds become pointer-sized, string and slice
// become their headers, complex numbers become two floats.
func Model(t types.Type) (*layout.Struct, error) {
	if t == nil {
		return nil, errors.InvalidInput(errors.PhaseParse, "nil type")
	}
	name := ""
	if named, ok := t.(*types.Named); ok {
		name = named.Obj().Name()
	}
	st, ok := t.Underlying().(*types.Struct)
	if !ok {
		return nil, errors.NotStruct(errors.PhaseParse, t.String())
	}
	return structModel(st, name, nil)
}

func structModel(st *types.Struct, name string, path []string) (*layout.Struct, error) {
	s := &layout.Struct{Name: name, Fields: make([]layout.Field, st.NumFields())}
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		ft, err := convertType(f.Type(), append(path, f.Name()))
		if err != nil {
			return nil, err
		}
		s.Fields[i] = layout.Field{Name: f.Name(), Type: ft}
	}
	return s, nil
}

func convertType(t types.Type, path []string) (layout.Type, error) {
	if _, ok := t.(*types.TypeParam); ok {
		return nil, errors.New(errors.PhaseParse, errors.KindUnsupported).
			Path(path...).
			GoType(t.String()).
			Detail("type parameter").
			Build()
	}

	switch u := t.Underlying().(type) {
	case *types.Basic:
		switch u.Kind() {
		case types.Bool:
			return layout.Bool, nil
		case types.Int8:
			return layout.I8, nil
		case types.Int16:
			return layout.I16, nil
		case types.Int32:
			return layout.I32, nil
		case types.Int64:
			return layout.I64, nil
		case types.Uint8:
			return layout.U8, nil
		case types.Uint16:
			return layout.U16, nil
		case types.Uint32:
			return layout.U32, nil
		case types.Uint64:
			return layout.U64, nil
		case types.Float32:
			return layout.F32, nil
		case types.Float64:
			return layout.F64, nil
		case types.Int, types.Uint, types.Uintptr, types.UnsafePointer:
			return layout.Ptr, nil
		case types.Complex64:
			return &layout.Array{Elem: layout.F32, Count: 2}, nil
		case types.Complex128:
			return &layout.Array{Elem: layout.F64, Count: 2}, nil
		case types.String:
			return &layout.Struct{Name: "string", Fields: []layout.Field{
				{Name: "data", Type: layout.Ptr},
				{Name: "len", Type: layout.Ptr},
			}}, nil
		default:
			return nil, errors.New(errors.PhaseParse, errors.KindUnsupported).
				Path(path...).
				GoType(t.String()).
				Detail("no linear layout").
				Build()
		}
	case *types.Pointer, *types.Map, *types.Chan, *types.Signature:
		return layout.Ptr, nil
	case *types.Slice:
		return &layout.Struct{Name: "slice", Fields: []layout.Field{
			{Name: "data", Type: layout.Ptr},
			{Name: "len", Type: layout.Ptr},
			{Name: "cap", Type: layout.Ptr},
		}}, nil
	case *types.Interface:
		return &layout.Struct{Name: "iface", Fields: []layout.Field{
			{Name: "tab", Type: layout.Ptr},
			{Name: "data", Type: layout.Ptr},
		}}, nil
	case *types.Array:
		if u.Len() < 0 {
			return nil, errors.New(errors.PhaseParse, errors.KindUnsupported).
				Path(path...).
				GoType(t.String()).
				Detail("array of unknown length").
				Build()
		}
		elem, err := convertType(u.Elem(), path)
		if err != nil {
			return nil, err
		}
		return &layout.Array{Elem: elem, Count: uint64(u.Len())}, nil
	case *types.Struct:
		name := ""
		if named, ok := t.(*types.Named); ok {
			name = named.Obj().Name()
		}
		return structModel(u, name, path)
	default:
		return nil, errors.New(errors.PhaseParse, errors.KindUnsupported).
			Path(path...).
			GoType(t.String()).
			Detail("no linear layout").
			Build()
	}
}
