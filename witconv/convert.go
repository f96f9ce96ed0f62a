// Package witconv maps WIT types onto the layout type model.
//
// Records, tuples and primitives convert directly. Strings and lists
// become pointer+length headers, so calculating a converted type under
// layout.Wasm32 reproduces the Canonical ABI numbers. The variant
// family (variant, option, result, enum, flags) is rejected: those are
// discriminated unions, not plain member sequences, and have no single
// field order to optimize.
package witconv

import (
	"strconv"

	"go.bytecodealliance.org/wit"

	"github.com/structkit/memlayout/errors"
	"github.com/structkit/memlayout/layout"
)

// Convert translates a WIT type to the layout model.
func Convert(t wit.Type) (layout.Type, error) {
	switch typ := t.(type) {
	case wit.Bool:
		return layout.Bool, nil
	case wit.S8:
		return layout.I8, nil
	case wit.U8:
		return layout.U8, nil
	case wit.S16:
		return layout.I16, nil
	case wit.U16:
		return layout.U16, nil
	case wit.S32:
		return layout.I32, nil
	case wit.U32:
		return layout.U32, nil
	case wit.S64:
		return layout.I64, nil
	case wit.U64:
		return layout.U64, nil
	case wit.F32:
		return layout.F32, nil
	case wit.F64:
		return layout.F64, nil
	case wit.Char:
		return layout.U32, nil
	case wit.String:
		return pointerLength("string"), nil
	case *wit.TypeDef:
		return convertTypeDef(typ)
	case nil:
		return nil, errors.InvalidInput(errors.PhaseConvert, "nil type")
	default:
		return nil, errors.New(errors.PhaseConvert, errors.KindUnsupported).
			Detail("unsupported WIT type %T", t).
			Build()
	}
}

func convertTypeDef(t *wit.TypeDef) (layout.Type, error) {
	name := ""
	if t.Name != nil {
		name = *t.Name
	}

	switch kind := t.Kind.(type) {
	case *wit.Record:
		s := &layout.Struct{Name: name, Fields: make([]layout.Field, len(kind.Fields))}
		for i, field := range kind.Fields {
			ft, err := Convert(field.Type)
			if err != nil {
				return nil, err
			}
			s.Fields[i] = layout.Field{Name: field.Name, Type: ft}
		}
		return s, nil
	case *wit.Tuple:
		s := &layout.Struct{Name: name, Fields: make([]layout.Field, len(kind.Types))}
		for i, typ := range kind.Types {
			ft, err := Convert(typ)
			if err != nil {
				return nil, err
			}
			s.Fields[i] = layout.Field{Name: strconv.Itoa(i), Type: ft}
		}
		return s, nil
	case *wit.List:
		return pointerLength(name), nil
	case *wit.Variant, *wit.Option, *wit.Result, *wit.Enum, *wit.Flags:
		b := errors.New(errors.PhaseConvert, errors.KindUnsupported).
			Detail("%T is a discriminated union, not a plain member sequence", kind)
		if name != "" {
			b = b.Path(name)
		}
		return nil, b.Build()
	case wit.Type:
		// type alias
		return Convert(kind)
	default:
		b := errors.New(errors.PhaseConvert, errors.KindUnsupported).
			Detail("unsupported TypeDef kind: %T", kind)
		if name != "" {
			b = b.Path(name)
		}
		return nil, b.Build()
	}
}

// Layout converts t and computes its layout in one step.
func Layout(c *layout.Calculator, t wit.Type) (layout.Info, error) {
	converted, err := Convert(t)
	if err != nil {
		return layout.Info{}, err
	}
	return c.Calculate(converted)
}

func pointerLength(name string) *layout.Struct {
	return &layout.Struct{Name: name, Fields: []layout.Field{
		{Name: "ptr", Type: layout.Ptr},
		{Name: "len", Type: layout.Ptr},
	}}
}
