package layout

// Type is a node in the layout type model. Scalar kinds, arrays and
// structs implement it.
type Type interface {
	layoutType()
}

// Kind enumerates the scalar types. A Kind is itself a Type, so field
// and element types can name scalars directly.
type Kind uint8

const (
	Bool Kind = iota
	I8
	U8
	I16
	U16
	I32
	U32
	I64
	U64
	F32
	F64
	Ptr // pointer-sized integer, size depends on target
)

func (Kind) layoutType() {}

func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case I8:
		return "i8"
	case U8:
		return "u8"
	case I16:
		return "i16"
	case U16:
		return "u16"
	case I32:
		return "i32"
	case U32:
		return "u32"
	case I64:
		return "i64"
	case U64:
		return "u64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case Ptr:
		return "ptr"
	default:
		return "unknown"
	}
}

// Array is a fixed-count sequence of one element type. The element
// stride equals the element size, which is already a multiple of the
// element alignment.
type Array struct {
	Elem  Type
	Count uint64
}

func (*Array) layoutType() {}

// Field is a named member of a Struct.
type Field struct {
	Name string
	Type Type
}

// Struct is an ordered sequence of named fields. Structs nest: a Field
// type may itself be a *Struct.
type Struct struct {
	Name   string
	Fields []Field
}

func (*Struct) layoutType() {}

// Target describes the layout rules of a platform: how wide a pointer
// is and the largest alignment any scalar may require. A scalar aligns
// to min(size, MaxAlign).
type Target struct {
	Name     string
	PtrSize  uint64
	MaxAlign uint64
}

var (
	// AMD64 is the LP64 host model: 8-byte pointers, max alignment 8.
	AMD64 = Target{Name: "amd64", PtrSize: 8, MaxAlign: 8}

	// I386 follows the SysV 386 ABI: 4-byte pointers and 64-bit
	// scalars aligned to 4.
	I386 = Target{Name: "386", PtrSize: 4, MaxAlign: 4}

	// Wasm32 follows the Canonical ABI: 4-byte pointers but 64-bit
	// scalars still align to 8.
	Wasm32 = Target{Name: "wasm32", PtrSize: 4, MaxAlign: 8}
)

// TargetByName resolves a target from its name as used in flags and
// config ("amd64", "386", "wasm32").
func TargetByName(name string) (Target, bool) {
	switch name {
	case AMD64.Name:
		return AMD64, true
	case I386.Name, "i386":
		return I386, true
	case Wasm32.Name, "wasm":
		return Wasm32, true
	default:
		return Target{}, false
	}
}
