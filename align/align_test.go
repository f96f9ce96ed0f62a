package align

import (
	"testing"
	"unsafe"
)

func TestIsAligned(t *testing.T) {
	tests := []struct {
		name  string
		addr  uintptr
		align uintptr
		want  bool
	}{
		{"zero address", 0, 8, true},
		{"aligned to 1", 17, 1, true},
		{"aligned to 2", 18, 2, true},
		{"unaligned to 2", 17, 2, false},
		{"aligned to 4", 1024, 4, true},
		{"unaligned to 4", 1026, 4, false},
		{"aligned to 8", 64, 8, true},
		{"unaligned to 8", 60, 8, false},
		{"aligned to 4096", 1 << 20, 4096, true},
		{"unaligned to 4096", 1<<20 + 512, 4096, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAligned(tt.addr, tt.align); got != tt.want {
				t.Errorf("IsAligned(%d, %d) = %v, want %v", tt.addr, tt.align, got, tt.want)
			}
		})
	}
}

// The mask form must agree with the modulo definition for every
// power-of-two alignment.
func TestIsAligned_ModuloEquivalence(t *testing.T) {
	for shift := 0; shift <= 12; shift++ {
		align := uintptr(1) << shift
		for addr := uintptr(0); addr < 4*align+3; addr++ {
			want := addr%align == 0
			if got := IsAligned(addr, align); got != want {
				t.Fatalf("IsAligned(%d, %d) = %v, want %v", addr, align, got, want)
			}
		}
	}
}

func TestAligned_AllocatorGuarantee(t *testing.T) {
	// Addresses produced by the allocator satisfy the pointee's
	// alignment requirement.
	t.Run("int8", func(t *testing.T) {
		v := new(int8)
		if !Aligned(v) {
			t.Errorf("new(int8) at %p not aligned", v)
		}
	})
	t.Run("int16", func(t *testing.T) {
		v := new(int16)
		if !Aligned(v) {
			t.Errorf("new(int16) at %p not aligned", v)
		}
	})
	t.Run("int64", func(t *testing.T) {
		v := new(int64)
		if !Aligned(v) {
			t.Errorf("new(int64) at %p not aligned", v)
		}
	})
	t.Run("float32", func(t *testing.T) {
		v := new(float32)
		if !Aligned(v) {
			t.Errorf("new(float32) at %p not aligned", v)
		}
	})
	t.Run("struct", func(t *testing.T) {
		type record struct {
			A int8
			B int64
			C int8
			D int16
			E int64
			F float32
		}
		v := new(record)
		if !Aligned(v) {
			t.Errorf("new(record) at %p not aligned", v)
		}
		if !IsAlignedPtr(unsafe.Pointer(&v.B), Of[int64]()) {
			t.Errorf("field B at %p not aligned to %d", &v.B, Of[int64]())
		}
	})
	t.Run("nil pointer", func(t *testing.T) {
		var v *int64
		if !Aligned(v) {
			t.Error("nil pointer should be aligned to everything")
		}
	})
}

func TestAligned_ArrayElements(t *testing.T) {
	// Size is a multiple of alignment, so every array element starts on
	// an aligned address.
	type record struct {
		A int8
		B int64
		F float32
	}

	var arr [7]record
	for i := range arr {
		if !Aligned(&arr[i]) {
			t.Errorf("element %d at %p not aligned to %d", i, &arr[i], Of[record]())
		}
	}

	var bytes [16]int8
	for i := range bytes {
		if !Aligned(&bytes[i]) {
			t.Errorf("element %d at %p not aligned", i, &bytes[i])
		}
	}
}

func TestOf_MatchesUnsafe(t *testing.T) {
	type record struct {
		A int8
		B int64
	}

	var (
		i8  int8
		i16 int16
		i32 int32
		i64 int64
		f32 float32
		f64 float64
		r   record
	)

	tests := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"int8", Of[int8](), unsafe.Alignof(i8)},
		{"int16", Of[int16](), unsafe.Alignof(i16)},
		{"int32", Of[int32](), unsafe.Alignof(i32)},
		{"int64", Of[int64](), unsafe.Alignof(i64)},
		{"float32", Of[float32](), unsafe.Alignof(f32)},
		{"float64", Of[float64](), unsafe.Alignof(f64)},
		{"struct", Of[record](), unsafe.Alignof(r)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("alignment: got %d, want %d", tt.got, tt.want)
			}
		})
	}
}

func TestSizeOf_MatchesUnsafe(t *testing.T) {
	type record struct {
		A int8
		B int64
	}

	var r record
	if got, want := SizeOf[record](), unsafe.Sizeof(r); got != want {
		t.Errorf("size: got %d, want %d", got, want)
	}
	if got, want := SizeOf[int16](), uintptr(2); got != want {
		t.Errorf("size: got %d, want %d", got, want)
	}
}

func TestUp(t *testing.T) {
	tests := []struct {
		name  string
		v     uint64
		align uint64
		want  uint64
	}{
		{"zero", 0, 8, 0},
		{"one up to 8", 1, 8, 8},
		{"exact multiple", 8, 8, 8},
		{"nine up to 16", 9, 8, 16},
		{"up to 2", 17, 2, 18},
		{"align zero is identity", 13, 0, 13},
		{"align one is identity", 13, 1, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Up(tt.v, tt.align); got != tt.want {
				t.Errorf("Up(%d, %d) = %d, want %d", tt.v, tt.align, got, tt.want)
			}
		})
	}
}

func TestDown(t *testing.T) {
	tests := []struct {
		name  string
		v     uint64
		align uint64
		want  uint64
	}{
		{"zero", 0, 8, 0},
		{"nine down to 8", 9, 8, 8},
		{"exact multiple", 16, 8, 16},
		{"seven down to 0", 7, 8, 0},
		{"align zero is identity", 13, 0, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Down(tt.v, tt.align); got != tt.want {
				t.Errorf("Down(%d, %d) = %d, want %d", tt.v, tt.align, got, tt.want)
			}
		})
	}
}

func TestPadding(t *testing.T) {
	tests := []struct {
		name  string
		v     uint32
		align uint32
		want  uint32
	}{
		{"already aligned", 16, 8, 0},
		{"one byte short", 15, 8, 1},
		{"seven bytes", 1, 8, 7},
		{"align one", 5, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Padding(tt.v, tt.align); got != tt.want {
				t.Errorf("Padding(%d, %d) = %d, want %d", tt.v, tt.align, got, tt.want)
			}
		})
	}
}

func TestIsPow2(t *testing.T) {
	tests := []struct {
		v    uint64
		want bool
	}{
		{0, false},
		{1, true},
		{2, true},
		{3, false},
		{4, true},
		{6, false},
		{8, true},
		{1 << 20, true},
		{1<<20 + 1, false},
	}

	for _, tt := range tests {
		if got := IsPow2(tt.v); got != tt.want {
			t.Errorf("IsPow2(%d) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestUpDownRelation(t *testing.T) {
	for v := uint32(0); v < 100; v++ {
		for _, a := range []uint32{1, 2, 4, 8, 16} {
			up := Up(v, a)
			down := Down(v, a)
			if up < v {
				t.Fatalf("Up(%d, %d) = %d < v", v, a, up)
			}
			if down > v {
				t.Fatalf("Down(%d, %d) = %d > v", v, a, down)
			}
			if up%a != 0 || down%a != 0 {
				t.Fatalf("Up/Down(%d, %d) not multiples: %d, %d", v, a, up, down)
			}
			if v%a == 0 {
				if up != v || down != v {
					t.Fatalf("aligned v=%d a=%d: Up=%d Down=%d", v, a, up, down)
				}
			} else if up-down != a {
				t.Fatalf("Up-Down spread for v=%d a=%d: %d, want %d", v, a, up-down, a)
			}
			if Padding(v, a) != up-v {
				t.Fatalf("Padding(%d, %d) = %d, want %d", v, a, Padding(v, a), up-v)
			}
		}
	}
}
