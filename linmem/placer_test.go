package linmem

import (
	"errors"
	"math"
	"testing"

	"github.com/structkit/memlayout/align"
	apperrors "github.com/structkit/memlayout/errors"
	"github.com/structkit/memlayout/layout"
)

type vec3 struct {
	X float32
	Y float32
	Z float32
}

type interleaved struct {
	A int8
	B int64
	C int8
	D int16
	E int64
	F float32
}

func newTestPlacer() (*Placer, *SliceMemory) {
	mem := NewSliceMemory(64 * 1024)
	return NewPlacer(mem, NewArena(1024, 32*1024)), mem
}

func TestPlaceWritesAtComputedOffsets(t *testing.T) {
	placer, mem := newTestPlacer()

	ptr, err := placer.Place(interleaved{A: 1, B: 2, C: 3, D: 4, E: 5, F: 1.5})
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	if v, _ := mem.ReadU8(ptr + 0); v != 1 {
		t.Errorf("A at +0: got %d, want 1", v)
	}
	if v, _ := mem.ReadU64(ptr + 8); v != 2 {
		t.Errorf("B at +8: got %d, want 2", v)
	}
	if v, _ := mem.ReadU8(ptr + 16); v != 3 {
		t.Errorf("C at +16: got %d, want 3", v)
	}
	if v, _ := mem.ReadU16(ptr + 18); v != 4 {
		t.Errorf("D at +18: got %d, want 4", v)
	}
	if v, _ := mem.ReadU64(ptr + 24); v != 5 {
		t.Errorf("E at +24: got %d, want 5", v)
	}
	if v, _ := mem.ReadU32(ptr + 32); v != math.Float32bits(1.5) {
		t.Errorf("F at +32: got %#x, want float bits of 1.5", v)
	}
}

func TestPlaceReturnsAlignedAddress(t *testing.T) {
	mem := NewSliceMemory(4096)
	placer := NewPlacer(mem, NewArena(1, 4000))

	ptr, err := placer.Place(interleaved{})
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if !align.IsAligned(uintptr(ptr), 8) {
		t.Errorf("ptr %d is not 8-byte aligned", ptr)
	}
}

func TestPlaceReadRoundTrip(t *testing.T) {
	t.Run("all_scalars", func(t *testing.T) {
		type scalars struct {
			A bool
			B int8
			C uint8
			D int16
			E uint16
			F int32
			G uint32
			H int64
			I uint64
			J float32
			K float64
		}
		placer, _ := newTestPlacer()
		in := scalars{
			A: true, B: -8, C: 200, D: -3000, E: 60000,
			F: -70000, G: 4000000000, H: -1 << 40, I: 1 << 60,
			J: 3.25, K: -6.75,
		}
		ptr, err := placer.Place(in)
		if err != nil {
			t.Fatalf("Place failed: %v", err)
		}
		var out scalars
		if err := placer.Read(ptr, &out); err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if out != in {
			t.Errorf("round trip: got %+v, want %+v", out, in)
		}
	})

	t.Run("sign_extension", func(t *testing.T) {
		type signed struct {
			A int8
			B int16
			C int32
		}
		placer, mem := newTestPlacer()
		ptr, err := placer.Place(signed{A: -5, B: -2, C: -1})
		if err != nil {
			t.Fatalf("Place failed: %v", err)
		}

		// Negative values land as two's complement bytes.
		if v, _ := mem.ReadU8(ptr); v != 0xFB {
			t.Errorf("raw byte of -5: got %#x, want 0xfb", v)
		}

		var out signed
		if err := placer.Read(ptr, &out); err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if out.A != -5 || out.B != -2 || out.C != -1 {
			t.Errorf("round trip: got %+v", out)
		}
	})

	t.Run("arrays", func(t *testing.T) {
		type withArrays struct {
			A [4]uint16
			B [2][3]int32
		}
		placer, _ := newTestPlacer()
		in := withArrays{
			A: [4]uint16{1, 2, 3, 4},
			B: [2][3]int32{{10, 20, 30}, {-1, -2, -3}},
		}
		ptr, err := placer.Place(&in)
		if err != nil {
			t.Fatalf("Place failed: %v", err)
		}
		var out withArrays
		if err := placer.Read(ptr, &out); err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if out != in {
			t.Errorf("round trip: got %+v, want %+v", out, in)
		}
	})

	t.Run("nested_struct", func(t *testing.T) {
		type particle struct {
			Pos  vec3
			Vel  vec3
			Mass float64
			Live bool
		}
		placer, _ := newTestPlacer()
		in := particle{
			Pos:  vec3{X: 1, Y: 2, Z: 3},
			Vel:  vec3{X: -0.5, Y: 0.25, Z: 0},
			Mass: 12.5,
			Live: true,
		}
		ptr, err := placer.Place(in)
		if err != nil {
			t.Fatalf("Place failed: %v", err)
		}
		var out particle
		if err := placer.Read(ptr, &out); err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if out != in {
			t.Errorf("round trip: got %+v, want %+v", out, in)
		}
	})

	t.Run("bool_false", func(t *testing.T) {
		type flags struct {
			On  bool
			Off bool
		}
		placer, _ := newTestPlacer()
		ptr, err := placer.Place(flags{On: true})
		if err != nil {
			t.Fatalf("Place failed: %v", err)
		}
		var out flags
		if err := placer.Read(ptr, &out); err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if !out.On || out.Off {
			t.Errorf("round trip: got %+v", out)
		}
	})
}

func TestPlaceRejectsUnsupportedFields(t *testing.T) {
	tests := []struct {
		name string
		v    any
	}{
		{"string", struct{ S string }{}},
		{"slice", struct{ S []byte }{}},
		{"map", struct{ M map[string]int }{}},
		{"chan", struct{ C chan int }{}},
		{"func", struct{ F func() }{}},
		{"pointer", struct{ P *int32 }{}},
		{"interface", struct{ I any }{}},
		{"complex", struct{ C complex64 }{}},
		{"host_int", struct{ N int }{}},
		{"host_uint", struct{ N uint }{}},
		{"uintptr", struct{ N uintptr }{}},
		{"nested", struct{ Inner struct{ S string } }{}},
		{"array_of_strings", struct{ A [2]string }{}},
	}
	placer, _ := newTestPlacer()
	want := &apperrors.Error{Phase: apperrors.PhasePlace, Kind: apperrors.KindUnsupported}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := placer.Place(tt.v)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, want) {
				t.Errorf("error kind: got %v", err)
			}
		})
	}
}

func TestPlaceRejectsUnexportedFields(t *testing.T) {
	type sneaky struct {
		A int8
		b int8
	}

	placer, _ := newTestPlacer()
	_, err := placer.Place(sneaky{A: 1})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	want := &apperrors.Error{Phase: apperrors.PhasePlace, Kind: apperrors.KindUnsupported}
	if !errors.Is(err, want) {
		t.Errorf("error kind: got %v", err)
	}
}

func TestPlaceInputErrors(t *testing.T) {
	placer, _ := newTestPlacer()

	t.Run("nil_value", func(t *testing.T) {
		_, err := placer.Place(nil)
		want := &apperrors.Error{Phase: apperrors.PhasePlace, Kind: apperrors.KindInvalidInput}
		if !errors.Is(err, want) {
			t.Errorf("error: got %v", err)
		}
	})

	t.Run("nil_pointer", func(t *testing.T) {
		var p *vec3
		_, err := placer.Place(p)
		want := &apperrors.Error{Phase: apperrors.PhasePlace, Kind: apperrors.KindNilPointer}
		if !errors.Is(err, want) {
			t.Errorf("error: got %v", err)
		}
	})

	t.Run("not_a_struct", func(t *testing.T) {
		_, err := placer.Place(42)
		want := &apperrors.Error{Phase: apperrors.PhasePlace, Kind: apperrors.KindNotStruct}
		if !errors.Is(err, want) {
			t.Errorf("error: got %v", err)
		}
	})
}

func TestReadInputErrors(t *testing.T) {
	placer, _ := newTestPlacer()

	t.Run("not_a_pointer", func(t *testing.T) {
		err := placer.Read(0, vec3{})
		want := &apperrors.Error{Phase: apperrors.PhasePlace, Kind: apperrors.KindTypeMismatch}
		if !errors.Is(err, want) {
			t.Errorf("error: got %v", err)
		}
	})

	t.Run("nil_out", func(t *testing.T) {
		err := placer.Read(0, nil)
		want := &apperrors.Error{Phase: apperrors.PhasePlace, Kind: apperrors.KindTypeMismatch}
		if !errors.Is(err, want) {
			t.Errorf("error: got %v", err)
		}
	})

	t.Run("pointer_to_non_struct", func(t *testing.T) {
		n := int32(0)
		err := placer.Read(0, &n)
		want := &apperrors.Error{Phase: apperrors.PhasePlace, Kind: apperrors.KindNotStruct}
		if !errors.Is(err, want) {
			t.Errorf("error: got %v", err)
		}
	})
}

func TestPlacerTargetChangesFootprint(t *testing.T) {
	type tail struct {
		A uint8
		B uint64
		C uint8
	}

	footprint := func(target layout.Target) uint32 {
		mem := NewSliceMemory(4096)
		ar := NewArena(0, 4096)
		placer := NewPlacerFor(mem, ar, target)
		if _, err := placer.Place(tail{}); err != nil {
			t.Fatalf("Place on %s failed: %v", target.Name, err)
		}
		return ar.Used()
	}

	if used := footprint(layout.AMD64); used != 24 {
		t.Errorf("amd64 footprint: got %d, want 24", used)
	}
	if used := footprint(layout.I386); used != 16 {
		t.Errorf("386 footprint: got %d, want 16", used)
	}
	if used := footprint(layout.Wasm32); used != 24 {
		t.Errorf("wasm32 footprint: got %d, want 24", used)
	}
}

func TestPlaceFailurePaths(t *testing.T) {
	t.Run("arena_exhausted", func(t *testing.T) {
		mem := NewSliceMemory(4096)
		placer := NewPlacer(mem, NewArena(0, 8))
		_, err := placer.Place(interleaved{})
		want := &apperrors.Error{Phase: apperrors.PhasePlace, Kind: apperrors.KindAllocation}
		if !errors.Is(err, want) {
			t.Errorf("error: got %v", err)
		}
	})

	t.Run("memory_too_small", func(t *testing.T) {
		// The arena covers more address space than the memory backs.
		mem := NewSliceMemory(8)
		placer := NewPlacer(mem, NewArena(0, 4096))
		_, err := placer.Place(interleaved{})
		want := &apperrors.Error{Phase: apperrors.PhasePlace, Kind: apperrors.KindOutOfBounds}
		if !errors.Is(err, want) {
			t.Errorf("error: got %v", err)
		}
	})
}

func TestPlacerReusesModels(t *testing.T) {
	placer, _ := newTestPlacer()

	if _, err := placer.Place(vec3{X: 1}); err != nil {
		t.Fatalf("first Place failed: %v", err)
	}
	if _, err := placer.Place(vec3{X: 2}); err != nil {
		t.Fatalf("second Place failed: %v", err)
	}
	if len(placer.models) != 1 {
		t.Errorf("model cache: got %d entries, want 1", len(placer.models))
	}
}
