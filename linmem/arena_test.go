package linmem

import (
	"errors"
	"math"
	"testing"

	"github.com/structkit/memlayout/align"
	apperrors "github.com/structkit/memlayout/errors"
)

func TestArenaAlloc(t *testing.T) {
	ar := NewArena(1024, 4096)

	ptr, err := ar.Alloc(10, 8)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if ptr != 1024 {
		t.Errorf("first alloc: got %d, want 1024", ptr)
	}

	ptr, err = ar.Alloc(1, 1)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if ptr != 1034 {
		t.Errorf("second alloc: got %d, want 1034", ptr)
	}

	// Cursor at 1035 bumps up to the next multiple of 8.
	ptr, err = ar.Alloc(4, 8)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if ptr != 1040 {
		t.Errorf("aligned alloc: got %d, want 1040", ptr)
	}

	if used := ar.Used(); used != 20 {
		t.Errorf("used: got %d, want 20", used)
	}
}

func TestArenaAlignmentGuarantee(t *testing.T) {
	ar := NewArena(1, 1<<20)

	aligns := []uint32{1, 2, 4, 8, 16, 64}
	sizes := []uint32{1, 3, 5, 7, 13}
	for _, a := range aligns {
		for _, size := range sizes {
			ptr, err := ar.Alloc(size, a)
			if err != nil {
				t.Fatalf("Alloc(%d, %d) failed: %v", size, a, err)
			}
			if !align.IsAligned(uintptr(ptr), uintptr(a)) {
				t.Errorf("Alloc(%d, %d) = %d, not a multiple of %d", size, a, ptr, a)
			}
		}
	}
}

func TestArenaExhaustion(t *testing.T) {
	ar := NewArena(0, 16)

	if _, err := ar.Alloc(12, 1); err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}

	_, err := ar.Alloc(8, 1)
	if err == nil {
		t.Fatal("expected allocation failure, got nil")
	}
	want := &apperrors.Error{Phase: apperrors.PhasePlace, Kind: apperrors.KindAllocation}
	if !errors.Is(err, want) {
		t.Errorf("error kind: got %v", err)
	}

	// A failed allocation leaves the cursor where it was.
	ptr, err := ar.Alloc(4, 1)
	if err != nil {
		t.Fatalf("Alloc after failure failed: %v", err)
	}
	if ptr != 12 {
		t.Errorf("alloc after failure: got %d, want 12", ptr)
	}
}

func TestArenaReset(t *testing.T) {
	ar := NewArena(64, 256)
	if _, err := ar.Alloc(100, 8); err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if ar.Used() == 0 {
		t.Fatal("used should be nonzero after alloc")
	}

	ar.Reset()
	if ar.Used() != 0 {
		t.Errorf("used after reset: got %d, want 0", ar.Used())
	}
	ptr, err := ar.Alloc(1, 1)
	if err != nil {
		t.Fatalf("Alloc after reset failed: %v", err)
	}
	if ptr != 64 {
		t.Errorf("alloc after reset: got %d, want 64", ptr)
	}
}

func TestArenaFreeIsNoOp(t *testing.T) {
	ar := NewArena(0, 64)
	ptr, err := ar.Alloc(16, 8)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	ar.Free(ptr, 16, 8)
	if ar.Used() != 16 {
		t.Errorf("used after free: got %d, want 16", ar.Used())
	}
}

func TestArenaZeroAlignment(t *testing.T) {
	ar := NewArena(5, 64)
	ptr, err := ar.Alloc(1, 0)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if ptr != 5 {
		t.Errorf("zero alignment alloc: got %d, want 5", ptr)
	}
}

func TestArenaClipsAtAddressSpaceTop(t *testing.T) {
	base := uint32(math.MaxUint32 - 8)
	ar := NewArena(base, 100)

	ptr, err := ar.Alloc(8, 1)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if ptr != base {
		t.Errorf("alloc: got %d, want %d", ptr, base)
	}

	if _, err := ar.Alloc(1, 1); err == nil {
		t.Error("expected allocation failure past address space top")
	}
}
