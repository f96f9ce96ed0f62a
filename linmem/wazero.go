package linmem

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/structkit/memlayout"
	"github.com/structkit/memlayout/errors"
)

// WazeroMemory adapts a wazero module memory to the Memory interface,
// turning wazero's ok-bool results into structured errors.
type WazeroMemory struct {
	mem api.Memory
}

// WrapMemory wraps a wazero memory. Returns nil if mem is nil.
func WrapMemory(mem api.Memory) memlayout.Memory {
	if mem == nil {
		return nil
	}
	return &WazeroMemory{mem: mem}
}

// Size returns the memory size in bytes.
func (w *WazeroMemory) Size() uint32 {
	return w.mem.Size()
}

func (w *WazeroMemory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := w.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhasePlace, offset, length)
	}
	return data, nil
}

func (w *WazeroMemory) Write(offset uint32, data []byte) error {
	if !w.mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhasePlace, offset, uint32(len(data)))
	}
	return nil
}

func (w *WazeroMemory) ReadU8(offset uint32) (uint8, error) {
	value, ok := w.mem.ReadByte(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhasePlace, offset, 1)
	}
	return value, nil
}

func (w *WazeroMemory) ReadU16(offset uint32) (uint16, error) {
	value, ok := w.mem.ReadUint16Le(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhasePlace, offset, 2)
	}
	return value, nil
}

func (w *WazeroMemory) ReadU32(offset uint32) (uint32, error) {
	value, ok := w.mem.ReadUint32Le(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhasePlace, offset, 4)
	}
	return value, nil
}

func (w *WazeroMemory) ReadU64(offset uint32) (uint64, error) {
	value, ok := w.mem.ReadUint64Le(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhasePlace, offset, 8)
	}
	return value, nil
}

func (w *WazeroMemory) WriteU8(offset uint32, value uint8) error {
	if !w.mem.WriteByte(offset, value) {
		return errors.OutOfBounds(errors.PhasePlace, offset, 1)
	}
	return nil
}

func (w *WazeroMemory) WriteU16(offset uint32, value uint16) error {
	if !w.mem.WriteUint16Le(offset, value) {
		return errors.OutOfBounds(errors.PhasePlace, offset, 2)
	}
	return nil
}

func (w *WazeroMemory) WriteU32(offset uint32, value uint32) error {
	if !w.mem.WriteUint32Le(offset, value) {
		return errors.OutOfBounds(errors.PhasePlace, offset, 4)
	}
	return nil
}

func (w *WazeroMemory) WriteU64(offset uint32, value uint64) error {
	if !w.mem.WriteUint64Le(offset, value) {
		return errors.OutOfBounds(errors.PhasePlace, offset, 8)
	}
	return nil
}

// memoryOnlyModule is a wasm binary declaring a single one-page linear
// memory exported as "memory": the magic and version words, a memory
// section with one entry of min 1 page, and an export section naming it.
var memoryOnlyModule = []byte{
	0x00, 0x61, 0x73, 0x6D, // magic "\0asm"
	0x01, 0x00, 0x00, 0x00, // version 1
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: 1 memory, min 1 page
	0x07, 0x0A, 0x01, // export section: 1 export
	0x06, 'm', 'e', 'm', 'o', 'r', 'y', // export name
	0x02, 0x00, // kind memory, index 0
}

// NewWazeroMemory starts a wazero runtime hosting a one-page linear
// memory and returns it wrapped as a Memory. The returned close
// function shuts the runtime down and must be called when done.
func NewWazeroMemory(ctx context.Context) (memlayout.Memory, func(context.Context) error, error) {
	r := wazero.NewRuntime(ctx)
	mod, err := r.Instantiate(ctx, memoryOnlyModule)
	if err != nil {
		_ = r.Close(ctx)
		return nil, nil, errors.Wrap(errors.PhasePlace, errors.KindInvalidData, err, "instantiate memory module")
	}
	mem := mod.Memory()
	if mem == nil {
		_ = r.Close(ctx)
		return nil, nil, errors.InvalidData(errors.PhasePlace, nil, "module exports no memory")
	}

	Logger().Debug("wazero memory ready", zap.Uint32("size", mem.Size()))

	closer := func(ctx context.Context) error {
		return r.Close(ctx)
	}
	return WrapMemory(mem), closer, nil
}
