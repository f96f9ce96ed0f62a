package linmem

import (
	"encoding/binary"

	"github.com/structkit/memlayout/errors"
)

// SliceMemory is a linear memory backed by a Go byte slice. Every
// access is bounds checked, and multi-byte values are read and written
// little-endian, matching WebAssembly memory order.
type SliceMemory struct {
	data []byte
}

// NewSliceMemory returns a zero-filled memory of the given size in bytes.
func NewSliceMemory(size uint32) *SliceMemory {
	return &SliceMemory{data: make([]byte, size)}
}

// Size returns the memory size in bytes.
func (m *SliceMemory) Size() uint32 {
	return uint32(len(m.data))
}

// Bytes returns the backing slice. Mutations are visible to the memory.
func (m *SliceMemory) Bytes() []byte {
	return m.data
}

func (m *SliceMemory) check(offset, length uint32) error {
	if uint64(offset)+uint64(length) > uint64(len(m.data)) {
		return errors.OutOfBounds(errors.PhasePlace, offset, length)
	}
	return nil
}

// Read returns a view of length bytes starting at offset. The view
// aliases the backing slice.
func (m *SliceMemory) Read(offset uint32, length uint32) ([]byte, error) {
	if err := m.check(offset, length); err != nil {
		return nil, err
	}
	return m.data[offset : offset+length], nil
}

// Write copies data into the memory starting at offset.
func (m *SliceMemory) Write(offset uint32, data []byte) error {
	if uint64(offset)+uint64(len(data)) > uint64(len(m.data)) {
		return errors.OutOfBounds(errors.PhasePlace, offset, uint32(len(data)))
	}
	copy(m.data[offset:], data)
	return nil
}

func (m *SliceMemory) ReadU8(offset uint32) (uint8, error) {
	if err := m.check(offset, 1); err != nil {
		return 0, err
	}
	return m.data[offset], nil
}

func (m *SliceMemory) ReadU16(offset uint32) (uint16, error) {
	if err := m.check(offset, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(m.data[offset:]), nil
}

func (m *SliceMemory) ReadU32(offset uint32) (uint32, error) {
	if err := m.check(offset, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(m.data[offset:]), nil
}

func (m *SliceMemory) ReadU64(offset uint32) (uint64, error) {
	if err := m.check(offset, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(m.data[offset:]), nil
}

func (m *SliceMemory) WriteU8(offset uint32, value uint8) error {
	if err := m.check(offset, 1); err != nil {
		return err
	}
	m.data[offset] = value
	return nil
}

func (m *SliceMemory) WriteU16(offset uint32, value uint16) error {
	if err := m.check(offset, 2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(m.data[offset:], value)
	return nil
}

func (m *SliceMemory) WriteU32(offset uint32, value uint32) error {
	if err := m.check(offset, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(m.data[offset:], value)
	return nil
}

func (m *SliceMemory) WriteU64(offset uint32, value uint64) error {
	if err := m.check(offset, 8); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(m.data[offset:], value)
	return nil
}
