// Package memory implements the 4KB byte-addressable CHIP-8 memory.
//
// CHIP-8 memory map:
//
//	0x000-0x04F: hexadecimal digit sprites (16 sprites of 5 bytes)
//	0x050-0x1FF: reserved for the interpreter
//	0x200-0xFFF: program and data
package memory

import (
	"errors"
	"fmt"
)

const (
	// Size is the total amount of addressable memory.
	Size = 0x1000

	// FontStart is the address of the first digit sprite.
	FontStart = 0x000

	// FontSpriteSize is the amount of bytes of a single digit sprite.
	FontSpriteSize = 5

	// ProgramStart is the address where programs are loaded and execution begins.
	ProgramStart = 0x200

	// MaxProgramSize is the largest program that fits into memory.
	MaxProgramSize = Size - ProgramStart
)

var (
	// ErrOutOfBounds is returned for an access outside of the addressable memory.
	ErrOutOfBounds = errors.New("memory access out of bounds")
	// ErrRomTooLarge is returned when a program does not fit into the program area.
	ErrRomTooLarge = errors.New("rom too large")
)

// font contains the sprites for the hexadecimal digits 0-F.
var font = [16 * FontSpriteSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the CHIP-8 main memory.
type Memory struct {
	data [Size]byte
}

// New returns a memory instance with the digit sprites installed.
func New() *Memory {
	m := &Memory{}
	m.Reset()
	return m
}

// Reset clears the memory and reinstalls the digit sprites.
func (m *Memory) Reset() {
	m.data = [Size]byte{}
	copy(m.data[FontStart:], font[:])
}

// LoadProgram copies the program into the program area. All bytes of the
// program area that are not covered by the program are cleared.
func (m *Memory) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes exceed the maximum of %d bytes",
			ErrRomTooLarge, len(program), MaxProgramSize)
	}

	clear(m.data[ProgramStart:])
	copy(m.data[ProgramStart:], program)
	return nil
}

// Read returns the byte at the given address.
func (m *Memory) Read(address uint16) (byte, error) {
	if int(address) >= Size {
		return 0, fmt.Errorf("%w: read at $%04X", ErrOutOfBounds, address)
	}
	return m.data[address], nil
}

// ReadWord returns the big-endian word starting at the given address.
func (m *Memory) ReadWord(address uint16) (uint16, error) {
	if int(address)+1 >= Size {
		return 0, fmt.Errorf("%w: word read at $%04X", ErrOutOfBounds, address)
	}
	return uint16(m.data[address])<<8 | uint16(m.data[address+1]), nil
}

// Write sets the byte at the given address.
func (m *Memory) Write(address uint16, value byte) error {
	if int(address) >= Size {
		return fmt.Errorf("%w: write at $%04X", ErrOutOfBounds, address)
	}
	m.data[address] = value
	return nil
}

// ReadRange returns a copy of length bytes starting at the given address.
func (m *Memory) ReadRange(address uint16, length int) ([]byte, error) {
	if length < 0 || int(address)+length > Size {
		return nil, fmt.Errorf("%w: read of %d bytes at $%04X", ErrOutOfBounds, length, address)
	}
	buf := make([]byte, length)
	copy(buf, m.data[address:])
	return buf, nil
}

// WriteRange copies data into memory starting at the given address.
// Nothing is written if the range does not fit.
func (m *Memory) WriteRange(address uint16, data []byte) error {
	if int(address)+len(data) > Size {
		return fmt.Errorf("%w: write of %d bytes at $%04X", ErrOutOfBounds, len(data), address)
	}
	copy(m.data[address:], data)
	return nil
}

// Snapshot returns a copy of the whole memory.
func (m *Memory) Snapshot() [Size]byte {
	return m.data
}

// FontAddress returns the address of the sprite for the given hexadecimal digit.
func FontAddress(digit byte) uint16 {
	return FontStart + uint16(digit&0x0F)*FontSpriteSize
}
