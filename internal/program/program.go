// Package program represents a disassembled CHIP-8 program.
package program

import (
	"fmt"
	"strings"
)

// Offset defines the content of an offset in a program that can represent data or code.
type Offset struct {
	Address uint16 // memory address of the offset
	Data    []byte // data byte or all opcode bytes, empty for the second byte of an instruction

	Type OffsetType

	Label   string // name of label if identified as a jump, call or data destination
	Code    string // asm output of this instruction
	Comment string
}

// HexCodeComment returns the data bytes of the offset as hex string.
func (o *Offset) HexCodeComment() (string, error) {
	buf := &strings.Builder{}

	for i, b := range o.Data {
		if i > 0 {
			if err := buf.WriteByte(' '); err != nil {
				return "", fmt.Errorf("writing separator: %w", err)
			}
		}
		if _, err := fmt.Fprintf(buf, "%02X", b); err != nil {
			return "", fmt.Errorf("writing hex byte: %w", err)
		}
	}

	return buf.String(), nil
}

// Program defines a CHIP-8 program that contains code or data.
type Program struct {
	Offsets []Offset // one entry per ROM byte

	CodeBaseAddress uint16
	Checksum        uint32 // CRC32 checksum of the ROM
}

// New creates a new program with an offset for every ROM byte. Every
// offset is initialized as data.
func New(rom []byte, codeBaseAddress uint16) *Program {
	p := &Program{
		Offsets:         make([]Offset, len(rom)),
		CodeBaseAddress: codeBaseAddress,
	}
	for i, b := range rom {
		p.Offsets[i] = Offset{
			Address: codeBaseAddress + uint16(i),
			Data:    []byte{b},
		}
	}
	return p
}

// OffsetInfo returns the offset for the given memory address or nil if the
// address is outside of the program.
func (p *Program) OffsetInfo(address uint16) *Offset {
	if address < p.CodeBaseAddress {
		return nil
	}
	index := int(address - p.CodeBaseAddress)
	if index >= len(p.Offsets) {
		return nil
	}
	return &p.Offsets[index]
}

// CodeInstructions returns the number of instructions that were identified as code.
func (p *Program) CodeInstructions() int {
	count := 0
	for i := range p.Offsets {
		offset := &p.Offsets[i]
		if offset.IsType(CodeOffset) && len(offset.Data) > 0 {
			count++
		}
	}
	return count
}
