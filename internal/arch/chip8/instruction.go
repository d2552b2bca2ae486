package chip8

import (
	"errors"
	"fmt"
)

// InstructionSize is the size of every instruction in bytes.
const InstructionSize = 2

// ErrInvalidOperand is returned when an operand value does not fit its field.
var ErrInvalidOperand = errors.New("invalid operand")

// Instruction is a decoded instruction with all opcode fields extracted.
// Only the fields used by the operands of Op are meaningful.
type Instruction struct {
	Op     Op
	Opcode uint16 // raw instruction word

	X   uint8  // register nibble x
	Y   uint8  // register nibble y
	N   uint8  // 4 bit immediate
	KK  uint8  // 8 bit immediate
	NNN uint16 // 12 bit address
}

// Decode decodes an instruction word. Words that do not match any
// instruction result in an instruction of type OpInvalid.
func Decode(word uint16) Instruction {
	ins := Instruction{
		Opcode: word,
		X:      extractRegisterX(word),
		Y:      extractRegisterY(word),
		N:      uint8(word & 0x000F),
		KK:     uint8(word & 0x00FF),
		NNN:    word & 0x0FFF,
	}

	for _, info := range opcodesByNibble[word>>12] {
		if word&info.Mask == info.Value {
			ins.Op = info.Op
			return ins
		}
	}

	ins.Op = OpInvalid
	return ins
}

// DecodeBytes decodes the big-endian instruction word from the first two bytes.
func DecodeBytes(data []byte) (Instruction, bool) {
	if len(data) < InstructionSize {
		return Instruction{}, false
	}
	return Decode(uint16(data[0])<<8 | uint16(data[1])), true
}

// Valid returns whether the instruction was decoded to a known instruction.
func (i Instruction) Valid() bool {
	return i.Op != OpInvalid
}

// Encode returns the instruction word built from the operand fields.
// Fields that are not used by the instruction are ignored.
func (i Instruction) Encode() (uint16, error) {
	info := i.Op.Info()
	if info == nil {
		return 0, fmt.Errorf("encoding invalid instruction $%04X", i.Opcode)
	}

	word := info.Value
	for _, operand := range info.Operands {
		switch operand {
		case OperandVx:
			if i.X > 0xF {
				return 0, fmt.Errorf("%w: register V%d", ErrInvalidOperand, i.X)
			}
			word |= uint16(i.X) << 8
		case OperandVy:
			if i.Y > 0xF {
				return 0, fmt.Errorf("%w: register V%d", ErrInvalidOperand, i.Y)
			}
			word |= uint16(i.Y) << 4
		case OperandAddr:
			if i.NNN > 0x0FFF {
				return 0, fmt.Errorf("%w: address $%X exceeds 12 bits", ErrInvalidOperand, i.NNN)
			}
			word |= i.NNN
		case OperandByte:
			word |= uint16(i.KK)
		case OperandNibble:
			if i.N > 0xF {
				return 0, fmt.Errorf("%w: nibble $%X exceeds 4 bits", ErrInvalidOperand, i.N)
			}
			word |= uint16(i.N)
		}
	}
	return word, nil
}

// Bytes returns the big-endian encoding of the instruction.
func (i Instruction) Bytes() ([]byte, error) {
	word, err := i.Encode()
	if err != nil {
		return nil, err
	}
	return []byte{byte(word >> 8), byte(word)}, nil
}

// extractRegisterX extracts the X register nibble from a CHIP-8 opcode.
func extractRegisterX(opcode uint16) uint8 {
	return uint8((opcode & 0x0F00) >> 8)
}

// extractRegisterY extracts the Y register nibble from a CHIP-8 opcode.
func extractRegisterY(opcode uint16) uint8 {
	return uint8((opcode & 0x00F0) >> 4)
}
