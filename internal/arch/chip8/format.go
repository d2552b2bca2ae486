package chip8

import (
	"fmt"
	"strings"
)

// AddressFormatter returns a symbolic name for an address operand, for
// example a label. Returning false prints the address as number.
type AddressFormatter func(address uint16) (string, bool)

// String returns the canonical assembly text of the instruction.
func (i Instruction) String() string {
	return i.Format(nil)
}

// Format returns the assembly text of the instruction, using the optional
// formatter to print address operands. Invalid instructions are returned as
// a data directive that assembles to the same word.
func (i Instruction) Format(addressName AddressFormatter) string {
	info := i.Op.Info()
	if info == nil {
		return fmt.Sprintf(".word $%04X", i.Opcode)
	}

	operands := info.Operands
	// the shift source register is omitted when it is the shifted register
	if (i.Op == OpShr || i.Op == OpShl) && i.X == i.Y {
		operands = operands[:1]
	}
	if len(operands) == 0 {
		return info.Name
	}

	params := make([]string, 0, len(operands))
	for _, operand := range operands {
		params = append(params, i.formatOperand(operand, addressName))
	}
	return info.Name + " " + strings.Join(params, ", ")
}

func (i Instruction) formatOperand(operand OperandKind, addressName AddressFormatter) string {
	switch operand {
	case OperandVx:
		return fmt.Sprintf("V%X", i.X)
	case OperandVy:
		return fmt.Sprintf("V%X", i.Y)
	case OperandV0:
		return "V0"
	case OperandAddr:
		if addressName != nil {
			if name, ok := addressName(i.NNN); ok {
				return name
			}
		}
		return fmt.Sprintf("$%03X", i.NNN)
	case OperandByte:
		return fmt.Sprintf("$%02X", i.KK)
	case OperandNibble:
		return fmt.Sprintf("$%X", i.N)
	case OperandI:
		return "I"
	case OperandIndirectI:
		return "[I]"
	case OperandDT:
		return "DT"
	case OperandST:
		return "ST"
	case OperandK:
		return "K"
	case OperandF:
		return "F"
	case OperandB:
		return "B"
	default:
		return "?"
	}
}
