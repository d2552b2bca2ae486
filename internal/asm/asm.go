package asm

import (
	"fmt"
	"math/bits"

	"github.com/pkg/errors"
	"github.com/retroenv/chip8vm/internal/arch/chip8"
	"github.com/retroenv/chip8vm/internal/memory"
)

// Directive names.
const (
	directiveByte  = ".byte"
	directiveWord  = ".word"
	directiveAlign = ".align"
	directivePad   = ".pad"
	directiveEqu   = ".equ"
)

var directiveAliases = map[string]string{
	"db": directiveByte,
	"dw": directiveWord,
}

// assembler holds the state of a single assembly run.
type assembler struct {
	statements []*statement
	symbols    map[string]int
	origin     uint16
}

// Assemble translates the source into a program that is loaded at the
// program start address. Labels can be referenced before their definition.
// The first error stops the assembly and is returned as *Error.
func Assemble(source []byte) ([]byte, error) {
	statements, err := parse(source)
	if err != nil {
		return nil, err
	}

	a := &assembler{
		statements: statements,
		symbols:    map[string]int{},
		origin:     memory.ProgramStart,
	}

	size, err := a.assignAddresses()
	if err != nil {
		return nil, err
	}
	return a.emit(size)
}

// assignAddresses is the first pass, it defines all symbols and returns the
// size of the program.
func (a *assembler) assignAddresses() (int, error) {
	address := int(a.origin)

	for _, st := range a.statements {
		for _, label := range st.labels {
			if err := a.define(label, address); err != nil {
				return 0, newError(st.line, st.source, err)
			}
		}

		st.address = uint16(address)
		size, err := a.statementSize(st)
		if err != nil {
			return 0, newError(st.line, st.source, err)
		}
		st.size = size

		address += size
		if address > memory.Size {
			return 0, newError(st.line, st.source, errors.Wrapf(ErrProgramTooLarge,
				"program exceeds %d bytes", memory.MaxProgramSize))
		}
	}

	return address - int(a.origin), nil
}

func (a *assembler) define(name string, value int) error {
	if isReserved(name) {
		return errors.Wrapf(ErrInvalidOperand, "'%s' is a reserved name", name)
	}
	if _, ok := a.symbols[name]; ok {
		return errors.Wrapf(ErrDuplicateLabel, "'%s'", name)
	}
	a.symbols[name] = value
	return nil
}

// statementSize returns the amount of bytes that the statement occupies.
func (a *assembler) statementSize(st *statement) (int, error) {
	switch a.directive(st.mnemonic) {
	case "":
		if st.mnemonic == "" {
			return 0, nil
		}
		if len(chip8.Lookup(st.mnemonic)) == 0 {
			return 0, errors.Wrapf(ErrUnknownMnemonic, "'%s'", st.mnemonic)
		}
		return chip8.InstructionSize, nil

	case directiveByte:
		return a.dataSize(st, 1)

	case directiveWord:
		return a.dataSize(st, 2)

	case directiveAlign:
		boundary, err := a.constantOperand(st)
		if err != nil {
			return 0, err
		}
		if boundary == 0 || bits.OnesCount(uint(boundary)) != 1 {
			return 0, errors.Wrapf(ErrInvalidOperand, "alignment %d is not a power of two", boundary)
		}
		address := int(st.address)
		return (boundary - address%boundary) % boundary, nil

	case directivePad:
		return a.constantOperand(st)

	case directiveEqu:
		if len(st.operands) != 2 || st.operands[0].typ != operandValue || !isIdentifier(st.operands[0].text) {
			return 0, errors.Wrapf(ErrInvalidOperand, "expected .equ name, value")
		}
		value, err := a.value(st.operands[1], true)
		if err != nil {
			return 0, err
		}
		return 0, a.define(st.operands[0].text, value)

	default:
		return 0, errors.Wrapf(ErrUnknownMnemonic, "directive '%s'", st.mnemonic)
	}
}

func (a *assembler) directive(mnemonic string) string {
	if alias, ok := directiveAliases[mnemonic]; ok {
		return alias
	}
	if len(mnemonic) > 0 && mnemonic[0] == '.' {
		return mnemonic
	}
	return ""
}

func (a *assembler) dataSize(st *statement, width int) (int, error) {
	if len(st.operands) == 0 {
		return 0, errors.Wrapf(ErrInvalidOperand, "%s without values", st.mnemonic)
	}
	for _, op := range st.operands {
		if op.typ != operandValue {
			return 0, errors.Wrapf(ErrInvalidOperand, "data values have to be numbers or labels")
		}
	}
	return len(st.operands) * width, nil
}

// constantOperand returns the value of the single operand of a directive that
// changes the size of the program, it can only reference earlier symbols.
func (a *assembler) constantOperand(st *statement) (int, error) {
	if len(st.operands) != 1 {
		return 0, errors.Wrapf(ErrInvalidOperand, "%s expects one value", st.mnemonic)
	}
	return a.value(st.operands[0], true)
}

// value resolves a numeric operand. In the first pass only symbols that are
// already defined can be used.
func (a *assembler) value(op operand, firstPass bool) (int, error) {
	if op.typ != operandValue {
		return 0, errors.Wrapf(ErrInvalidOperand, "expected a value")
	}
	if number, ok := parseNumber(op.text); ok {
		return number, nil
	}
	if !isIdentifier(op.text) {
		return 0, errors.Wrapf(ErrInvalidOperand, "'%s'", op.text)
	}

	value, ok := a.symbols[op.text]
	if !ok {
		if firstPass {
			return 0, errors.Wrapf(ErrUndefinedLabel, "'%s' has to be defined before its use here", op.text)
		}
		return 0, errors.Wrapf(ErrUndefinedLabel, "'%s'", op.text)
	}
	return value, nil
}

// emit is the second pass, it encodes all statements into the program buffer.
func (a *assembler) emit(size int) ([]byte, error) {
	program := make([]byte, size)

	for _, st := range a.statements {
		offset := int(st.address - a.origin)
		buf := program[offset : offset+st.size]

		if err := a.encodeStatement(st, buf); err != nil {
			return nil, newError(st.line, st.source, err)
		}
	}
	return program, nil
}

func (a *assembler) encodeStatement(st *statement, buf []byte) error {
	switch a.directive(st.mnemonic) {
	case "":
		if st.mnemonic == "" {
			return nil
		}
		ins, err := a.instruction(st)
		if err != nil {
			return err
		}
		data, err := ins.Bytes()
		if err != nil {
			return fmt.Errorf("encoding instruction: %w", err)
		}
		copy(buf, data)
		return nil

	case directiveByte:
		for i, op := range st.operands {
			value, err := a.rangedValue(op, 0xFF)
			if err != nil {
				return err
			}
			buf[i] = byte(value)
		}
		return nil

	case directiveWord:
		for i, op := range st.operands {
			value, err := a.rangedValue(op, 0xFFFF)
			if err != nil {
				return err
			}
			buf[2*i] = byte(value >> 8)
			buf[2*i+1] = byte(value)
		}
		return nil

	default:
		// .align and .pad fill with zeros, .equ occupies no space
		return nil
	}
}

func (a *assembler) rangedValue(op operand, maximum int) (int, error) {
	value, err := a.value(op, false)
	if err != nil {
		return 0, err
	}
	if value > maximum {
		return 0, errors.Wrapf(ErrInvalidOperand, "value $%X exceeds $%X", value, maximum)
	}
	return value, nil
}

// instruction finds the instruction that matches the mnemonic and operands.
func (a *assembler) instruction(st *statement) (chip8.Instruction, error) {
	candidates := chip8.Lookup(st.mnemonic)

	for _, info := range candidates {
		ins, ok, err := a.match(info, st.operands)
		if err != nil {
			return chip8.Instruction{}, err
		}
		if ok {
			return ins, nil
		}
	}
	return chip8.Instruction{}, errors.Wrapf(ErrInvalidOperand,
		"no form of '%s' accepts these operands", st.mnemonic)
}

// match tries to encode the operands for the given instruction form.
func (a *assembler) match(info *chip8.OpcodeInfo, operands []operand) (chip8.Instruction, bool, error) {
	forms := info.Operands
	ins := chip8.Instruction{Op: info.Op}

	// the shift instructions accept a single register that is also the source
	shortShift := (info.Op == chip8.OpShr || info.Op == chip8.OpShl) && len(operands) == 1
	if shortShift {
		forms = forms[:1]
	}
	if len(forms) != len(operands) {
		return ins, false, nil
	}

	for i, form := range forms {
		op := operands[i]
		switch {
		case form.IsRegister():
			if op.typ != operandRegister || (form == chip8.OperandV0 && op.register != 0) {
				return ins, false, nil
			}
			if form == chip8.OperandVx {
				ins.X = op.register
			} else {
				ins.Y = op.register
			}

		case form.IsValue():
			if op.typ != operandValue {
				return ins, false, nil
			}
			if err := a.setValue(&ins, form, op); err != nil {
				return ins, false, err
			}

		default:
			if op.typ != operandKeyword || op.keyword != form {
				return ins, false, nil
			}
		}
	}

	if shortShift {
		ins.Y = ins.X
	}
	return ins, true, nil
}

func (a *assembler) setValue(ins *chip8.Instruction, form chip8.OperandKind, op operand) error {
	switch form {
	case chip8.OperandAddr:
		value, err := a.rangedValue(op, 0x0FFF)
		if err != nil {
			return err
		}
		ins.NNN = uint16(value)
	case chip8.OperandByte:
		value, err := a.rangedValue(op, 0xFF)
		if err != nil {
			return err
		}
		ins.KK = uint8(value)
	case chip8.OperandNibble:
		value, err := a.rangedValue(op, 0x0F)
		if err != nil {
			return err
		}
		ins.N = uint8(value)
	}
	return nil
}
