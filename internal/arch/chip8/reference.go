package chip8

import (
	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// referenceInstructions maps every instruction to the retrogolib CHIP-8
// instruction definition that covers it.
var referenceInstructions = map[Op]*chip8cpu.Instruction{
	OpCls:     chip8cpu.ClsInst,
	OpRet:     chip8cpu.RetInst,
	OpJp:      chip8cpu.JpInst,
	OpJpV0:    chip8cpu.JpInst,
	OpCall:    chip8cpu.CallInst,
	OpSeByte:  chip8cpu.SeInst,
	OpSeReg:   chip8cpu.SeInst,
	OpSneByte: chip8cpu.SneInst,
	OpSneReg:  chip8cpu.SneInst,
	OpLdByte:  chip8cpu.LdInst,
	OpLdReg:   chip8cpu.LdInst,
	OpLdI:     chip8cpu.LdInst,
	OpLdVxDT:  chip8cpu.LdInst,
	OpLdVxK:   chip8cpu.LdInst,
	OpLdDTVx:  chip8cpu.LdInst,
	OpLdSTVx:  chip8cpu.LdInst,
	OpLdF:     chip8cpu.LdInst,
	OpLdB:     chip8cpu.LdInst,
	OpStore:   chip8cpu.LdInst,
	OpLoad:    chip8cpu.LdInst,
	OpAddByte: chip8cpu.AddInst,
	OpAddReg:  chip8cpu.AddInst,
	OpAddI:    chip8cpu.AddInst,
	OpOr:      chip8cpu.OrInst,
	OpAnd:     chip8cpu.AndInst,
	OpXor:     chip8cpu.XorInst,
	OpSub:     chip8cpu.SubInst,
	OpSubn:    chip8cpu.SubnInst,
	OpShr:     chip8cpu.ShrInst,
	OpShl:     chip8cpu.ShlInst,
	OpRnd:     chip8cpu.RndInst,
	OpDrw:     chip8cpu.DrwInst,
	OpSkp:     chip8cpu.SkpInst,
	OpSknp:    chip8cpu.SknpInst,
}

// ReferenceOpcode looks up the instruction word in the retrogolib CHIP-8
// opcode tables.
func ReferenceOpcode(word uint16) (chip8cpu.Opcode, bool) {
	firstNibble := (word & 0xF000) >> 12
	for _, op := range chip8cpu.Opcodes[int(firstNibble)] {
		if op.Info.Mask&word == op.Info.Value {
			return op, op.Instruction != nil
		}
	}
	return chip8cpu.Opcode{}, false
}

// ReferenceInstruction returns the retrogolib instruction definition that
// corresponds to the instruction type.
func (o Op) ReferenceInstruction() (*chip8cpu.Instruction, bool) {
	ins, ok := referenceInstructions[o]
	return ins, ok
}

// MatchesReference returns whether the retrogolib opcode tables decode the
// instruction word to the same instruction. Instructions without a
// retrogolib equivalent always match.
func (i Instruction) MatchesReference() bool {
	expected, ok := i.Op.ReferenceInstruction()
	if !ok {
		return true
	}
	op, ok := ReferenceOpcode(i.Opcode)
	if !ok {
		return false
	}
	return op.Instruction == expected
}

// ReadsMemory returns whether the instruction reads from main memory.
func (o Op) ReadsMemory() bool {
	switch o {
	case OpDrw, OpLoad:
		return true
	default:
		return false
	}
}

// WritesMemory returns whether the instruction writes to main memory.
func (o Op) WritesMemory() bool {
	switch o {
	case OpLdB, OpStore:
		return true
	default:
		return false
	}
}

// ReferenceReadsMemory returns whether retrogolib classifies the
// instruction name as reading memory.
func (o Op) ReferenceReadsMemory() bool {
	ins, ok := o.ReferenceInstruction()
	return ok && chip8cpu.MemoryReadInstructions.Contains(ins.Name)
}

// ReferenceWritesMemory returns whether retrogolib classifies the
// instruction name as writing memory.
func (o Op) ReferenceWritesMemory() bool {
	ins, ok := o.ReferenceInstruction()
	return ok && chip8cpu.MemoryWriteInstructions.Contains(ins.Name)
}

// ReferenceSkip returns whether retrogolib classifies the instruction name
// as a conditional skip.
func (o Op) ReferenceSkip() bool {
	ins, ok := o.ReferenceInstruction()
	return ok && chip8cpu.SkipInstructions.Contains(ins.Name)
}

// ReferenceConflicts returns the classifications for which the instruction
// type disagrees with the retrogolib instruction categories. The categories
// are kept per instruction name, so a memory access is only checked in the
// direction of this package claiming it.
func (o Op) ReferenceConflicts() []string {
	if _, ok := o.ReferenceInstruction(); !ok {
		return nil
	}

	var conflicts []string
	if o.IsSkip() != o.ReferenceSkip() {
		conflicts = append(conflicts, "skip")
	}
	if o.ReadsMemory() && !o.ReferenceReadsMemory() {
		conflicts = append(conflicts, "memory read")
	}
	if o.WritesMemory() && !o.ReferenceWritesMemory() {
		conflicts = append(conflicts, "memory write")
	}
	return conflicts
}
