package chip8

import (
	"testing"

	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestReferenceTablesCoverAllNibbles(t *testing.T) {
	for nibble := range 16 {
		assert.NotEmpty(t, chip8cpu.Opcodes[nibble])
	}
}

func TestReferenceOpcode(t *testing.T) {
	tests := []struct {
		name     string
		word     uint16
		expected *chip8cpu.Instruction
	}{
		{"clear screen", 0x00E0, chip8cpu.ClsInst},
		{"return", 0x00EE, chip8cpu.RetInst},
		{"jump", 0x1234, chip8cpu.JpInst},
		{"call", 0x2234, chip8cpu.CallInst},
		{"skip equal", 0x3234, chip8cpu.SeInst},
		{"load index", 0xA234, chip8cpu.LdInst},
		{"draw", 0xD125, chip8cpu.DrwInst},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, ok := ReferenceOpcode(tt.word)
			assert.True(t, ok)
			assert.Equal(t, tt.expected.Name, op.Instruction.Name)
			assert.True(t, Decode(tt.word).MatchesReference())
		})
	}
}

func TestReferenceInstruction(t *testing.T) {
	ins, ok := OpJpV0.ReferenceInstruction()
	assert.True(t, ok)
	assert.Equal(t, chip8cpu.JpInst.Name, ins.Name)

	_, ok = OpSys.ReferenceInstruction()
	assert.False(t, ok)
	assert.True(t, Decode(0x0123).MatchesReference())
}

func TestReferenceClassification(t *testing.T) {
	tests := []struct {
		name  string
		op    Op
		reads bool
		skip  bool
	}{
		{"load registers", OpLoad, true, false},
		{"draw", OpDrw, true, false},
		{"jump", OpJp, false, false},
		{"call", OpCall, false, false},
		{"skip equal", OpSeByte, false, true},
		{"skip key", OpSkp, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.reads, tt.op.ReferenceReadsMemory())
			assert.Equal(t, tt.skip, tt.op.ReferenceSkip())
			assert.Equal(t, tt.skip, tt.op.IsSkip())
		})
	}

	assert.True(t, OpStore.ReferenceWritesMemory())
	assert.True(t, OpStore.WritesMemory())
	assert.False(t, OpDrw.WritesMemory())
}

func TestReferenceConflicts(t *testing.T) {
	for op := range referenceInstructions {
		t.Run(op.Name(), func(t *testing.T) {
			assert.Empty(t, op.ReferenceConflicts())
		})
	}

	assert.Empty(t, OpSys.ReferenceConflicts())
	assert.True(t, OpLdB.ReferenceReadsMemory())
	assert.False(t, OpLdB.ReadsMemory())
}
