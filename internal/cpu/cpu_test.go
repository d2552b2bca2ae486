package cpu

import (
	"errors"
	"testing"

	"github.com/retroenv/chip8vm/internal/memory"
	"github.com/retroenv/retrogolib/assert"
)

// newTestCPU returns a CPU with the given instruction words loaded.
func newTestCPU(t *testing.T, words ...uint16) *CPU {
	t.Helper()
	c := NewWithDevices(WithSeed(1))
	assert.NoError(t, c.LoadROM(program(words...)))
	return c
}

func program(words ...uint16) []byte {
	data := make([]byte, 0, len(words)*2)
	for _, w := range words {
		data = append(data, byte(w>>8), byte(w))
	}
	return data
}

// run executes the given number of steps and fails on any error.
func run(t *testing.T, c *CPU, steps int) {
	t.Helper()
	for range steps {
		assert.NoError(t, c.Step())
	}
}

func TestNewIsIdle(t *testing.T) {
	c := NewWithDevices()
	assert.Equal(t, Idle, c.State())
	assert.True(t, errors.Is(c.Step(), ErrNoProgram))
	assert.Equal(t, uint16(memory.ProgramStart), c.PC())
}

func TestLoadROM(t *testing.T) {
	c := NewWithDevices()

	err := c.LoadROM(make([]byte, memory.MaxProgramSize))
	assert.NoError(t, err)
	assert.Equal(t, Running, c.State())

	err = c.LoadROM(make([]byte, memory.MaxProgramSize+1))
	assert.True(t, errors.Is(err, memory.ErrRomTooLarge))
	assert.Equal(t, Running, c.State())
}

func TestLoadROMResetsState(t *testing.T) {
	c := newTestCPU(t, 0x6A05, 0xA300, 0xD001)
	run(t, c, 3)
	c.Timers().SetDelay(5)

	assert.NoError(t, c.LoadROM(program(0x1200)))
	snap := c.Snapshot()
	assert.Equal(t, uint8(0), snap.V[0xA])
	assert.Equal(t, uint16(0), snap.I)
	assert.Equal(t, uint16(0x200), snap.PC)
	assert.Equal(t, uint8(0), snap.Delay)
	assert.Equal(t, 0, c.Display().Lit())

	// bytes of the previous program are cleared
	b, err := c.Memory().Read(0x202)
	assert.NoError(t, err)
	assert.Equal(t, byte(0), b)
}

func TestResetRestoresProgram(t *testing.T) {
	c := newTestCPU(t, 0xA202, 0x6007, 0xF055)
	run(t, c, 3)

	// the program overwrote its own second instruction
	b, err := c.Memory().Read(0x202)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x07), b)

	assert.NoError(t, c.Keys().Press(3))
	assert.NoError(t, c.Reset())

	b, err = c.Memory().Read(0x202)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x60), b)
	assert.Equal(t, uint16(0x200), c.PC())
	assert.Equal(t, uint64(0), c.Snapshot().Cycles)
	assert.True(t, c.Keys().IsPressed(3))
}

func TestFatalErrorHalts(t *testing.T) {
	c := newTestCPU(t, 0x6001, 0x5001)
	run(t, c, 1)

	err := c.Step()
	assert.True(t, errors.Is(err, ErrInvalidOpcode))
	var cpuErr *Error
	assert.True(t, errors.As(err, &cpuErr))
	assert.Equal(t, uint16(0x202), cpuErr.PC)
	assert.Equal(t, uint16(0x5001), cpuErr.Opcode)
	assert.True(t, IsFatal(err))

	assert.Equal(t, Halted, c.State())
	assert.True(t, c.Halted())
	assert.Equal(t, uint16(0x202), c.PC())

	// further steps have no effect
	err = c.Step()
	assert.True(t, errors.Is(err, ErrHalted))
	assert.True(t, errors.Is(err, ErrInvalidOpcode))
	assert.Equal(t, uint16(0x202), c.PC())

	assert.NoError(t, c.Reset())
	assert.Equal(t, Running, c.State())
	assert.Nil(t, c.Err())
	assert.NoError(t, c.Step())
}

func TestFetchOutOfBounds(t *testing.T) {
	// the zero word at $FFE is an ignored sys call
	c := newTestCPU(t, 0x1FFE)
	run(t, c, 2)

	err := c.Step()
	assert.True(t, errors.Is(err, memory.ErrOutOfBounds))
	assert.Equal(t, Halted, c.State())
}

func TestSnapshotIsCopy(t *testing.T) {
	c := newTestCPU(t, 0x6042)
	run(t, c, 1)

	snap := c.Snapshot()
	snap.V[0] = 0
	assert.Equal(t, uint8(0x42), c.Snapshot().V[0])
	assert.Equal(t, uint64(1), c.Snapshot().Cycles)
	assert.Equal(t, "running", c.Snapshot().State.String())
}

func TestQuirksByName(t *testing.T) {
	tests := []struct {
		name    string
		want    Quirks
		wantErr bool
	}{
		{name: "", want: QuirksVIP},
		{name: "vip", want: QuirksVIP},
		{name: "CHIP48", want: QuirksCHIP48},
		{name: "schip", want: QuirksCHIP48},
		{name: "xo", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := QuirksByName(tt.name)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownQuirks))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
