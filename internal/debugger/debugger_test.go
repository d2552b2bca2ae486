package debugger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/retroenv/chip8vm/internal/cpu"
	"github.com/retroenv/chip8vm/internal/display"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func program(words ...uint16) []byte {
	data := make([]byte, 0, len(words)*2)
	for _, w := range words {
		data = append(data, byte(w>>8), byte(w))
	}
	return data
}

func newTestDebugger(t *testing.T, options []Option, words ...uint16) *Debugger {
	t.Helper()
	d := New(log.NewTestLogger(t), cpu.NewWithDevices(cpu.WithSeed(1)), options...)
	assert.NoError(t, d.Load(program(words...)))
	return d
}

func TestStep(t *testing.T) {
	d := newTestDebugger(t, nil, 0x6005, 0x7001)

	assert.NoError(t, d.Step())
	assert.Equal(t, uint16(0x202), d.CPU().PC())
	assert.NoError(t, d.Step())
	assert.Equal(t, uint8(6), d.CPU().Snapshot().V[0])
}

func TestStepWithoutProgram(t *testing.T) {
	d := New(log.NewTestLogger(t), cpu.NewWithDevices())
	assert.True(t, errors.Is(d.Step(), cpu.ErrNoProgram))
}

func TestHeldKeysCompleteKeyWait(t *testing.T) {
	c := cpu.NewWithDevices()
	assert.NoError(t, c.Keys().Press(0xA))
	assert.NoError(t, c.Keys().Press(0x5))
	d := New(log.NewTestLogger(t), c, WithHeldKeys([]uint8{0xA, 0x5}))
	assert.NoError(t, d.Load(program(0xF10A, 0x1202)))

	// keys held since power-on are no new press for the key wait
	assert.NoError(t, d.Step())
	assert.Equal(t, cpu.AwaitingKey, c.State())
	assert.NoError(t, d.Step())
	assert.False(t, c.Keys().IsPressed(0x5))
	assert.Equal(t, cpu.AwaitingKey, c.State())

	assert.NoError(t, d.Step())
	assert.Equal(t, cpu.Running, c.State())
	assert.Equal(t, uint16(0x202), c.PC())
	assert.Equal(t, uint8(0x5), c.Snapshot().V[1])
	assert.True(t, c.Keys().IsPressed(0x5))
	assert.True(t, c.Keys().IsPressed(0xA))
}

func TestKeyWaitWithoutHeldKeys(t *testing.T) {
	c := cpu.NewWithDevices()
	assert.NoError(t, c.Keys().Press(0x5))
	d := New(log.NewTestLogger(t), c)
	assert.NoError(t, d.Load(program(0xF10A)))

	result, err := d.RunUntilBreakpoint(context.Background(), 10)
	assert.NoError(t, err)
	assert.Equal(t, StopLimit, result.Reason)
	assert.Equal(t, cpu.AwaitingKey, c.State())
	assert.True(t, c.Keys().IsPressed(0x5))
}

func TestBreakpoints(t *testing.T) {
	d := newTestDebugger(t, nil)

	assert.NoError(t, d.SetBreakpoint(0x300))
	assert.NoError(t, d.SetBreakpoint(0x208))
	assert.NoError(t, d.SetBreakpoint(0x208))
	assert.Equal(t, []uint16{0x208, 0x300}, d.Breakpoints())

	assert.True(t, d.ClearBreakpoint(0x300))
	assert.False(t, d.ClearBreakpoint(0x300))
	assert.Equal(t, []uint16{0x208}, d.Breakpoints())

	err := d.SetBreakpoint(0xFFF)
	assert.True(t, errors.Is(err, ErrInvalidBreakpoint))
	assert.NoError(t, d.SetBreakpoint(0xFFE))
}

func TestRunUntilBreakpoint(t *testing.T) {
	// loop: add V0, 1 / jp loop
	d := newTestDebugger(t, nil, 0x7001, 0x1200)
	assert.NoError(t, d.SetBreakpoint(0x200))

	result, err := d.RunUntilBreakpoint(context.Background(), 100)
	assert.NoError(t, err)
	assert.Equal(t, StopBreakpoint, result.Reason)
	assert.Equal(t, 2, result.Steps)
	assert.Equal(t, uint16(0x200), result.PC)
	assert.Equal(t, uint8(1), d.CPU().Snapshot().V[0])

	// continuing from the breakpoint executes the next loop iteration
	result, err = d.RunUntilBreakpoint(context.Background(), 100)
	assert.NoError(t, err)
	assert.Equal(t, StopBreakpoint, result.Reason)
	assert.Equal(t, uint8(2), d.CPU().Snapshot().V[0])

	assert.True(t, d.ClearBreakpoint(0x200))
	result, err = d.RunUntilBreakpoint(context.Background(), 10)
	assert.NoError(t, err)
	assert.Equal(t, StopLimit, result.Reason)
	assert.Equal(t, 10, result.Steps)
}

func TestRunUntilBreakpointError(t *testing.T) {
	d := newTestDebugger(t, nil, 0x6001, 0x00EE)

	result, err := d.RunUntilBreakpoint(context.Background(), 0)
	assert.True(t, errors.Is(err, cpu.ErrStackUnderflow))
	assert.Equal(t, StopError, result.Reason)
	assert.Equal(t, 1, result.Steps)
	assert.Equal(t, uint16(0x202), result.PC)
	assert.True(t, d.CPU().Halted())

	assert.NoError(t, d.Reset())
	assert.False(t, d.CPU().Halted())
}

func TestRunUntilBreakpointCanceled(t *testing.T) {
	d := newTestDebugger(t, nil, 0x1200)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := d.RunUntilBreakpoint(ctx, 0)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, StopCanceled, result.Reason)
	assert.Equal(t, 0, result.Steps)
}

func TestLogicalClock(t *testing.T) {
	// 120 instructions per second tick the timers every 2 steps
	d := newTestDebugger(t, []Option{WithSpeed(120)}, 0x600A, 0xF015, 0x1204)

	_, err := d.RunUntilBreakpoint(context.Background(), 2)
	assert.NoError(t, err)
	assert.Equal(t, uint8(9), d.CPU().Timers().Delay())

	_, err = d.RunUntilBreakpoint(context.Background(), 4)
	assert.NoError(t, err)
	assert.Equal(t, uint8(7), d.CPU().Timers().Delay())

	_, err = d.RunUntilBreakpoint(context.Background(), 100)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), d.CPU().Timers().Delay())
}

func TestTimersRunWhileWaitingForKey(t *testing.T) {
	d := newTestDebugger(t, []Option{WithSpeed(60)}, 0x6005, 0xF015, 0xF00A)

	_, err := d.RunUntilBreakpoint(context.Background(), 3)
	assert.NoError(t, err)
	assert.Equal(t, cpu.AwaitingKey, d.CPU().State())
	delay := d.CPU().Timers().Delay()

	_, err = d.RunUntilBreakpoint(context.Background(), 2)
	assert.NoError(t, err)
	assert.Equal(t, delay-2, d.CPU().Timers().Delay())
	assert.Equal(t, uint16(0x204), d.CPU().PC())
}

func TestResetKeepsBreakpoints(t *testing.T) {
	d := newTestDebugger(t, nil, 0x6005, 0x1202)
	assert.NoError(t, d.SetBreakpoint(0x202))

	_, err := d.RunUntilBreakpoint(context.Background(), 10)
	assert.NoError(t, err)

	assert.NoError(t, d.Reset())
	assert.Equal(t, uint16(0x200), d.CPU().PC())
	assert.Equal(t, uint8(0), d.CPU().Snapshot().V[0])
	assert.Equal(t, []uint16{0x202}, d.Breakpoints())
}

func TestLoadTooLarge(t *testing.T) {
	d := newTestDebugger(t, nil, 0x1200)
	err := d.Load(make([]byte, 0x1000))
	assert.Error(t, err)
	assert.Equal(t, cpu.Running, d.CPU().State())
}

func TestRunRealtime(t *testing.T) {
	var frames int
	handler := func(frame display.Frame) {
		frames++
		assert.True(t, frame[0][0])
	}

	// draw the font sprite of 0, then loop until the breakpoint is reached
	d := newTestDebugger(t, []Option{WithSpeed(600), WithFrameHandler(handler)},
		0xD015, 0x7101, 0x3164, 0x1202, 0x1208)
	assert.NoError(t, d.SetBreakpoint(0x208))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := d.RunRealtime(ctx)
	assert.NoError(t, err)
	assert.Equal(t, StopBreakpoint, result.Reason)
	assert.Equal(t, uint16(0x208), result.PC)
	assert.Equal(t, 1, frames)
}

func TestRunRealtimeCanceled(t *testing.T) {
	d := newTestDebugger(t, nil, 0x1200)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	result, err := d.RunRealtime(ctx)
	assert.NoError(t, err)
	assert.Equal(t, StopCanceled, result.Reason)
}

func TestListing(t *testing.T) {
	d := newTestDebugger(t, nil, 0x6A02, 0x8AB4)

	lines, err := d.Listing(2)
	assert.NoError(t, err)
	assert.Len(t, lines, 2)
	assert.Equal(t, "ld VA, $02", lines[0].Instruction.String())

	assert.NoError(t, d.Step())
	lines, err = d.Listing(1)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x202), lines[0].Address)
}

func TestStopReasonString(t *testing.T) {
	assert.Equal(t, "breakpoint", StopBreakpoint.String())
	assert.Equal(t, "canceled", StopCanceled.String())
	assert.Equal(t, "unknown", StopReason(0).String())
}
