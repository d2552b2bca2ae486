// Package debugger implements the debug control surface of the virtual
// machine: stepping, running until a breakpoint and resetting.
package debugger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/chip8vm/internal/cpu"
	"github.com/retroenv/chip8vm/internal/disasm"
	"github.com/retroenv/chip8vm/internal/display"
	"github.com/retroenv/chip8vm/internal/memory"
	"github.com/retroenv/chip8vm/internal/timer"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// ErrInvalidBreakpoint is returned for a breakpoint address outside of memory.
var ErrInvalidBreakpoint = errors.New("invalid breakpoint")

// DefaultSpeed is the default number of instructions executed per second.
const DefaultSpeed = 700

// StopReason describes why a run ended.
type StopReason uint8

// Stop reasons.
const (
	StopBreakpoint StopReason = iota + 1 // the program counter reached a breakpoint
	StopLimit                            // the step limit was reached
	StopError                            // the CPU halted with a fatal error
	StopCanceled                         // the context was canceled
)

func (r StopReason) String() string {
	switch r {
	case StopBreakpoint:
		return "breakpoint"
	case StopLimit:
		return "limit"
	case StopError:
		return "error"
	case StopCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Result is the outcome of a run.
type Result struct {
	Reason StopReason
	Steps  int    // executed steps
	PC     uint16 // program counter after the run
}

// FrameHandler is called after every 60 Hz frame of a real-time run in
// which the display changed.
type FrameHandler func(frame display.Frame)

// Debugger drives a CPU with a logical clock that ticks the timers at 60 Hz
// relative to the configured instruction speed.
type Debugger struct {
	logger *log.Logger
	cpu    *cpu.CPU

	breakpoints set.Set[uint16]

	speed          int // instructions per second
	stepsPerTick   int
	stepsSinceTick int

	onFrame FrameHandler

	heldKeys     []uint8
	heldReleased bool // held keys are released for the pending key wait
}

// Option configures a debugger.
type Option func(*Debugger)

// WithSpeed sets the number of instructions executed per second.
func WithSpeed(instructionsPerSecond int) Option {
	return func(d *Debugger) {
		if instructionsPerSecond > 0 {
			d.speed = instructionsPerSecond
		}
	}
}

// WithFrameHandler sets the handler that receives changed frames during a
// real-time run.
func WithFrameHandler(handler FrameHandler) Option {
	return func(d *Debugger) {
		d.onFrame = handler
	}
}

// WithHeldKeys sets the keys that are held down during a headless run. While
// the CPU waits for a key press the keys are released for one step and
// pressed again, which completes the wait with the lowest held key.
func WithHeldKeys(keys []uint8) Option {
	return func(d *Debugger) {
		d.heldKeys = keys
	}
}

// New returns a new debugger for the given CPU.
func New(logger *log.Logger, c *cpu.CPU, options ...Option) *Debugger {
	d := &Debugger{
		logger:      logger,
		cpu:         c,
		breakpoints: set.New[uint16](),
		speed:       DefaultSpeed,
	}
	for _, option := range options {
		option(d)
	}
	d.stepsPerTick = max(1, d.speed/timer.Frequency)
	return d
}

// CPU returns the debugged CPU.
func (d *Debugger) CPU() *cpu.CPU {
	return d.cpu
}

// Load loads a new program and resets the logical clock.
func (d *Debugger) Load(rom []byte) error {
	if err := d.cpu.LoadROM(rom); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	d.stepsSinceTick = 0
	if err := d.restoreHeldKeys(); err != nil {
		return err
	}
	d.logger.Debug("Program loaded", log.Int("size", len(rom)))
	return nil
}

// Reset restores the power-on state and reloads the current program.
// Breakpoints are kept.
func (d *Debugger) Reset() error {
	if err := d.cpu.Reset(); err != nil {
		return fmt.Errorf("resetting cpu: %w", err)
	}
	d.stepsSinceTick = 0
	if err := d.restoreHeldKeys(); err != nil {
		return err
	}
	d.logger.Debug("Machine reset")
	return nil
}

// SetBreakpoint adds a breakpoint at the given address.
func (d *Debugger) SetBreakpoint(address uint16) error {
	if int(address) >= memory.Size-1 {
		return fmt.Errorf("%w: $%04X is outside of memory", ErrInvalidBreakpoint, address)
	}
	d.breakpoints.Add(address)
	d.logger.Debug("Breakpoint set", log.Hex("address", address))
	return nil
}

// ClearBreakpoint removes the breakpoint at the given address, it returns
// whether a breakpoint existed.
func (d *Debugger) ClearBreakpoint(address uint16) bool {
	if !d.breakpoints.Contains(address) {
		return false
	}
	delete(d.breakpoints, address)
	d.logger.Debug("Breakpoint cleared", log.Hex("address", address))
	return true
}

// Breakpoints returns all breakpoint addresses in ascending order.
func (d *Debugger) Breakpoints() []uint16 {
	return set.Sorted(d.breakpoints)
}

// Step executes a single CPU step and advances the logical clock. Steps
// that wait for a key press also advance the clock.
func (d *Debugger) Step() error {
	if err := d.cycleHeldKeys(); err != nil {
		return err
	}
	if err := d.cpu.Step(); err != nil {
		return err
	}

	d.stepsSinceTick++
	if d.stepsSinceTick >= d.stepsPerTick {
		d.stepsSinceTick = 0
		d.cpu.Timers().Tick()
	}
	return nil
}

// cycleHeldKeys releases the held keys for the first step of a key wait and
// presses them again on the following step.
func (d *Debugger) cycleHeldKeys() error {
	if len(d.heldKeys) == 0 || d.cpu.State() != cpu.AwaitingKey {
		return nil
	}
	if !d.heldReleased {
		d.cpu.Keys().ReleaseAll()
		d.heldReleased = true
		return nil
	}
	return d.restoreHeldKeys()
}

func (d *Debugger) restoreHeldKeys() error {
	if !d.heldReleased {
		return nil
	}
	for _, key := range d.heldKeys {
		if err := d.cpu.Keys().Press(key); err != nil {
			return fmt.Errorf("pressing held key: %w", err)
		}
	}
	d.heldReleased = false
	return nil
}

// RunUntilBreakpoint steps the CPU until the program counter reaches a
// breakpoint, the step limit is reached or an error occurs. A limit of 0
// runs until a breakpoint, an error or the cancellation of the context.
// The first step is always executed, which allows continuing from a
// breakpoint.
func (d *Debugger) RunUntilBreakpoint(ctx context.Context, limit int) (Result, error) {
	var result Result

	for limit <= 0 || result.Steps < limit {
		if err := ctx.Err(); err != nil {
			result.Reason = StopCanceled
			result.PC = d.cpu.PC()
			return result, fmt.Errorf("running: %w", err)
		}

		if err := d.Step(); err != nil {
			result.Reason = StopError
			result.PC = d.cpu.PC()
			if d.cpu.Halted() {
				d.logger.Debug("CPU halted", log.Hex("pc", result.PC), log.Err(err))
			}
			return result, err
		}
		result.Steps++

		if d.breakpoints.Contains(d.cpu.PC()) {
			result.Reason = StopBreakpoint
			result.PC = d.cpu.PC()
			d.logger.Debug("Breakpoint hit", log.Hex("pc", result.PC), log.Int("steps", result.Steps))
			return result, nil
		}
	}

	result.Reason = StopLimit
	result.PC = d.cpu.PC()
	return result, nil
}

// RunRealtime executes the program at the configured speed, paced by a 60 Hz
// ticker, until a breakpoint is reached, an error occurs or the context is
// canceled. A canceled context is not returned as error.
func (d *Debugger) RunRealtime(ctx context.Context) (Result, error) {
	ticker := time.NewTicker(time.Second / timer.Frequency)
	defer ticker.Stop()

	var result Result
	d.logger.Debug("Starting real-time execution", log.Int("speed", d.speed))

	for {
		select {
		case <-ctx.Done():
			result.Reason = StopCanceled
			result.PC = d.cpu.PC()
			return result, nil

		case <-ticker.C:
			frame, err := d.RunUntilBreakpoint(ctx, d.stepsPerTick)
			result.Steps += frame.Steps
			result.PC = frame.PC

			switch frame.Reason {
			case StopLimit:
			case StopCanceled:
				result.Reason = StopCanceled
				return result, nil
			default:
				result.Reason = frame.Reason
				return result, err
			}

			d.handleFrame()
		}
	}
}

func (d *Debugger) handleFrame() {
	disp := d.cpu.Display()
	if !disp.Dirty() {
		return
	}
	if d.onFrame != nil {
		d.onFrame(disp.Snapshot())
	}
	disp.MarkClean()
}

// Listing returns the disassembly of count instructions starting at the
// program counter.
func (d *Debugger) Listing(count int) ([]disasm.Line, error) {
	lines, err := disasm.Listing(d.cpu.Memory(), d.cpu.PC(), count)
	if err != nil {
		return nil, fmt.Errorf("creating listing: %w", err)
	}
	return lines, nil
}
