// Package cpu implements the CHIP-8 interpreter: registers, call stack and
// the fetch-decode-execute step.
package cpu

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/retroenv/chip8vm/internal/arch/chip8"
	"github.com/retroenv/chip8vm/internal/display"
	"github.com/retroenv/chip8vm/internal/input"
	"github.com/retroenv/chip8vm/internal/memory"
	"github.com/retroenv/chip8vm/internal/timer"
)

const (
	// RegisterCount is the number of general purpose registers V0-VF.
	RegisterCount = 16
	// StackDepth is the maximum number of nested subroutine calls.
	StackDepth = 16
	// FlagRegister is the index of the VF register.
	FlagRegister = 0xF
)

// State is the execution state of the CPU.
type State uint8

// CPU execution states.
const (
	Idle        State = iota // no program loaded
	Running                  // executing instructions
	AwaitingKey              // suspended by Fx0A until a key gets pressed
	Halted                   // stopped by a fatal error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case AwaitingKey:
		return "awaiting key"
	case Halted:
		return "halted"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Snapshot is a copy of the CPU registers and timers.
type Snapshot struct {
	V      [RegisterCount]uint8
	I      uint16
	PC     uint16
	SP     uint8
	Stack  [StackDepth]uint16
	Delay  uint8
	Sound  uint8
	State  State
	Cycles uint64
}

// CPU is a CHIP-8 interpreter instance. All state is owned by the instance,
// multiple instances can be used independently.
type CPU struct {
	v     [RegisterCount]uint8
	i     uint16
	pc    uint16
	stack [StackDepth]uint16
	sp    uint8

	memory  *memory.Memory
	display *display.Display
	timers  *timer.Timers
	keys    *input.Keypad

	quirks Quirks
	rng    *rand.Rand

	state        State
	waitRegister uint8
	waitKeys     input.Mask // keys that were down when the wait started or last polled
	err          error
	rom          []byte
	cycles       uint64
}

// Option configures a CPU.
type Option func(*CPU)

// WithQuirks sets the quirks profile, the default is QuirksVIP.
func WithQuirks(quirks Quirks) Option {
	return func(c *CPU) {
		c.quirks = quirks
	}
}

// WithRandom sets the random number source used by the Cxkk instruction.
func WithRandom(rng *rand.Rand) Option {
	return func(c *CPU) {
		c.rng = rng
	}
}

// WithSeed seeds the random number source used by the Cxkk instruction,
// making the execution deterministic.
func WithSeed(seed uint64) Option {
	return func(c *CPU) {
		c.rng = rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	}
}

// New returns a CPU that executes from the given memory and uses the
// passed peripherals. The CPU is idle until a program is loaded.
func New(mem *memory.Memory, disp *display.Display, timers *timer.Timers,
	keys *input.Keypad, options ...Option) *CPU {

	seed := uint64(time.Now().UnixNano())
	c := &CPU{
		memory:  mem,
		display: disp,
		timers:  timers,
		keys:    keys,
		quirks:  QuirksVIP,
		rng:     rand.New(rand.NewPCG(seed, seed>>32)),
	}
	for _, option := range options {
		option(c)
	}
	c.resetRegisters()
	return c
}

// NewWithDevices returns a CPU with freshly created memory and peripherals.
func NewWithDevices(options ...Option) *CPU {
	return New(memory.New(), display.New(), timer.New(), input.New(), options...)
}

// LoadROM loads the program into memory and resets the CPU.
// A failed load keeps the previous program and state.
func (c *CPU) LoadROM(rom []byte) error {
	if len(rom) > memory.MaxProgramSize {
		return fmt.Errorf("%w: %d bytes exceed the maximum of %d bytes",
			memory.ErrRomTooLarge, len(rom), memory.MaxProgramSize)
	}

	c.rom = slices.Clone(rom)
	return c.Reset()
}

// Reset restores the power-on state and reloads the last loaded program.
// The key state is not changed.
func (c *CPU) Reset() error {
	c.resetRegisters()
	c.display.Clear()
	c.timers.Reset()
	c.memory.Reset()

	if c.rom == nil {
		c.state = Idle
		return nil
	}
	if err := c.memory.LoadProgram(c.rom); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	c.state = Running
	return nil
}

func (c *CPU) resetRegisters() {
	c.v = [RegisterCount]uint8{}
	c.i = 0
	c.pc = memory.ProgramStart
	c.stack = [StackDepth]uint16{}
	c.sp = 0
	c.waitRegister = 0
	c.waitKeys = 0
	c.err = nil
	c.cycles = 0
}

// Step executes a single instruction. While waiting for a key press a step
// only polls the keypad. A fatal error halts the CPU and is returned as
// *Error, all following steps return ErrHalted until Reset or LoadROM.
func (c *CPU) Step() error {
	switch c.state {
	case Idle:
		return ErrNoProgram
	case Halted:
		return fmt.Errorf("%w: %w", ErrHalted, c.err)
	case AwaitingKey:
		c.pollKeys()
		return nil
	}

	pc := c.pc
	word, err := c.memory.ReadWord(pc)
	if err != nil {
		return c.halt(pc, 0, err)
	}
	c.pc += chip8.InstructionSize

	ins := chip8.Decode(word)
	if err := c.execute(ins); err != nil {
		return c.halt(pc, word, err)
	}
	c.cycles++
	return nil
}

func (c *CPU) halt(pc, opcode uint16, err error) error {
	c.pc = pc
	c.state = Halted
	c.err = &Error{
		PC:     pc,
		Opcode: opcode,
		Err:    err,
	}
	return c.err
}

// pollKeys completes a pending Fx0A once a key went from released to pressed.
func (c *CPU) pollKeys() {
	pressed := c.keys.Mask()
	newlyPressed := pressed &^ c.waitKeys
	c.waitKeys = pressed

	key, ok := newlyPressed.Lowest()
	if !ok {
		return
	}
	c.v[c.waitRegister] = key
	c.pc += chip8.InstructionSize
	c.state = Running
}

// State returns the execution state.
func (c *CPU) State() State {
	return c.state
}

// Err returns the error that halted the CPU.
func (c *CPU) Err() error {
	return c.err
}

// Halted returns whether a fatal error stopped the execution.
func (c *CPU) Halted() bool {
	return c.state == Halted
}

// PC returns the address of the next instruction to execute.
func (c *CPU) PC() uint16 {
	return c.pc
}

// Quirks returns the active quirks profile.
func (c *CPU) Quirks() Quirks {
	return c.quirks
}

// Snapshot returns a copy of the registers and timers.
func (c *CPU) Snapshot() Snapshot {
	return Snapshot{
		V:      c.v,
		I:      c.i,
		PC:     c.pc,
		SP:     c.sp,
		Stack:  c.stack,
		Delay:  c.timers.Delay(),
		Sound:  c.timers.Sound(),
		State:  c.state,
		Cycles: c.cycles,
	}
}

// Memory returns the memory the CPU executes from.
func (c *CPU) Memory() *memory.Memory {
	return c.memory
}

// Display returns the framebuffer the CPU draws to.
func (c *CPU) Display() *display.Display {
	return c.display
}

// Timers returns the delay and sound timers.
func (c *CPU) Timers() *timer.Timers {
	return c.timers
}

// Keys returns the keypad state that the CPU reads.
func (c *CPU) Keys() *input.Keypad {
	return c.keys
}

// IsFatal returns whether the error stopped the CPU.
func IsFatal(err error) bool {
	var cpuErr *Error
	return errors.As(err, &cpuErr) || errors.Is(err, ErrHalted)
}
