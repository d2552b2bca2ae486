package cpu

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOpcode is returned when the fetched word is not an instruction.
	ErrInvalidOpcode = errors.New("invalid opcode")
	// ErrStackOverflow is returned when a call exceeds the stack depth.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned when returning with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrUnalignedAddress is returned for a jump or call to an odd address.
	ErrUnalignedAddress = errors.New("unaligned instruction address")
	// ErrHalted is returned when stepping a CPU that stopped after a fatal error.
	ErrHalted = errors.New("cpu halted")
	// ErrNoProgram is returned when stepping a CPU that has no program loaded.
	ErrNoProgram = errors.New("no program loaded")
	// ErrUnknownQuirks is returned for an unsupported quirks profile name.
	ErrUnknownQuirks = errors.New("unknown quirks profile")
)

// Error is a fatal execution error that halted the CPU.
type Error struct {
	PC     uint16 // address of the failing instruction
	Opcode uint16 // instruction word, zero if it could not be fetched
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("executing $%04X at $%03X: %v", e.Opcode, e.PC, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
