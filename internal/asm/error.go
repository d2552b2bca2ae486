package asm

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnknownMnemonic is returned for a statement that is neither an instruction nor a directive.
	ErrUnknownMnemonic = errors.New("unknown mnemonic")
	// ErrUndefinedLabel is returned for a reference to a label that is never defined.
	ErrUndefinedLabel = errors.New("undefined label")
	// ErrDuplicateLabel is returned when a label or constant is defined twice.
	ErrDuplicateLabel = errors.New("duplicate label")
	// ErrInvalidOperand is returned for operands that do not fit the instruction.
	ErrInvalidOperand = errors.New("invalid operand")
	// ErrProgramTooLarge is returned when the program does not fit into memory.
	ErrProgramTooLarge = errors.New("program too large")
)

// Error defines an assembler error with source context.
type Error struct {
	Line   int    // 1 based line number
	Source string // source text of the line
	Err    error
}

// newError creates a new error with the given source context.
func newError(line int, source string, err error) *Error {
	return &Error{
		Line:   line,
		Source: source,
		Err:    err,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %v: %s", e.Line, e.Err, e.Source)
}

func (e *Error) Unwrap() error {
	return e.Err
}
