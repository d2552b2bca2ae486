package asm

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/retroenv/chip8vm/internal/arch/chip8"
)

// statement is a single parsed source line.
type statement struct {
	line     int
	source   string
	labels   []string
	mnemonic string // lower case instruction or directive name, empty for label only lines
	operands []operand

	address uint16 // assigned in the first pass
	size    int
}

// operandType classifies a source operand.
type operandType uint8

const (
	operandRegister operandType = iota + 1
	operandKeyword
	operandValue
)

type operand struct {
	typ      operandType
	register uint8             // register index for operandRegister
	keyword  chip8.OperandKind // keyword kind for operandKeyword
	text     string            // number literal or symbol for operandValue
}

var keywords = map[string]chip8.OperandKind{
	"I":   chip8.OperandI,
	"[I]": chip8.OperandIndirectI,
	"DT":  chip8.OperandDT,
	"ST":  chip8.OperandST,
	"K":   chip8.OperandK,
	"F":   chip8.OperandF,
	"B":   chip8.OperandB,
}

// parse splits the source into statements. Empty and comment only lines are skipped.
func parse(source []byte) ([]*statement, error) {
	var statements []*statement

	scanner := bufio.NewScanner(bytes.NewReader(source))
	for lineNumber := 1; scanner.Scan(); lineNumber++ {
		text := scanner.Text()
		st, err := parseLine(lineNumber, text)
		if err != nil {
			return nil, newError(lineNumber, strings.TrimSpace(text), err)
		}
		if st != nil {
			statements = append(statements, st)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading source")
	}
	return statements, nil
}

func parseLine(lineNumber int, text string) (*statement, error) {
	line := stripComment(text)
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}

	st := &statement{
		line:   lineNumber,
		source: strings.TrimSpace(text),
	}

	// leading labels, multiple labels can share the same address
	for {
		idx := strings.IndexByte(line, ':')
		if idx <= 0 {
			break
		}
		name := strings.TrimSpace(line[:idx])
		if !isIdentifier(name) {
			break
		}
		st.labels = append(st.labels, name)
		line = strings.TrimSpace(line[idx+1:])
	}
	if line == "" {
		return st, nil
	}

	mnemonic, rest := line, ""
	if idx := strings.IndexFunc(line, unicode.IsSpace); idx >= 0 {
		mnemonic, rest = line[:idx], line[idx+1:]
	}
	st.mnemonic = strings.ToLower(mnemonic)

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return st, nil
	}
	for _, field := range strings.Split(rest, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			return nil, errors.Wrapf(ErrInvalidOperand, "empty operand")
		}
		st.operands = append(st.operands, parseOperand(field))
	}
	return st, nil
}

func stripComment(line string) string {
	if idx := strings.IndexByte(line, ';'); idx >= 0 {
		return line[:idx]
	}
	return line
}

func parseOperand(text string) operand {
	upper := strings.ToUpper(text)
	if reg, ok := parseRegister(upper); ok {
		return operand{typ: operandRegister, register: reg}
	}
	if kind, ok := keywords[upper]; ok {
		return operand{typ: operandKeyword, keyword: kind}
	}
	return operand{typ: operandValue, text: text}
}

// parseRegister parses the register names V0-VF.
func parseRegister(upper string) (uint8, bool) {
	if len(upper) != 2 || upper[0] != 'V' {
		return 0, false
	}
	value, err := strconv.ParseUint(upper[1:], 16, 4)
	if err != nil {
		return 0, false
	}
	return uint8(value), true
}

// parseNumber parses decimal, hexadecimal ($, # or 0x prefix) and binary
// (% or 0b prefix) number literals.
func parseNumber(text string) (int, bool) {
	base := 10
	digits := text

	lower := strings.ToLower(text)
	switch {
	case strings.HasPrefix(lower, "0x"):
		base, digits = 16, text[2:]
	case strings.HasPrefix(lower, "0b"):
		base, digits = 2, text[2:]
	case strings.HasPrefix(text, "$"), strings.HasPrefix(text, "#"):
		base, digits = 16, text[1:]
	case strings.HasPrefix(text, "%"):
		base, digits = 2, text[1:]
	}
	if digits == "" {
		return 0, false
	}

	value, err := strconv.ParseUint(digits, base, 16)
	if err != nil {
		return 0, false
	}
	return int(value), true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// isReserved returns whether the name is a register or keyword that can not
// be used as a label.
func isReserved(name string) bool {
	upper := strings.ToUpper(name)
	if _, ok := parseRegister(upper); ok {
		return true
	}
	_, ok := keywords[upper]
	return ok
}
