// Package chip8 provides the CHIP-8 instruction set: decoding of instruction
// words into tagged instructions, encoding back to words and the canonical
// assembly text of every instruction.
//
// # Instruction Set
//
// CHIP-8 has 35 instructions:
//   - All instructions are 2 bytes (16 bits), stored big-endian
//   - Addresses are 12 bit values embedded in the opcode (nnn)
//   - Register operands are encoded in the x (bits 8-11) and y (bits 4-7) nibbles
//   - Immediate operands are 8 bit (kk) or 4 bit (n) values
//
// Words that do not match any instruction decode to OpInvalid, which allows
// callers to treat them as data or as a fatal error.
//
// # Canonical Text
//
// Mnemonics are lower case, registers are written as V0-VF and values use
// the $ hexadecimal prefix:
//
//	cls
//	jp $208
//	ld V2, $34
//	drw V0, V1, $5
//	ld [I], V3
//
// The shift instructions omit the source register when it is identical to
// the shifted register, which keeps the text unambiguous for every word.
//
// # Reference Tables
//
// The decoder is cross-checked against the retrogolib CHIP-8 opcode tables,
// see MatchesReference.
package chip8
