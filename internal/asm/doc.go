// Package asm implements a two pass assembler for CHIP-8 programs.
//
// Source lines have the form
//
//	[label:]... [mnemonic [operand[, operand]...]] [; comment]
//
// Mnemonics, register names and directives are case-insensitive, labels are
// case-sensitive. Numbers are decimal or use a prefix: $, # or 0x for
// hexadecimal and % or 0b for binary. The first pass assigns an address to
// every statement starting at the program start address, which allows labels
// to be used before their definition. The second pass encodes the
// instructions.
//
// Supported directives:
//
//	.byte v[, v]...   (alias db) emit bytes
//	.word v[, v]...   (alias dw) emit big-endian words
//	.align n          pad with zeros to the next multiple of n
//	.pad n            emit n zero bytes
//	.equ name, v      define a constant
//
// Text produced by the disassembler assembles back to the same bytes.
package asm
