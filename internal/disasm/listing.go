package disasm

import (
	"fmt"

	"github.com/retroenv/chip8vm/internal/arch/chip8"
)

// WordReader reads big-endian instruction words from memory.
type WordReader interface {
	ReadWord(address uint16) (uint16, error)
}

// Line is a single line of a memory listing.
type Line struct {
	Address     uint16
	Opcode      uint16
	Instruction chip8.Instruction
}

func (l Line) String() string {
	return fmt.Sprintf("$%04X  %04X  %s", l.Address, l.Opcode, l.Instruction)
}

// Listing decodes count instruction words of memory starting at the given
// address. The listing ends early at the end of memory.
func Listing(mem WordReader, address uint16, count int) ([]Line, error) {
	lines := make([]Line, 0, count)

	for range count {
		word, err := mem.ReadWord(address)
		if err != nil {
			if len(lines) > 0 {
				break
			}
			return nil, fmt.Errorf("reading instruction at $%04X: %w", address, err)
		}

		lines = append(lines, Line{
			Address:     address,
			Opcode:      word,
			Instruction: chip8.Decode(word),
		})
		address += chip8.InstructionSize
	}
	return lines, nil
}
