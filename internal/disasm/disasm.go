// Package disasm implements a flow tracing CHIP-8 disassembler.
package disasm

import (
	"context"
	"fmt"
	"hash/crc32"

	"github.com/retroenv/chip8vm/internal/arch/chip8"
	"github.com/retroenv/chip8vm/internal/memory"
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/program"
	"github.com/retroenv/chip8vm/internal/symbols"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

const (
	startLabel  = "Start"
	funcNaming  = "_func_%04x"
	labelNaming = "_label_%04x"
	dataNaming  = "_data_%04x"
)

// Disasm implements a disassembler.
type Disasm struct {
	logger  *log.Logger
	options options.Disassembler
	app     *program.Program

	instructions map[uint16]chip8.Instruction

	// destinations of jumps, calls and data references, merged offset types per address
	references *symbols.Manager[program.OffsetType]

	offsetsToParse      []uint16
	offsetsToParseAdded set.Set[uint16]
	offsetsParsed       set.Set[uint16]
}

// Disassemble traces the code of the ROM starting at the program start
// address and returns the program with code and data offsets identified.
func Disassemble(ctx context.Context, logger *log.Logger, rom []byte, opts options.Disassembler) (*program.Program, error) {
	if len(rom) > memory.MaxProgramSize {
		return nil, fmt.Errorf("%w: %d bytes", memory.ErrRomTooLarge, len(rom))
	}

	dis := &Disasm{
		logger:              logger,
		options:             opts,
		app:                 program.New(rom, memory.ProgramStart),
		instructions:        map[uint16]chip8.Instruction{},
		references:          symbols.New[program.OffsetType](),
		offsetsToParseAdded: set.New[uint16](),
		offsetsParsed:       set.New[uint16](),
	}

	dis.addAddressToParse(memory.ProgramStart)
	for _, address := range opts.EntryPoints {
		dis.addReference(address, program.JumpDestination)
		dis.addAddressToParse(address)
	}

	if err := dis.followExecutionFlow(ctx); err != nil {
		return nil, err
	}

	dis.processLabels()
	dis.formatCode()

	for _, address := range opts.EntryPoints {
		switch {
		case !dis.references.Has(address):
			dis.logger.Debug("Entry point does not start an instruction", log.Hex("address", address))
		case !dis.references.IsUsed(address):
			dis.logger.Debug("Entry point is not referenced by code", log.Hex("address", address))
		}
	}

	dis.app.Checksum = crc32.ChecksumIEEE(rom)
	dis.logger.Debug("Disassembly finished",
		log.Int("size", len(rom)),
		log.Int("instructions", dis.app.CodeInstructions()),
		log.Int("labels", dis.references.Len()))
	return dis.app, nil
}

// addAddressToParse adds an address to the list to be processed if the
// address has not been processed yet.
func (dis *Disasm) addAddressToParse(address uint16) {
	if dis.offsetsToParseAdded.Contains(address) {
		return
	}
	dis.offsetsToParseAdded.Add(address)
	dis.offsetsToParse = append(dis.offsetsToParse, address)
}

func (dis *Disasm) addReference(address uint16, typ program.OffsetType) {
	if dis.app.OffsetInfo(address) == nil {
		return
	}
	dis.references.Update(address, func(item program.OffsetType, _ bool) program.OffsetType {
		return item | typ
	})
}

// followExecutionFlow parses opcodes and follows the execution flow to parse all code.
func (dis *Disasm) followExecutionFlow(ctx context.Context) error {
	for len(dis.offsetsToParse) > 0 {
		select {
		case <-ctx.Done():
			return fmt.Errorf("disassembling: %w", ctx.Err())
		default:
		}

		address := dis.offsetsToParse[0]
		dis.offsetsToParse = dis.offsetsToParse[1:]

		if dis.offsetsParsed.Contains(address) {
			continue
		}
		dis.offsetsParsed.Add(address)

		dis.processOffset(address)
	}
	return nil
}

// processOffset decodes the instruction at the given address and queues
// all addresses that the instruction can continue execution at.
func (dis *Disasm) processOffset(address uint16) {
	first := dis.app.OffsetInfo(address)
	second := dis.app.OffsetInfo(address + 1)
	if first == nil || second == nil {
		dis.logger.Debug("Execution leaves program", log.Hex("address", address))
		return
	}
	if first.IsType(program.CodeOffset) || second.IsType(program.CodeOffset) {
		dis.logger.Debug("Execution flow into instruction detected", log.Hex("address", address))
		return
	}

	ins, _ := chip8.DecodeBytes([]byte{first.Data[0], second.Data[0]})
	if !ins.Valid() {
		dis.logger.Debug("Invalid opcode, treating as data",
			log.Hex("address", address), log.Hex("opcode", ins.Opcode))
		return
	}
	if !ins.MatchesReference() {
		dis.logger.Debug("Instruction differs from reference table",
			log.Hex("address", address), log.Hex("opcode", ins.Opcode), log.String("name", ins.Op.Name()))
	}
	if conflicts := ins.Op.ReferenceConflicts(); len(conflicts) > 0 {
		dis.logger.Debug("Instruction classification differs from reference categories",
			log.Hex("address", address), log.String("name", ins.Op.Name()), log.Strings("conflicts", conflicts))
	}
	if ins.Op.HasAddress() && dis.app.OffsetInfo(ins.NNN) == nil {
		dis.logger.Debug("Address operand outside of program",
			log.Hex("address", address), log.Hex("target", ins.NNN))
	}

	first.SetType(program.CodeOffset)
	first.Data = []byte{first.Data[0], second.Data[0]}
	second.SetType(program.CodeOffset)
	second.Data = nil
	dis.instructions[address] = ins

	next := address + chip8.InstructionSize

	switch {
	case ins.Op.IsJump():
		dis.addReference(ins.NNN, program.JumpDestination)
		dis.addAddressToParse(ins.NNN)

	case ins.Op.IsIndirectJump():
		// destination depends on V0, only the base address is referenced
		dis.addReference(ins.NNN, program.JumpDestination)

	case ins.Op.IsCall():
		dis.addReference(ins.NNN, program.CallDestination)
		dis.addAddressToParse(ins.NNN)
		dis.addAddressToParse(next)

	case ins.Op.IsReturn():

	case ins.Op.IsSkip():
		dis.addAddressToParse(next)
		dis.addAddressToParse(next + chip8.InstructionSize)

	case ins.Op.IsDataReference():
		dis.addReference(ins.NNN, program.DataOffset)
		dis.addAddressToParse(next)

	default:
		dis.addAddressToParse(next)
	}
}

// processLabels assigns label names to all referenced addresses that start
// a line in the output. References into the second byte of an instruction
// keep their numeric form.
func (dis *Disasm) processLabels() {
	if first := dis.app.OffsetInfo(memory.ProgramStart); first != nil {
		first.Label = startLabel
	}

	for _, address := range dis.references.Addresses() {
		offset := dis.app.OffsetInfo(address)
		typ, _ := dis.references.Get(address)
		offset.SetType(typ)

		if offset.IsType(program.CodeOffset) && len(offset.Data) == 0 {
			dis.logger.Debug("Reference into instruction", log.Hex("address", address))
			offset.ClearType(typ)
			dis.references.Delete(address)
			continue
		}
		if offset.Label != "" {
			continue
		}

		switch {
		case offset.IsType(program.CallDestination):
			offset.Label = fmt.Sprintf(funcNaming, address)
		case offset.IsType(program.JumpDestination):
			offset.Label = fmt.Sprintf(labelNaming, address)
		default:
			offset.Label = fmt.Sprintf(dataNaming, address)
		}
	}
}

// formatCode sets the assembly text of all code offsets, using label names
// for address operands.
func (dis *Disasm) formatCode() {
	labelName := func(address uint16) (string, bool) {
		offset := dis.app.OffsetInfo(address)
		if offset == nil || offset.Label == "" {
			return "", false
		}
		dis.references.MarkUsed(address)
		return offset.Label, true
	}

	for address, ins := range dis.instructions {
		offset := dis.app.OffsetInfo(address)
		offset.Code = ins.Format(labelName)
		if ins.Op == chip8.OpSys {
			offset.Comment = "machine code routine, ignored"
		}
	}
}
