// Package verification verifies that the generated output recreates the input.
package verification

import (
	"bytes"
	"context"
	"fmt"

	"github.com/retroenv/chip8vm/internal/asm"
	"github.com/retroenv/chip8vm/internal/disasm"
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/writer"
	"github.com/retroenv/retrogolib/log"
)

const maxReportedMismatches = 10

// VerifyDisassembly verifies that the disassembled source assembles to the
// exact ROM that it was created from.
func VerifyDisassembly(logger *log.Logger, rom, source []byte) error {
	output, err := asm.Assemble(source)
	if err != nil {
		return fmt.Errorf("reassembling output: %w", err)
	}

	if err := checkBufferEqual(logger, rom, output); err != nil {
		return fmt.Errorf("program mismatch: %w", err)
	}
	return nil
}

// VerifyAssembly verifies that the assembled program survives a round trip
// through the disassembler and assembler.
func VerifyAssembly(ctx context.Context, logger *log.Logger, rom []byte) error {
	app, err := disasm.Disassemble(ctx, logger, rom, options.NewDisassembler())
	if err != nil {
		return fmt.Errorf("disassembling output: %w", err)
	}

	var buf bytes.Buffer
	if err := writer.New(app, &buf, writer.Options{}).Write(); err != nil {
		return fmt.Errorf("writing disassembly: %w", err)
	}
	return VerifyDisassembly(logger, rom, buf.Bytes())
}

func checkBufferEqual(logger *log.Logger, input, output []byte) error {
	if len(input) != len(output) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(input), len(output))
	}

	var diffs uint64
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if diffs <= maxReportedMismatches {
			logger.Error("Offset mismatch",
				log.Hex("offset", i),
				log.Hex("expected", input[i]),
				log.Hex("got", output[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d offset mismatches", diffs)
}
