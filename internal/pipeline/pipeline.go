// Package pipeline orchestrates the assemble, disassemble and run workflows.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/chip8vm/internal/asm"
	"github.com/retroenv/chip8vm/internal/config"
	"github.com/retroenv/chip8vm/internal/cpu"
	"github.com/retroenv/chip8vm/internal/debugger"
	"github.com/retroenv/chip8vm/internal/detector"
	"github.com/retroenv/chip8vm/internal/disasm"
	"github.com/retroenv/chip8vm/internal/display"
	"github.com/retroenv/chip8vm/internal/loader"
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/program"
	"github.com/retroenv/chip8vm/internal/verification"
	"github.com/retroenv/chip8vm/internal/writer"
	"github.com/retroenv/retrogolib/log"
)

// listingLines is the number of instructions logged after a fatal CPU error.
const listingLines = 4

// Result contains the outcome of a pipeline execution, only the fields of
// the executed action are set.
type Result struct {
	Action options.Action

	Program *program.Program // disassembled program
	Binary  []byte           // assembled program

	Run      debugger.Result
	Snapshot cpu.Snapshot
}

// Pipeline orchestrates the complete workflow for an input file.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// New creates a new pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Execute detects the action for the input file, loads it and runs the action.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, disasmOpts options.Disassembler,
	machine options.Machine, output io.Writer) (Result, error) {

	action, err := p.detector.Detect(opts)
	if err != nil {
		return Result{}, fmt.Errorf("detecting action: %w", err)
	}

	data, err := p.loader.Load(opts, action)
	if err != nil {
		return Result{}, fmt.Errorf("loading input: %w", err)
	}

	return p.ExecuteWithData(ctx, action, data, opts, disasmOpts, machine, output)
}

// ExecuteWithData runs the action on already loaded input data.
// This is useful for testing and programmatic usage where the input is already in memory.
func (p *Pipeline) ExecuteWithData(ctx context.Context, action options.Action, data []byte, opts options.Program,
	disasmOpts options.Disassembler, machine options.Machine, output io.Writer) (Result, error) {

	p.printInfo(opts, action, len(data))

	switch action {
	case options.ActionAssemble:
		return p.assemble(ctx, data, opts, output)
	case options.ActionDisassemble:
		return p.disassemble(ctx, data, opts, disasmOpts, output)
	case options.ActionRun:
		return p.run(ctx, data, machine, output)
	default:
		return Result{}, fmt.Errorf("unsupported action '%s'", action)
	}
}

func (p *Pipeline) assemble(ctx context.Context, source []byte, opts options.Program, output io.Writer) (Result, error) {
	result := Result{Action: options.ActionAssemble}

	rom, err := asm.Assemble(source)
	if err != nil {
		return result, fmt.Errorf("assembling: %w", err)
	}
	result.Binary = rom

	if _, err := output.Write(rom); err != nil {
		return result, fmt.Errorf("writing program: %w", err)
	}
	p.logger.Debug("Program assembled", log.Int("size", len(rom)))

	if opts.Verify {
		if err := verification.VerifyAssembly(ctx, p.logger, rom); err != nil {
			return result, fmt.Errorf("verification failed: %w", err)
		}
		p.logger.Info("Verification successful")
	}
	return result, nil
}

func (p *Pipeline) disassemble(ctx context.Context, rom []byte, opts options.Program,
	disasmOpts options.Disassembler, output io.Writer) (Result, error) {

	result := Result{Action: options.ActionDisassemble}

	app, err := disasm.Disassemble(ctx, p.logger, rom, disasmOpts)
	if err != nil {
		return result, fmt.Errorf("disassembling: %w", err)
	}
	result.Program = app

	var source bytes.Buffer
	writerOpts := writer.Options{
		HexComments:    disasmOpts.HexComments,
		OffsetComments: disasmOpts.OffsetComments,
	}
	fileWriter := writer.New(app, io.MultiWriter(output, &source), writerOpts)
	if err := fileWriter.Write(); err != nil {
		return result, fmt.Errorf("writing app to file: %w", err)
	}

	if opts.Verify {
		if err := verification.VerifyDisassembly(p.logger, rom, source.Bytes()); err != nil {
			return result, fmt.Errorf("verification failed: %w", err)
		}
		p.logger.Info("Verification successful")
	}
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, rom []byte, machine options.Machine, output io.Writer) (Result, error) {
	result := Result{Action: options.ActionRun}

	c, err := config.CreateMachine(machine)
	if err != nil {
		return result, err
	}

	quirks := c.Quirks()
	p.logger.Debug("Machine created",
		log.Bool("shift_in_place", quirks.ShiftInPlace),
		log.Bool("load_store_increments_i", quirks.LoadStoreIncrementsI),
		log.Bool("logic_resets_vf", quirks.LogicResetsVF),
		log.Int("speed", machine.Speed),
	)

	var dbgOpts []debugger.Option
	if machine.Speed > 0 {
		dbgOpts = append(dbgOpts, debugger.WithSpeed(machine.Speed))
	}
	if len(machine.Keys) > 0 {
		dbgOpts = append(dbgOpts, debugger.WithHeldKeys(machine.Keys))
	}
	if machine.Realtime && machine.Screen {
		dbgOpts = append(dbgOpts, debugger.WithFrameHandler(func(frame display.Frame) {
			_, _ = fmt.Fprintf(output, "%s\n", frame)
		}))
	}

	dbg := debugger.New(p.logger, c, dbgOpts...)
	if err := dbg.Load(rom); err != nil {
		return result, err
	}
	for _, address := range machine.Breakpoints {
		if err := dbg.SetBreakpoint(address); err != nil {
			return result, fmt.Errorf("setting breakpoint: %w", err)
		}
	}

	var runErr error
	if machine.Realtime {
		result.Run, runErr = dbg.RunRealtime(ctx)
	} else {
		result.Run, runErr = dbg.RunUntilBreakpoint(ctx, machine.Cycles)
	}
	result.Snapshot = c.Snapshot()
	p.logSnapshot(result.Run, result.Snapshot, c.Display().Lit())

	if runErr != nil {
		if cpu.IsFatal(runErr) {
			p.logListing(dbg)
		}
		return result, fmt.Errorf("running program: %w", runErr)
	}

	if machine.Screen && !machine.Realtime {
		if _, err := io.WriteString(output, c.Display().String()); err != nil {
			return result, fmt.Errorf("writing display: %w", err)
		}
	}
	return result, nil
}

// printInfo prints information about the file being processed.
func (p *Pipeline) printInfo(opts options.Program, action options.Action, size int) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Processing file",
		log.String("file", opts.Input),
		log.Stringer("action", action),
		log.Int("size", size),
	)
}

func (p *Pipeline) logSnapshot(run debugger.Result, snap cpu.Snapshot, litPixels int) {
	p.logger.Info("Execution stopped",
		log.Stringer("reason", run.Reason),
		log.Int("steps", run.Steps),
		log.Hex("pc", snap.PC),
		log.Stringer("state", snap.State),
		log.Int("lit_pixels", litPixels),
	)

	var registers strings.Builder
	for i, value := range snap.V {
		if i > 0 {
			registers.WriteByte(' ')
		}
		_, _ = fmt.Fprintf(&registers, "v%x=$%02x", i, value)
	}
	p.logger.Debug("Registers",
		log.String("v", registers.String()),
		log.Hex("i", snap.I),
		log.Uint8("sp", snap.SP),
		log.Uint8("delay", snap.Delay),
		log.Uint8("sound", snap.Sound),
	)
}

func (p *Pipeline) logListing(dbg *debugger.Debugger) {
	lines, err := dbg.Listing(listingLines)
	if err != nil {
		p.logger.Error("Creating listing failed", log.Err(err))
		return
	}
	for _, line := range lines {
		p.logger.Error("Listing", log.String("line", line.String()))
	}
}
