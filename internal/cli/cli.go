// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/chip8vm/internal/cpu"
	"github.com/retroenv/chip8vm/internal/input"
	"github.com/retroenv/chip8vm/internal/memory"
	"github.com/retroenv/chip8vm/internal/options"
)

// ParseFlags parses command line flags and returns program, disassembler and machine options
func ParseFlags() (options.Program, options.Disassembler, options.Machine, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	var entryPoints string
	readOptionFlags(flags, &opts)
	flags.StringVar(&entryPoints, "entry", "", "comma separated additional code entry points for the disassembler (e.g. 0x300)")

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Batch == "" && opts.Input == "") {
		return opts, options.Disassembler{}, options.Machine{}, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, options.Disassembler{}, options.Machine{}, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, options.Disassembler{}, options.Machine{}, err
	}

	if opts.Batch == "" && len(args) > 0 {
		if opts.Input != "" {
			return opts, options.Disassembler{}, options.Machine{}, errors.New("input file can not be given by -i and as argument")
		}
		opts.Input = args[0]
	}

	disasmOptions := createDisasmOptions(opts)
	disasmOptions.EntryPoints, err = parseAddresses(entryPoints)
	if err != nil {
		return opts, options.Disassembler{}, options.Machine{}, fmt.Errorf("invalid entry point: %w", err)
	}

	machine, err := createMachineOptions(opts)
	if err != nil {
		return opts, options.Disassembler{}, options.Machine{}, err
	}

	if err := validateOptionCombinations(opts); err != nil {
		return opts, options.Disassembler{}, options.Machine{}, err
	}

	return opts, disasmOptions, machine, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: chip8vm [options] <file>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after file to process, please pass the file to process as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	action, ok := options.ParseAction(opts.Action)
	if !ok {
		return fmt.Errorf("unsupported action: %s. Valid options: %v", opts.Action, options.Actions)
	}
	opts.Action = string(action)

	opts.Quirks = strings.ToLower(opts.Quirks)
	if _, err := cpu.QuirksByName(opts.Quirks); err != nil {
		return fmt.Errorf("invalid quirks option: %w", err)
	}
	return nil
}

// validateOptionCombinations checks for option combinations that can not be used together.
func validateOptionCombinations(opts options.Program) error {
	if opts.Realtime && opts.Batch != "" {
		return errors.New("-realtime can not be used with -batch")
	}
	if opts.Verify && opts.Action == string(options.ActionRun) {
		return errors.New("-verify is not supported for the run action")
	}
	return nil
}

// createDisasmOptions creates disassembler options based on program options
func createDisasmOptions(opts options.Program) options.Disassembler {
	disasmOptions := options.NewDisassembler()
	disasmOptions.HexComments = !opts.NoHexComments
	disasmOptions.OffsetComments = !opts.NoOffsets
	return disasmOptions
}

// createMachineOptions creates the virtual machine options based on program options
func createMachineOptions(opts options.Program) (options.Machine, error) {
	machine := options.NewMachine()
	machine.Quirks = opts.Quirks
	machine.Cycles = opts.Cycles
	machine.Seed = opts.Seed
	machine.Screen = opts.Screen
	machine.Realtime = opts.Realtime

	if opts.Speed <= 0 {
		return machine, fmt.Errorf("invalid speed %d, has to be positive", opts.Speed)
	}
	machine.Speed = opts.Speed

	var err error
	machine.Breakpoints, err = parseAddresses(opts.Breakpoints)
	if err != nil {
		return machine, fmt.Errorf("invalid breakpoint: %w", err)
	}
	machine.Keys, err = parseKeys(opts.Keys)
	if err != nil {
		return machine, fmt.Errorf("invalid key: %w", err)
	}
	return machine, nil
}

// parseAddresses parses a comma separated list of memory addresses.
// Decimal, 0x prefixed and $ prefixed hex values are supported.
func parseAddresses(list string) ([]uint16, error) {
	var addresses []uint16
	for _, field := range splitList(list) {
		text := field
		if strings.HasPrefix(text, "$") {
			text = "0x" + text[1:]
		}

		value, err := strconv.ParseUint(text, 0, 16)
		if err != nil || value >= memory.Size {
			return nil, fmt.Errorf("'%s' is not a memory address", field)
		}
		addresses = append(addresses, uint16(value))
	}
	return addresses, nil
}

// parseKeys parses a comma separated list of hex key names.
func parseKeys(list string) ([]uint8, error) {
	var keys []uint8
	for _, field := range splitList(list) {
		value, err := strconv.ParseUint(field, 16, 8)
		if err != nil || value >= input.KeyCount {
			return nil, fmt.Errorf("'%s' is not a key between 0 and F", field)
		}
		keys = append(keys, uint8(value))
	}
	return keys, nil
}

func splitList(list string) []string {
	var fields []string
	for field := range strings.SplitSeq(list, ",") {
		field = strings.TrimSpace(field)
		if field != "" {
			fields = append(fields, field)
		}
	}
	return fields
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM or assembly file")
	flags.StringVar(&opts.Output, "o", "", "name of the output file, .asm for disassembly and .ch8 for assembly")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask and automatically name the output files, for example *.ch8")
	flags.StringVar(&opts.Action, "a", "", "action to perform (asm/disasm/run), detected from the file extension if not given")
	flags.BoolVar(&opts.Verify, "verify", false, "verify the generated output by converting it back and checking if it matches the input")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")

	flags.BoolVar(&opts.NoHexComments, "nohexcomments", false, "do not output opcode bytes as hex values in comments")
	flags.BoolVar(&opts.NoOffsets, "nooffsets", false, "do not output offsets in comments")

	flags.StringVar(&opts.Quirks, "quirks", "vip", "instruction behavior profile (vip/chip48)")
	flags.IntVar(&opts.Cycles, "cycles", options.DefaultCycles, "maximum number of instructions to execute, 0 for no limit")
	flags.IntVar(&opts.Speed, "speed", options.DefaultSpeed, "instructions per second")
	flags.StringVar(&opts.Breakpoints, "break", "", "comma separated breakpoint addresses, for example 0x2A0,0x300")
	flags.StringVar(&opts.Keys, "key", "", "comma separated hex keys that are held down during the run, a key wait sees them as a new press, for example 5,A")
	flags.Uint64Var(&opts.Seed, "seed", 0, "random number generator seed, 0 seeds from the current time")
	flags.BoolVar(&opts.Screen, "screen", false, "print the display to the output")
	flags.BoolVar(&opts.Realtime, "realtime", false, "run at the configured speed until interrupted")
}
