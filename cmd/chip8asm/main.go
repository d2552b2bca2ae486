// Package main implements a standalone CHIP-8 assembler
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/retroenv/chip8vm/internal/asm"
	"github.com/retroenv/chip8vm/internal/config"
	"github.com/retroenv/chip8vm/internal/verification"
	"github.com/retroenv/retrogolib/buildinfo"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

type optionFlags struct {
	input  string
	output string

	verify bool
	quiet  bool
}

func main() {
	options := readArguments()

	if !options.quiet {
		printBanner(options)
	}

	if err := assembleFile(options); err != nil {
		fmt.Println(fmt.Errorf("assembling failed: %w", err))
		os.Exit(1)
	}
}

func readArguments() optionFlags {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	options := optionFlags{}

	flags.StringVar(&options.output, "o", "", "name of the output .ch8 file, defaults to the input name with .ch8 extension")
	flags.BoolVar(&options.verify, "verify", false, "verify the generated program by disassembling and reassembling it")
	flags.BoolVar(&options.quiet, "q", false, "perform operations quietly")

	err := flags.Parse(os.Args[1:])
	args := flags.Args()

	if err != nil || len(args) == 0 {
		printBanner(options)
		fmt.Printf("usage: chip8asm [options] <file to assemble>\n\n")
		flags.PrintDefaults()
		os.Exit(1)
	}
	options.input = args[0]

	if options.output == "" {
		ext := filepath.Ext(options.input)
		options.output = options.input[:len(options.input)-len(ext)] + ".ch8"
	}
	return options
}

func printBanner(options optionFlags) {
	if !options.quiet {
		fmt.Println("[------------------------------]")
		fmt.Println("[ chip8asm - CHIP-8 assembler  ]")
		fmt.Printf("[------------------------------]\n\n")
		fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
	}
}

func assembleFile(options optionFlags) error {
	source, err := os.ReadFile(options.input)
	if err != nil {
		return fmt.Errorf("reading file '%s': %w", options.input, err)
	}

	rom, err := asm.Assemble(source)
	if err != nil {
		return fmt.Errorf("assembling '%s': %w", options.input, err)
	}

	if err = os.WriteFile(options.output, rom, 0644); err != nil {
		return fmt.Errorf("writing file '%s': %w", options.output, err)
	}

	if options.verify {
		logger := config.CreateLogger(false, options.quiet)
		if err = verification.VerifyAssembly(context.Background(), logger, rom); err != nil {
			return fmt.Errorf("verifying output: %w", err)
		}
		if !options.quiet {
			fmt.Println("Output file matched input file.")
		}
	}

	if !options.quiet {
		fmt.Printf("Assembled %d bytes to %s\n", len(rom), options.output)
	}
	return nil
}
