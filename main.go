// Package main implements a CHIP-8 virtual machine with assembler, disassembler and debugger
package main

import (
	"context"
	"errors"
	"os"

	"github.com/retroenv/chip8vm/internal/cli"
	"github.com/retroenv/chip8vm/internal/config"
	"github.com/retroenv/chip8vm/internal/detector"
	"github.com/retroenv/chip8vm/internal/fileprocessor"
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, disasmOptions, machine, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			fileprocessor.PrintBanner(logger, opts, version, commit, date)
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	fileprocessor.PrintBanner(logger, opts, version, commit, date)

	files, err := fileprocessor.GetFilesToProcess(&opts)
	if err != nil {
		logger.Fatal(err.Error())
	}

	actionDetector := detector.New(logger)
	output := opts.Output
	failed := false

	for _, file := range files {
		opts.Input = file
		action, err := actionDetector.Detect(opts)
		if err != nil {
			logger.Fatal(err.Error())
		}

		// an assembled binary is never printed on the console
		opts.Output = output
		if len(files) > 1 || (output == "" && action == options.ActionAssemble) {
			opts.Output = fileprocessor.GenerateOutputFilename(file, action)
		}

		if _, err := fileprocessor.ProcessFile(ctx, logger, opts, disasmOptions, machine); err != nil {
			// Handle context cancellation (Ctrl+C) gracefully
			if errors.Is(err, context.Canceled) {
				logger.Info("Operation cancelled")
				return
			}
			logger.Error("Processing failed", log.String("file", file), log.Err(err))
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}
