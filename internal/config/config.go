// Package config handles application configuration and setup
package config

import (
	"fmt"

	"github.com/retroenv/chip8vm/internal/cpu"
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateMachine creates a CPU with its devices configured by the machine
// options. The keys of the options are held down on the returned keypad.
func CreateMachine(machine options.Machine) (*cpu.CPU, error) {
	quirks, err := cpu.QuirksByName(machine.Quirks)
	if err != nil {
		return nil, fmt.Errorf("selecting quirks: %w", err)
	}

	cpuOpts := []cpu.Option{cpu.WithQuirks(quirks)}
	if machine.Seed != 0 {
		cpuOpts = append(cpuOpts, cpu.WithSeed(machine.Seed))
	}
	c := cpu.NewWithDevices(cpuOpts...)

	for _, key := range machine.Keys {
		if err := c.Keys().Press(key); err != nil {
			return nil, fmt.Errorf("pressing key: %w", err)
		}
	}
	return c, nil
}
