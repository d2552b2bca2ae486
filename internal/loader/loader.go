// Package loader handles ROM and source file loading operations.
package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/retroenv/chip8vm/internal/memory"
	"github.com/retroenv/chip8vm/internal/options"
)

// Loader handles loading input files from disk.
type Loader struct{}

// New creates a new file loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the input file of the options. Assembly sources are returned
// as is, ROM files are checked to fit into the program memory.
func (l *Loader) Load(opts options.Program, action options.Action) ([]byte, error) {
	file, err := os.Open(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", opts.Input, err)
	}
	defer func() { _ = file.Close() }()

	if action == options.ActionAssemble {
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, fmt.Errorf("reading source file %s: %w", opts.Input, err)
		}
		return data, nil
	}

	// read one byte more than allowed to detect oversized ROMs without
	// reading arbitrary large files
	data, err := io.ReadAll(io.LimitReader(file, memory.MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading ROM file %s: %w", opts.Input, err)
	}
	if len(data) > memory.MaxProgramSize {
		return nil, fmt.Errorf("loading ROM file %s: %w", opts.Input, memory.ErrRomTooLarge)
	}
	return data, nil
}
