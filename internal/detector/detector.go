// Package detector handles detection of the action to perform on an input file.
package detector

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Detector handles action detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new action detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the action from options or file auto-detection.
// It first checks if an action is explicitly specified in options, otherwise
// attempts to detect the action from the input filename extension.
func (d *Detector) Detect(opts options.Program) (options.Action, error) {
	action, ok := options.ParseAction(opts.Action)
	if !ok {
		return "", fmt.Errorf("unsupported action '%s', valid actions: %v", opts.Action, options.Actions)
	}

	if action == "" {
		action = d.detectFromFile(opts.Input)
		d.logger.Debug("Auto-detected action",
			log.Stringer("action", action),
			log.String("file", opts.Input))
	}
	return action, nil
}

// detectFromFile determines the action based on file extension.
func (d *Detector) detectFromFile(filename string) options.Action {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".asm", ".s", ".src", ".c8s":
		return options.ActionAssemble
	default:
		// ROM files use different extensions like .ch8, .c8 or .rom, default to running them
		return options.ActionRun
	}
}
