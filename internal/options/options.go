// Package options contains the program options.
package options

import "strings"

// Action defines what to do with an input file.
type Action string

// Supported actions.
const (
	ActionAssemble    Action = "asm"
	ActionDisassemble Action = "disasm"
	ActionRun         Action = "run"
)

func (a Action) String() string {
	return string(a)
}

// Actions lists all supported actions.
var Actions = []Action{ActionAssemble, ActionDisassemble, ActionRun}

// ParseAction returns the action for the given name, an empty name returns
// an empty action that signals detection from the file name.
func ParseAction(name string) (Action, bool) {
	name = strings.ToLower(name)
	switch name {
	case "":
		return "", true
	case "asm", "assemble":
		return ActionAssemble, true
	case "disasm", "disassemble":
		return ActionDisassemble, true
	case "run":
		return ActionRun, true
	default:
		return "", false
	}
}

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input ROM or assembly file"`
	Output string `flag:"o" usage:"output file (default: stdout for disassembly, .ch8 file for assembly)"`
	Batch  string `flag:"batch" usage:"batch process files matching pattern (e.g. *.ch8)"`
}

// Flags contains behavior options.
type Flags struct {
	Action string `flag:"a" usage:"action: asm, disasm, run (default: detect from file extension)"`
	Verify bool   `flag:"verify" usage:"verify output by converting it back and comparing to the input"`
	Debug  bool   `flag:"debug" usage:"enable debug logging"`
	Quiet  bool   `flag:"q" usage:"quiet mode"`
}

// OutputFlags contains output formatting options.
type OutputFlags struct {
	NoHexComments bool `flag:"nohexcomments" usage:"omit hex opcode bytes in comments"`
	NoOffsets     bool `flag:"nooffsets" usage:"omit addresses in comments"`
}

// RunFlags contains the raw options of the run action.
type RunFlags struct {
	Quirks      string `flag:"quirks" usage:"instruction behavior profile: vip, chip48" default:"vip"`
	Cycles      int    `flag:"cycles" usage:"maximum number of instructions to execute" default:"100000"`
	Speed       int    `flag:"speed" usage:"instructions per second" default:"700"`
	Breakpoints string `flag:"break" usage:"comma separated breakpoint addresses (e.g. 0x2A0,0x300)"`
	Keys        string `flag:"key" usage:"comma separated hex keys that are held down, a key wait sees them as a new press (e.g. 5,A)"`
	Seed        uint64 `flag:"seed" usage:"random number seed, 0 seeds from the current time"`
	Screen      bool   `flag:"screen" usage:"print the display after the run"`
	Realtime    bool   `flag:"realtime" usage:"run at the configured speed until interrupted"`
}

// Program options of the application.
type Program struct {
	Parameters
	Flags
	OutputFlags
	RunFlags
}

// Disassembler defines options to control the disassembler.
type Disassembler struct {
	EntryPoints    []uint16 // additional addresses that are traced as code
	HexComments    bool
	OffsetComments bool
}

// NewDisassembler returns a new options instance with default options.
func NewDisassembler() Disassembler {
	return Disassembler{
		HexComments:    true,
		OffsetComments: true,
	}
}

// Machine defines the options of the virtual machine and its debugger.
type Machine struct {
	Quirks      string
	Cycles      int     // instruction limit of a headless run
	Speed       int     // instructions per second
	Breakpoints []uint16
	Keys        []uint8 // keys held down during the run
	Seed        uint64  // random seed, 0 seeds from time
	Screen      bool
	Realtime    bool
}

// Default machine settings.
const (
	DefaultCycles = 100000
	DefaultSpeed  = 700
)

// NewMachine returns a new machine options instance with default options.
func NewMachine() Machine {
	return Machine{
		Quirks: "vip",
		Cycles: DefaultCycles,
		Speed:  DefaultSpeed,
	}
}
