package fileprocessor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestGenerateOutputFilename(t *testing.T) {
	tests := []struct {
		input    string
		action   options.Action
		expected string
	}{
		{"games/pong.ch8", options.ActionDisassemble, "games/pong.asm"},
		{"games/pong.c8s", options.ActionAssemble, "games/pong.ch8"},
		{"pong", options.ActionDisassemble, "pong.asm"},
		{"pong.ch8", options.ActionRun, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input+"_"+tt.action.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, GenerateOutputFilename(tt.input, tt.action))
		})
	}
}

func TestGetFilesToProcess(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"a.ch8", "b.ch8", "c.asm"} {
		assert.NoError(t, os.WriteFile(filepath.Join(tmpDir, name), []byte{0x00, 0xE0}, 0600))
	}

	opts := &options.Program{Parameters: options.Parameters{Batch: filepath.Join(tmpDir, "*.ch8")}}
	files, err := GetFilesToProcess(opts)
	assert.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(tmpDir, "a.ch8"), filepath.Join(tmpDir, "b.ch8")}, files)

	opts = &options.Program{Parameters: options.Parameters{Input: "single.ch8"}}
	files, err = GetFilesToProcess(opts)
	assert.NoError(t, err)
	assert.Equal(t, []string{"single.ch8"}, files)
}

func TestProcessFile(t *testing.T) {
	logger := log.NewTestLogger(t)
	tmpDir := t.TempDir()

	source := filepath.Join(tmpDir, "loop.c8s")
	assert.NoError(t, os.WriteFile(source, []byte("Start:\n    ld v1, $0A\n    jp Start\n"), 0600))

	rom := filepath.Join(tmpDir, "loop.ch8")
	opts := options.Program{
		Parameters: options.Parameters{Input: source, Output: rom},
		Flags:      options.Flags{Verify: true, Quiet: true},
	}
	result, err := ProcessFile(context.Background(), logger, opts, options.NewDisassembler(), options.NewMachine())
	assert.NoError(t, err)
	assert.Equal(t, options.ActionAssemble, result.Action)

	data, err := os.ReadFile(rom)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x61, 0x0A, 0x12, 0x00}, data)

	listing := filepath.Join(tmpDir, "loop.asm")
	opts = options.Program{
		Parameters: options.Parameters{Input: rom, Output: listing},
		Flags:      options.Flags{Action: "disasm", Verify: true, Quiet: true},
	}
	_, err = ProcessFile(context.Background(), logger, opts, options.NewDisassembler(), options.NewMachine())
	assert.NoError(t, err)

	data, err = os.ReadFile(listing)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "jp Start")
}

func TestProcessFileOutputError(t *testing.T) {
	opts := options.Program{
		Parameters: options.Parameters{
			Input:  "missing.ch8",
			Output: filepath.Join(t.TempDir(), "missing", "dir", "out.asm"),
		},
	}
	_, err := ProcessFile(context.Background(), log.NewTestLogger(t), opts,
		options.NewDisassembler(), options.NewMachine())
	assert.ErrorContains(t, err, "creating writer")
}
