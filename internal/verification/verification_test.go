package verification

import (
	"context"
	"testing"

	"github.com/retroenv/chip8vm/internal/config"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestCheckBufferEqual(t *testing.T) {
	logger := config.CreateLogger(false, true)

	tests := []struct {
		name   string
		input  []byte
		output []byte
		errMsg string
	}{
		{"equal", []byte{1, 2, 3}, []byte{1, 2, 3}, ""},
		{"empty", nil, []byte{}, ""},
		{"length", []byte{1, 2}, []byte{1}, "mismatched lengths, 2 != 1"},
		{"content", []byte{1, 2, 3}, []byte{1, 0, 0}, "2 offset mismatches"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkBufferEqual(logger, tt.input, tt.output)
			if tt.errMsg == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.errMsg)
			}
		})
	}
}

func TestVerifyDisassembly(t *testing.T) {
	logger := config.CreateLogger(false, true)
	rom := []byte{0x00, 0xE0, 0x12, 0x02}

	assert.NoError(t, VerifyDisassembly(logger, rom, []byte("cls\nloop: jp loop")))

	err := VerifyDisassembly(logger, rom, []byte("cls\njp $200"))
	assert.ErrorContains(t, err, "program mismatch: 1 offset mismatches")

	err = VerifyDisassembly(logger, rom, []byte("mov V0, V1"))
	assert.ErrorContains(t, err, "reassembling output")
}

func TestVerifyAssembly(t *testing.T) {
	rom := []byte{0xA2, 0x06, 0xD0, 0x15, 0x12, 0x04, 0xF0, 0x90, 0x90, 0x90, 0xF0}
	assert.NoError(t, VerifyAssembly(context.Background(), log.NewTestLogger(t), rom))
}
