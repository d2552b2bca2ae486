package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestString(t *testing.T) {
	tests := []struct {
		word     uint16
		expected string
	}{
		{0x00E0, "cls"},
		{0x00EE, "ret"},
		{0x0ABC, "sys $ABC"},
		{0x1208, "jp $208"},
		{0x2300, "call $300"},
		{0x3234, "se V2, $34"},
		{0x4F00, "sne VF, $00"},
		{0x5230, "se V2, V3"},
		{0x6A02, "ld VA, $02"},
		{0x7101, "add V1, $01"},
		{0x8120, "ld V1, V2"},
		{0x8121, "or V1, V2"},
		{0x8122, "and V1, V2"},
		{0x8123, "xor V1, V2"},
		{0x8AB4, "add VA, VB"},
		{0x8AB5, "sub VA, VB"},
		{0x8AA6, "shr VA"},
		{0x8AB6, "shr VA, VB"},
		{0x8AB7, "subn VA, VB"},
		{0x833E, "shl V3"},
		{0x834E, "shl V3, V4"},
		{0x9230, "sne V2, V3"},
		{0xA234, "ld I, $234"},
		{0xB400, "jp V0, $400"},
		{0xC30F, "rnd V3, $0F"},
		{0xD235, "drw V2, V3, $5"},
		{0xE29E, "skp V2"},
		{0xE2A1, "sknp V2"},
		{0xF207, "ld V2, DT"},
		{0xF20A, "ld V2, K"},
		{0xF215, "ld DT, V2"},
		{0xF218, "ld ST, V2"},
		{0xF21E, "add I, V2"},
		{0xF229, "ld F, V2"},
		{0xF233, "ld B, V2"},
		{0xF255, "ld [I], V2"},
		{0xF265, "ld V2, [I]"},
		{0xF2FF, ".word $F2FF"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, Decode(tt.word).String())
		})
	}
}

func TestFormatWithLabels(t *testing.T) {
	labels := func(address uint16) (string, bool) {
		if address == 0x208 {
			return "loop", true
		}
		return "", false
	}

	assert.Equal(t, "jp loop", Decode(0x1208).Format(labels))
	assert.Equal(t, "ld I, loop", Decode(0xA208).Format(labels))
	assert.Equal(t, "call $20A", Decode(0x220A).Format(labels))
	assert.Equal(t, "ld V1, $08", Decode(0x6108).Format(labels))
}
