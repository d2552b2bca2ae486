package memory

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestNew(t *testing.T) {
	m := New()

	b, err := m.Read(FontStart)
	assert.NoError(t, err)
	assert.Equal(t, byte(0xF0), b)

	// last byte of the sprite for F
	b, err = m.Read(FontAddress(0xF) + FontSpriteSize - 1)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x80), b)

	b, err = m.Read(ProgramStart)
	assert.NoError(t, err)
	assert.Equal(t, byte(0), b)
}

func TestLoadProgram(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{name: "empty", size: 0},
		{name: "small", size: 4},
		{name: "exact maximum", size: MaxProgramSize},
		{name: "one byte too large", size: MaxProgramSize + 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			program := make([]byte, tt.size)
			for i := range program {
				program[i] = byte(i)
			}

			err := m.LoadProgram(program)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrRomTooLarge))
				return
			}
			assert.NoError(t, err)

			loaded, err := m.ReadRange(ProgramStart, tt.size)
			assert.NoError(t, err)
			assert.Equal(t, program, loaded)
		})
	}
}

func TestLoadProgramClearsPrevious(t *testing.T) {
	m := New()
	assert.NoError(t, m.LoadProgram([]byte{1, 2, 3, 4}))
	assert.NoError(t, m.LoadProgram([]byte{9}))

	data, err := m.ReadRange(ProgramStart, 4)
	assert.NoError(t, err)
	assert.Equal(t, []byte{9, 0, 0, 0}, data)

	// font survives program loads
	b, err := m.Read(FontStart)
	assert.NoError(t, err)
	assert.Equal(t, byte(0xF0), b)
}

func TestReadWrite(t *testing.T) {
	m := New()

	assert.NoError(t, m.Write(0xFFF, 0xAB))
	b, err := m.Read(0xFFF)
	assert.NoError(t, err)
	assert.Equal(t, byte(0xAB), b)

	err = m.Write(Size, 1)
	assert.True(t, errors.Is(err, ErrOutOfBounds))

	_, err = m.Read(Size)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
}

func TestReadWord(t *testing.T) {
	m := New()
	assert.NoError(t, m.WriteRange(0x300, []byte{0x12, 0x34}))

	w, err := m.ReadWord(0x300)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x1234), w)

	_, err = m.ReadWord(0xFFF)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
}

func TestRanges(t *testing.T) {
	tests := []struct {
		name    string
		address uint16
		length  int
		wantErr bool
	}{
		{name: "inside", address: 0x200, length: 16},
		{name: "ends at last byte", address: 0xFF0, length: 16},
		{name: "crosses end", address: 0xFF1, length: 16, wantErr: true},
		{name: "starts outside", address: 0x1000, length: 1, wantErr: true},
		{name: "zero length at end", address: 0x1000, length: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			err := m.WriteRange(tt.address, make([]byte, tt.length))
			_, readErr := m.ReadRange(tt.address, tt.length)

			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrOutOfBounds))
				assert.True(t, errors.Is(readErr, ErrOutOfBounds))
				return
			}
			assert.NoError(t, err)
			assert.NoError(t, readErr)
		})
	}
}

func TestFontAddress(t *testing.T) {
	assert.Equal(t, uint16(0), FontAddress(0))
	assert.Equal(t, uint16(50), FontAddress(0xA))
	assert.Equal(t, uint16(75), FontAddress(0x1F))
}
