package display

import (
	"fmt"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDrawSprite(t *testing.T) {
	d := New()
	sprite := []byte{0xF0, 0x90, 0xF0}

	collided := d.DrawSprite(10, 5, sprite)
	assert.False(t, collided)
	assert.True(t, d.Dirty())
	assert.True(t, d.Pixel(10, 5))
	assert.True(t, d.Pixel(13, 5))
	assert.False(t, d.Pixel(14, 5))
	assert.True(t, d.Pixel(10, 6))
	assert.False(t, d.Pixel(11, 6))
	assert.Equal(t, 10, d.Lit())

	// drawing the same sprite again erases it and reports the collision
	collided = d.DrawSprite(10, 5, sprite)
	assert.True(t, collided)
	assert.Equal(t, 0, d.Lit())
}

func TestDrawSpriteWraps(t *testing.T) {
	tests := []struct {
		name   string
		x, y   uint8
		pixels [][2]int
	}{
		{
			name:   "right edge",
			x:      62,
			y:      0,
			pixels: [][2]int{{62, 0}, {63, 0}, {0, 0}, {1, 0}},
		},
		{
			name:   "bottom edge",
			x:      0,
			y:      31,
			pixels: [][2]int{{0, 31}, {0, 0}},
		},
		{
			name:   "coordinates beyond the screen",
			x:      64 + 3,
			y:      32 + 2,
			pixels: [][2]int{{3, 2}, {3, 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			var sprite []byte
			if len(tt.pixels) == 4 {
				sprite = []byte{0xF0}
			} else {
				sprite = []byte{0x80, 0x80}
			}

			d.DrawSprite(tt.x, tt.y, sprite)
			for _, p := range tt.pixels {
				assert.True(t, d.Pixel(p[0], p[1]), fmt.Sprintf("pixel %v should be lit", p))
			}
			assert.Equal(t, len(tt.pixels), d.Lit())
		})
	}
}

func TestClear(t *testing.T) {
	d := New()
	d.DrawSprite(0, 0, []byte{0xFF, 0xFF})
	d.MarkClean()
	assert.False(t, d.Dirty())

	d.Clear()
	assert.True(t, d.Dirty())
	assert.Equal(t, Frame{}, d.Snapshot())
}

func TestPixelOutside(t *testing.T) {
	d := New()
	d.DrawSprite(0, 0, []byte{0x80})
	assert.False(t, d.Pixel(-1, 0))
	assert.False(t, d.Pixel(Width, 0))
	assert.False(t, d.Pixel(0, Height))
}

func TestString(t *testing.T) {
	d := New()
	d.DrawSprite(1, 0, []byte{0x80})

	lines := strings.Split(strings.TrimSuffix(d.String(), "\n"), "\n")
	assert.Len(t, lines, Height)
	assert.True(t, strings.HasPrefix(lines[0], ".#."))
	assert.Equal(t, strings.Repeat(".", Width), lines[1])
}
