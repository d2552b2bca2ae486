// Package display implements the monochrome 64x32 CHIP-8 framebuffer.
package display

import "strings"

const (
	// Width is the horizontal resolution in pixels.
	Width = 64
	// Height is the vertical resolution in pixels.
	Height = 32
)

// Frame is a copy of the framebuffer, indexed by row and column.
type Frame [Height][Width]bool

// Display is the framebuffer that sprites get drawn to.
type Display struct {
	pixels Frame
	dirty  bool
}

// New returns a cleared display.
func New() *Display {
	return &Display{}
}

// Clear unsets all pixels.
func (d *Display) Clear() {
	d.pixels = Frame{}
	d.dirty = true
}

// DrawSprite XORs the sprite rows onto the framebuffer with the top left
// corner at x, y. Every byte of the sprite is one row of 8 pixels, the most
// significant bit being the leftmost pixel. Coordinates wrap around the screen
// edges. It returns whether any lit pixel was unset by the draw.
func (d *Display) DrawSprite(x, y uint8, sprite []byte) bool {
	var collided bool

	for row, line := range sprite {
		py := (int(y) + row) % Height

		for col := range 8 {
			if line&(0x80>>col) == 0 {
				continue
			}

			px := (int(x) + col) % Width
			if d.pixels[py][px] {
				collided = true
			}
			d.pixels[py][px] = !d.pixels[py][px]
		}
	}

	d.dirty = true
	return collided
}

// Pixel returns whether the pixel at the given position is lit.
// Positions outside of the screen are never lit.
func (d *Display) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return d.pixels[y][x]
}

// Snapshot returns a copy of the framebuffer.
func (d *Display) Snapshot() Frame {
	return d.pixels
}

// Dirty returns whether the framebuffer changed since the last MarkClean call.
func (d *Display) Dirty() bool {
	return d.dirty
}

// MarkClean resets the dirty flag, to be called after a frame was presented.
func (d *Display) MarkClean() {
	d.dirty = false
}

// Lit returns the number of lit pixels.
func (d *Display) Lit() int {
	var count int
	for _, row := range d.pixels {
		for _, p := range row {
			if p {
				count++
			}
		}
	}
	return count
}

// String renders the framebuffer as text, one line per row.
func (d *Display) String() string {
	return d.pixels.String()
}

// String renders the frame as text, lit pixels are shown as # and unlit
// pixels as dots.
func (f Frame) String() string {
	var sb strings.Builder
	sb.Grow(Height * (Width + 1))

	for _, row := range f {
		for _, p := range row {
			if p {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
