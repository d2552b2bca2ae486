// Package timer implements the CHIP-8 delay and sound timers.
package timer

// Frequency is the rate in Hz at which Tick has to be called.
const Frequency = 60

// Timers contains the delay and sound countdown timers. Both count down
// towards zero with every tick and stop there.
type Timers struct {
	delay uint8
	sound uint8
}

// New returns timers that are both stopped.
func New() *Timers {
	return &Timers{}
}

// Tick decrements every timer that is not zero.
func (t *Timers) Tick() {
	if t.delay > 0 {
		t.delay--
	}
	if t.sound > 0 {
		t.sound--
	}
}

// Delay returns the value of the delay timer.
func (t *Timers) Delay() uint8 {
	return t.delay
}

// Sound returns the value of the sound timer.
func (t *Timers) Sound() uint8 {
	return t.sound
}

// SetDelay sets the delay timer.
func (t *Timers) SetDelay(value uint8) {
	t.delay = value
}

// SetSound sets the sound timer.
func (t *Timers) SetSound(value uint8) {
	t.sound = value
}

// Beeping returns whether the tone should be played.
func (t *Timers) Beeping() bool {
	return t.sound > 0
}

// Reset stops both timers.
func (t *Timers) Reset() {
	t.delay = 0
	t.sound = 0
}
