// Package input implements the 16 key hexadecimal CHIP-8 keypad state.
package input

import (
	"errors"
	"fmt"
	"sync"
)

// KeyCount is the number of keys on the keypad.
const KeyCount = 16

// ErrInvalidKey is returned for key indexes outside of 0-F.
var ErrInvalidKey = errors.New("invalid key")

// Mask is a bitmask of pressed keys, bit n being set when key n is down.
type Mask uint16

// Pressed returns whether the key is set in the mask.
func (m Mask) Pressed(key uint8) bool {
	return key < KeyCount && m&(1<<key) != 0
}

// Lowest returns the lowest key set in the mask.
func (m Mask) Lowest() (uint8, bool) {
	for key := range uint8(KeyCount) {
		if m.Pressed(key) {
			return key, true
		}
	}
	return 0, false
}

// Keypad holds the pressed state of all keys. It is written by the driver
// and read by the CPU, which can happen from different goroutines.
type Keypad struct {
	mu   sync.RWMutex
	keys Mask
}

// New returns a keypad with all keys released.
func New() *Keypad {
	return &Keypad{}
}

// Press marks the key as pressed.
func (k *Keypad) Press(key uint8) error {
	return k.Set(key, true)
}

// Release marks the key as released.
func (k *Keypad) Release(key uint8) error {
	return k.Set(key, false)
}

// Set sets the pressed state of the key.
func (k *Keypad) Set(key uint8, down bool) error {
	if key >= KeyCount {
		return fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}

	k.mu.Lock()
	if down {
		k.keys |= 1 << key
	} else {
		k.keys &^= 1 << key
	}
	k.mu.Unlock()
	return nil
}

// IsPressed returns whether the key is currently pressed.
func (k *Keypad) IsPressed(key uint8) bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.keys.Pressed(key)
}

// Mask returns a snapshot of all pressed keys.
func (k *Keypad) Mask() Mask {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.keys
}

// ReleaseAll releases all keys.
func (k *Keypad) ReleaseAll() {
	k.mu.Lock()
	k.keys = 0
	k.mu.Unlock()
}
