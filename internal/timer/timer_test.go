package timer

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestTickClampsAtZero(t *testing.T) {
	tm := New()
	tm.SetDelay(10)

	for range 10 {
		tm.Tick()
	}
	assert.Equal(t, uint8(0), tm.Delay())

	tm.Tick()
	assert.Equal(t, uint8(0), tm.Delay())
}

func TestBeeping(t *testing.T) {
	tm := New()
	assert.False(t, tm.Beeping())

	tm.SetSound(2)
	assert.True(t, tm.Beeping())
	tm.Tick()
	assert.True(t, tm.Beeping())
	tm.Tick()
	assert.False(t, tm.Beeping())
	assert.Equal(t, uint8(0), tm.Sound())
}

func TestTimersIndependent(t *testing.T) {
	tm := New()
	tm.SetDelay(3)
	tm.SetSound(1)

	tm.Tick()
	assert.Equal(t, uint8(2), tm.Delay())
	assert.Equal(t, uint8(0), tm.Sound())

	tm.Reset()
	assert.Equal(t, uint8(0), tm.Delay())
	assert.False(t, tm.Beeping())
}
