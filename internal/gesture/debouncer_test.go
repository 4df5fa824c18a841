package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// feed steps the debouncer n times with label and returns every fired label.
func feed(d *Debouncer, state *State, label Label, n int) []Label {
	var fired []Label
	for i := 0; i < n; i++ {
		if got, ok := d.Step(state, label); ok {
			fired = append(fired, got)
		}
	}
	return fired
}

func TestDebouncer_InitialStateDoesNotFire(t *testing.T) {
	d := NewDebouncer(DefaultHoldFrames)
	var state State

	_, ok := d.Step(&state, Minimize)

	assert.False(t, ok)
	assert.Equal(t, State{Current: Minimize, HoldFrames: 0}, state)
}

func TestDebouncer_FiresOnHoldFramesRepeat(t *testing.T) {
	d := NewDebouncer(DefaultHoldFrames)
	state := State{Current: Close}

	fired := feed(d, &state, Close, DefaultHoldFrames-1)
	assert.Empty(t, fired)
	assert.Equal(t, DefaultHoldFrames-1, state.HoldFrames)

	label, ok := d.Step(&state, Close)
	assert.True(t, ok)
	assert.Equal(t, Close, label)
	assert.Equal(t, 0, state.HoldFrames)
	assert.Equal(t, Close, state.Current)
}

func TestDebouncer_RepeatFiresWhileHeld(t *testing.T) {
	d := NewDebouncer(DefaultHoldFrames)
	var state State

	// One frame to become current, then three full cycles.
	fired := feed(d, &state, Minimize, 1+3*DefaultHoldFrames)

	assert.Equal(t, []Label{Minimize, Minimize, Minimize}, fired)
	assert.Equal(t, 0, state.HoldFrames)
}

func TestDebouncer_ChangeResetsCount(t *testing.T) {
	d := NewDebouncer(DefaultHoldFrames)
	var state State

	feed(d, &state, Minimize, DefaultHoldFrames)
	assert.Equal(t, DefaultHoldFrames-1, state.HoldFrames)

	_, ok := d.Step(&state, Close)
	assert.False(t, ok)
	assert.Equal(t, State{Current: Close, HoldFrames: 0}, state)

	assert.Empty(t, feed(d, &state, Close, DefaultHoldFrames-1))
}

func TestDebouncer_NoneNeverFires(t *testing.T) {
	d := NewDebouncer(1)
	var state State

	assert.Empty(t, feed(d, &state, None, 50))
	assert.Equal(t, State{}, state)
}

func TestDebouncer_NoneInterruptsHold(t *testing.T) {
	d := NewDebouncer(3)
	var state State

	feed(d, &state, Close, 3)
	d.Step(&state, None)
	assert.Equal(t, State{Current: None}, state)

	// Must re-establish, then hold again.
	assert.Empty(t, feed(d, &state, Close, 3))
	assert.Len(t, feed(d, &state, Close, 1), 1)
}
