package pinch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayusman/aircursor/internal/detector"
)

var (
	index   = detector.Point3D{X: 0.5, Y: 0.5}
	pinched = detector.Point3D{X: 0.53, Y: 0.5} // 0.03 from index
	middle  = detector.Point3D{X: 0.60, Y: 0.5} // 0.10 from index
	open    = detector.Point3D{X: 0.70, Y: 0.5} // 0.20 from index
)

type frame struct {
	index, thumb detector.Point3D
}

func repeat(f frame, n int) []frame {
	out := make([]frame, n)
	for i := range out {
		out[i] = f
	}
	return out
}

// run feeds frames in order and returns the indices of frames that clicked.
func run(c *ClickDetector, state *State, frames []frame) []int {
	var clicks []int
	for i, f := range frames {
		if c.Update(state, f.index, f.thumb) {
			clicks = append(clicks, i)
		}
	}
	return clicks
}

// settled returns a state whose last index is already at index.
func settled() State {
	return State{LastIndex: index}
}

func TestClickDetector_SingleClickPerCycle(t *testing.T) {
	c := NewClickDetector(DefaultThresholds())
	state := settled()

	clicks := run(c, &state, repeat(frame{index, pinched}, 30))

	assert.Equal(t, []int{4}, clicks)
	assert.True(t, state.Pinching)
	assert.Equal(t, 30, state.HoldFrames)
}

func TestClickDetector_FewerThanHoldFramesNoClick(t *testing.T) {
	c := NewClickDetector(DefaultThresholds())
	state := settled()

	frames := append(repeat(frame{index, pinched}, 4), frame{index, open})
	frames = append(frames, repeat(frame{index, pinched}, 4)...)

	assert.Empty(t, run(c, &state, frames))
}

func TestClickDetector_RequiresReleaseBeforeSecondClick(t *testing.T) {
	c := NewClickDetector(DefaultThresholds())
	state := settled()

	t.Run("dead zone does not re-arm", func(t *testing.T) {
		frames := repeat(frame{index, pinched}, 5)
		frames = append(frames, repeat(frame{index, middle}, 3)...)
		frames = append(frames, repeat(frame{index, pinched}, 10)...)

		assert.Equal(t, []int{4}, run(c, &state, frames))
	})

	t.Run("release re-arms", func(t *testing.T) {
		frames := []frame{{index, open}}
		frames = append(frames, repeat(frame{index, pinched}, 5)...)

		assert.Equal(t, []int{5}, run(c, &state, frames))
	})
}

func TestClickDetector_MovementGate(t *testing.T) {
	c := NewClickDetector(DefaultThresholds())
	var state State

	var frames []frame
	for i := 0; i < 100; i++ {
		// Index travels 0.025 per frame with the thumb tucked against it.
		tip := detector.Point3D{X: 0.1 + float64(i)*0.025, Y: 0.5}
		frames = append(frames, frame{tip, detector.Point3D{X: tip.X + 0.01, Y: 0.5}})
	}

	assert.Empty(t, run(c, &state, frames))
	assert.Zero(t, state.HoldFrames)
}

func TestClickDetector_MovingPinchHoldsCount(t *testing.T) {
	c := NewClickDetector(DefaultThresholds())
	state := settled()

	run(c, &state, repeat(frame{index, pinched}, 3))
	assert.Equal(t, 3, state.HoldFrames)

	moved := detector.Point3D{X: 0.6, Y: 0.5}
	assert.False(t, c.Update(&state, moved, detector.Point3D{X: 0.61, Y: 0.5}))
	assert.Equal(t, 3, state.HoldFrames)
	assert.Equal(t, moved, state.LastIndex)
}

func TestClickDetector_FirstFrameMeasuresFromOrigin(t *testing.T) {
	c := NewClickDetector(DefaultThresholds())
	var state State

	// The first pinched frame jumps from (0,0) so it does not count.
	clicks := run(c, &state, repeat(frame{index, pinched}, 6))

	assert.Equal(t, []int{5}, clicks)
}

func TestState_Reset(t *testing.T) {
	state := State{Pinching: true, HoldFrames: 7, LastIndex: index}

	state.Reset()

	assert.Equal(t, State{LastIndex: index}, state)
}
