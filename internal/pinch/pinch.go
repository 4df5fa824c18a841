// Package pinch detects thumb-to-index pinches and turns them into clicks.
package pinch

import (
	"github.com/ayusman/aircursor/internal/detector"
	"github.com/ayusman/aircursor/internal/geometry"
)

// Thresholds tune the click detector. Press must be below Release.
type Thresholds struct {
	Press      float64 // pinch distance that starts counting
	Release    float64 // pinch distance that re-arms the click
	Movement   float64 // max index travel per frame while counting
	HoldFrames int     // steady pinched frames before the click
}

// DefaultThresholds returns the stock click thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Press:      0.08,
		Release:    0.12,
		Movement:   0.02,
		HoldFrames: 5,
	}
}

// State is the click detector's carried-over state. The zero value is the
// initial state, with the last index position at the image origin.
type State struct {
	Pinching   bool
	HoldFrames int
	LastIndex  detector.Point3D
}

// ClickDetector is a two-threshold pinch detector gated on finger movement.
type ClickDetector struct {
	Thresholds Thresholds
}

// NewClickDetector creates a ClickDetector.
func NewClickDetector(t Thresholds) *ClickDetector {
	return &ClickDetector{Thresholds: t}
}

// Update advances state by one frame and reports whether a click fires.
//
// A steady pinch tighter than Press counts frames and clicks once after
// HoldFrames. Nothing else clicks until the fingers open wider than Release.
// Between the two thresholds the state is held.
func (c *ClickDetector) Update(state *State, index, thumb detector.Point3D) bool {
	distance := geometry.Distance(index, thumb)
	movement := geometry.Distance(index, state.LastIndex)
	state.LastIndex = index

	switch {
	case distance < c.Thresholds.Press && movement < c.Thresholds.Movement:
		state.HoldFrames++
		if state.HoldFrames >= c.Thresholds.HoldFrames && !state.Pinching {
			state.Pinching = true
			return true
		}
	case distance > c.Thresholds.Release:
		state.HoldFrames = 0
		state.Pinching = false
	}

	return false
}

// Reset clears pinch progress but keeps the last index position.
func (s *State) Reset() {
	s.Pinching = false
	s.HoldFrames = 0
}
