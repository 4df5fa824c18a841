// Package pointer maps a normalized fingertip position onto the screen.
package pointer

import (
	"image"
	"math"

	"github.com/ayusman/aircursor/internal/detector"
)

// Range is the band of normalized camera space that spans the whole screen.
type Range struct {
	Min float64
	Max float64
}

// Config tunes the mapper.
type Config struct {
	Input     Range
	Smoothing float64         // fraction of the remaining distance covered per frame, in (0, 1]
	Screen    image.Rectangle // target rectangle in desktop coordinates
}

// DefaultConfig returns the stock mapping onto a screen of the given size.
func DefaultConfig(width, height int) Config {
	return Config{
		Input:     Range{Min: 0.2, Max: 0.8},
		Smoothing: 0.5,
		Screen:    image.Rect(0, 0, width, height),
	}
}

// CursorState holds the previous smoothed output in screen-local
// coordinates. The zero value starts the cursor at the screen origin.
type CursorState struct {
	X float64
	Y float64
}

// Mapper remaps and smooths fingertip positions.
type Mapper struct {
	Config Config
}

// NewMapper creates a Mapper.
func NewMapper(cfg Config) *Mapper {
	return &Mapper{Config: cfg}
}

// Map advances state toward the fingertip's screen position and returns the
// rounded desktop coordinates to move the cursor to.
func (m *Mapper) Map(state *CursorState, tip detector.Point3D) (int, int) {
	x, y := m.Target(tip)

	state.X += (x - state.X) * m.Config.Smoothing
	state.Y += (y - state.Y) * m.Config.Smoothing

	origin := m.Config.Screen.Min
	return origin.X + int(math.Round(state.X)), origin.Y + int(math.Round(state.Y))
}

// Target returns the unsmoothed screen-local position for tip.
func (m *Mapper) Target(tip detector.Point3D) (float64, float64) {
	size := m.Config.Screen.Size()
	return remap(tip.X, m.Config.Input, float64(size.X)), remap(tip.Y, m.Config.Input, float64(size.Y))
}

// remap linearly maps v from r onto [0, span], clamping outside r.
func remap(v float64, r Range, span float64) float64 {
	if v <= r.Min {
		return 0
	}
	if v >= r.Max {
		return span
	}
	return (v - r.Min) / (r.Max - r.Min) * span
}
