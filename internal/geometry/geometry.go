// Package geometry holds the planar measurements the gesture and click
// detectors are built on.
package geometry

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ayusman/aircursor/internal/detector"
)

// Distance returns the Euclidean distance between a and b in the image
// plane. Depth is ignored.
func Distance(a, b detector.Point3D) float64 {
	return r2.Norm(r2.Sub(planar(a), planar(b)))
}

// HandOpenness returns the largest planar distance between any two of the
// given fingertips. A small value means the fingers are bunched together.
// Fewer than two points yield 0.
func HandOpenness(tips []detector.Point3D) float64 {
	var widest float64
	for i := 0; i < len(tips); i++ {
		for j := i + 1; j < len(tips); j++ {
			widest = max(widest, Distance(tips[i], tips[j]))
		}
	}
	return widest
}

// HandOrientation returns how far the middle fingertip sits behind the
// wrist in depth. Large positive values mean the hand has been turned over.
func HandOrientation(wrist, middleTip detector.Point3D) float64 {
	return middleTip.Z - wrist.Z
}

func planar(p detector.Point3D) r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}
