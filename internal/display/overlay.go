// Package display draws the pipeline's view of the hand onto camera frames
// and shows them in a desktop window.
package display

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/aircursor/internal/app"
	"github.com/ayusman/aircursor/internal/detector"
	"github.com/ayusman/aircursor/internal/gesture"
)

var (
	boneColor   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	jointColor  = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	pinchColor  = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	textColor   = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	pausedColor = color.RGBA{R: 0, G: 165, B: 255, A: 255}
)

// Annotate draws the hand skeleton and a status line onto mat in place.
func Annotate(mat *gocv.Mat, f app.Frame) {
	if mat == nil || mat.Empty() {
		return
	}
	size := image.Pt(mat.Cols(), mat.Rows())

	if f.Hand != nil {
		drawHand(mat, f.Hand, size, f.Pinch.Pinching)
	}

	for i, line := range HUD(f) {
		c := textColor
		if f.Paused {
			c = pausedColor
		}
		gocv.PutText(mat, line, image.Pt(10, 24+i*22), gocv.FontHersheyPlain, 1.4, c, 2)
	}
}

func drawHand(mat *gocv.Mat, hand *detector.HandLandmarks, size image.Point, pinching bool) {
	for _, c := range detector.Connections {
		gocv.Line(mat, ToPixel(hand.Points[c[0]], size), ToPixel(hand.Points[c[1]], size), boneColor, 2)
	}
	for _, p := range hand.Points {
		gocv.Circle(mat, ToPixel(p, size), 4, jointColor, -1)
	}
	if pinching {
		gocv.Circle(mat, ToPixel(hand.Points[detector.IndexTip], size), 10, pinchColor, 2)
	}
}

// ToPixel converts a normalized landmark to image coordinates.
func ToPixel(p detector.Point3D, size image.Point) image.Point {
	return image.Pt(int(p.X*float64(size.X)), int(p.Y*float64(size.Y)))
}

// HUD returns the status lines drawn over the frame.
func HUD(f app.Frame) []string {
	if f.Paused {
		return []string{"paused"}
	}
	if !f.HandFound {
		return []string{"no hand"}
	}

	lines := []string{fmt.Sprintf("cursor %d,%d", f.Cursor.X, f.Cursor.Y)}
	if f.Held.Current != gesture.None {
		lines = append(lines, fmt.Sprintf("%s %d", f.Held.Current, f.Held.HoldFrames))
	}
	if f.Pinch.Pinching {
		lines = append(lines, "pinch")
	} else if f.Pinch.HoldFrames > 0 {
		lines = append(lines, fmt.Sprintf("pinch %d", f.Pinch.HoldFrames))
	}
	if f.Fired != gesture.None {
		lines = append(lines, f.Fired.String()+"!")
	}
	return lines
}
