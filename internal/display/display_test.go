package display

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"

	"github.com/ayusman/aircursor/internal/app"
	"github.com/ayusman/aircursor/internal/detector"
	"github.com/ayusman/aircursor/internal/gesture"
	"github.com/ayusman/aircursor/internal/pinch"
)

func TestToPixel(t *testing.T) {
	size := image.Pt(640, 480)

	assert.Equal(t, image.Pt(0, 0), ToPixel(detector.Point3D{}, size))
	assert.Equal(t, image.Pt(320, 240), ToPixel(detector.Point3D{X: 0.5, Y: 0.5}, size))
	assert.Equal(t, image.Pt(640, 480), ToPixel(detector.Point3D{X: 1, Y: 1, Z: 0.3}, size))
}

func TestHUD(t *testing.T) {
	hand := detector.OpenPalmLandmarks()

	tests := []struct {
		name  string
		frame app.Frame
		want  []string
	}{
		{name: "paused", frame: app.Frame{Paused: true}, want: []string{"paused"}},
		{name: "no hand", frame: app.Frame{}, want: []string{"no hand"}},
		{
			name:  "tracking",
			frame: app.Frame{HandFound: true, Hand: &hand, Cursor: image.Pt(12, 34)},
			want:  []string{"cursor 12,34"},
		},
		{
			name: "holding a gesture while pinching",
			frame: app.Frame{
				HandFound: true,
				Held:      gesture.State{Current: gesture.Minimize, HoldFrames: 4},
				Pinch:     pinch.State{HoldFrames: 2},
			},
			want: []string{"cursor 0,0", "minimize 4", "pinch 2"},
		},
		{
			name:  "fired",
			frame: app.Frame{HandFound: true, Fired: gesture.Close, Pinch: pinch.State{Pinching: true}},
			want:  []string{"cursor 0,0", "pinch", "close!"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HUD(tt.frame))
		})
	}
}

func TestKeyCode(t *testing.T) {
	assert.Equal(t, int('q'), KeyCode("q"))
	assert.Equal(t, 27, KeyCode(""))
}

func TestAnnotate_DrawsOnFrame(t *testing.T) {
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 240, 320, gocv.MatTypeCV8UC3)
	defer mat.Close()

	hand := detector.OpenPalmLandmarks()
	Annotate(&mat, app.Frame{HandFound: true, Hand: &hand})

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)
	assert.Positive(t, gocv.CountNonZero(gray))
}

func TestAnnotate_EmptyMat(t *testing.T) {
	mat := gocv.NewMat()
	defer mat.Close()

	assert.NotPanics(t, func() { Annotate(&mat, app.Frame{Paused: true}) })
	assert.NotPanics(t, func() { Annotate(nil, app.Frame{}) })
}

func TestPreviewImplementsRenderer(t *testing.T) {
	var _ app.Renderer = (*Preview)(nil)
}
