package app

import (
	"context"
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/aircursor/internal/action"
	"github.com/ayusman/aircursor/internal/detector"
	"github.com/ayusman/aircursor/internal/gesture"
	"github.com/ayusman/aircursor/internal/pinch"
	"github.com/ayusman/aircursor/internal/pointer"
)

// Tuning is the live-adjustable part of the pipeline.
type Tuning struct {
	Gesture     gesture.Thresholds
	GestureHold int
	Pinch       pinch.Thresholds
	Input       pointer.Range
	Smoothing   float64
}

// DefaultTuning returns the stock thresholds.
func DefaultTuning() Tuning {
	return Tuning{
		Gesture:     gesture.DefaultThresholds(),
		GestureHold: gesture.DefaultHoldFrames,
		Pinch:       pinch.DefaultThresholds(),
		Input:       pointer.Range{Min: 0.2, Max: 0.8},
		Smoothing:   0.5,
	}
}

// Frame is what the pipeline decided for one processed frame.
type Frame struct {
	Seq       uint64                  `json:"seq"`
	At        time.Time               `json:"at"`
	HandFound bool                    `json:"hand_found"`
	Hand      *detector.HandLandmarks `json:"hand,omitempty"`
	Gesture   gesture.Label           `json:"gesture"`
	Held      gesture.State           `json:"held"`
	Fired     gesture.Label           `json:"fired"`
	Cursor    image.Point             `json:"cursor"`
	Pinch     pinch.State             `json:"pinch"`
	Clicked   bool                    `json:"clicked"`
	Paused    bool                    `json:"paused"`
	Errors    []string                `json:"errors,omitempty"`
}

// Pipeline runs the per-frame decisions and owns all the state they carry
// between frames. It is not safe for concurrent use.
type Pipeline struct {
	classifier *gesture.Classifier
	debouncer  *gesture.Debouncer
	mapper     *pointer.Mapper
	clicker    *pinch.ClickDetector
	sink       action.Sink
	logger     *zap.Logger

	resetOnHandLoss bool

	held   gesture.State
	cursor pointer.CursorState
	pinch  pinch.State
	seq    uint64
	last   image.Point
}

// NewPipeline creates a Pipeline mapping onto screen and acting through
// sink. With resetOnHandLoss set, a frame without a hand clears gesture and
// pinch progress; otherwise all state is frozen until the hand returns.
func NewPipeline(t Tuning, screen image.Rectangle, resetOnHandLoss bool, sink action.Sink, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pipeline{
		classifier:      gesture.NewClassifier(t.Gesture),
		debouncer:       gesture.NewDebouncer(t.GestureHold),
		mapper:          pointer.NewMapper(pointer.Config{Input: t.Input, Smoothing: t.Smoothing, Screen: screen}),
		clicker:         pinch.NewClickDetector(t.Pinch),
		sink:            sink,
		logger:          logger,
		resetOnHandLoss: resetOnHandLoss,
	}
	return p
}

// Retune swaps thresholds in place. Carried state is kept.
func (p *Pipeline) Retune(t Tuning) {
	p.classifier.Thresholds = t.Gesture
	p.debouncer.HoldFrames = t.GestureHold
	p.clicker.Thresholds = t.Pinch
	p.mapper.Config.Input = t.Input
	p.mapper.Config.Smoothing = t.Smoothing
}

// Tuning returns the thresholds currently in effect.
func (p *Pipeline) Tuning() Tuning {
	return Tuning{
		Gesture:     p.classifier.Thresholds,
		GestureHold: p.debouncer.HoldFrames,
		Pinch:       p.clicker.Thresholds,
		Input:       p.mapper.Config.Input,
		Smoothing:   p.mapper.Config.Smoothing,
	}
}

// Process runs one frame. hand is nil when nothing was detected. Sink
// errors are logged and reported in the returned Frame; they never stop
// the remaining steps.
func (p *Pipeline) Process(ctx context.Context, hand *detector.HandLandmarks) Frame {
	p.seq++
	f := Frame{Seq: p.seq, At: time.Now()}

	if hand == nil {
		if p.resetOnHandLoss {
			p.held = gesture.State{}
			p.pinch.Reset()
		}
		return p.snapshot(f)
	}
	f.HandFound = true
	h := *hand
	f.Hand = &h

	f.Gesture = p.classifier.Classify(hand)
	if label, ok := p.debouncer.Step(&p.held, f.Gesture); ok {
		f.Fired = label
		p.check(&f, label.String(), p.fire(ctx, label))
	}

	index := hand.Points[detector.IndexTip]
	x, y := p.mapper.Map(&p.cursor, index)
	p.last = image.Pt(x, y)
	p.check(&f, string(action.KindMove), p.sink.MoveCursorTo(ctx, x, y))

	if p.clicker.Update(&p.pinch, index, hand.Points[detector.ThumbTip]) {
		f.Clicked = true
		p.check(&f, string(action.KindClick), p.sink.Click(ctx))
	}

	return p.snapshot(f)
}

func (p *Pipeline) fire(ctx context.Context, label gesture.Label) error {
	switch label {
	case gesture.Minimize:
		return p.sink.MinimizeActiveWindow(ctx)
	case gesture.Close:
		return p.sink.CloseActiveWindow(ctx)
	case gesture.None:
	}
	return nil
}

func (p *Pipeline) check(f *Frame, what string, err error) {
	if err == nil {
		return
	}
	p.logger.Warn("action failed", zap.String("action", what), zap.Uint64("seq", f.Seq), zap.Error(err))
	f.Errors = append(f.Errors, what+": "+err.Error())
}

func (p *Pipeline) snapshot(f Frame) Frame {
	f.Held = p.held
	f.Cursor = p.last
	f.Pinch = p.pinch
	return f
}

// Paused returns a snapshot for a frame that was captured while the
// pipeline was disabled. No state changes.
func (p *Pipeline) Paused() Frame {
	return p.snapshot(Frame{Seq: p.seq, At: time.Now(), Paused: true})
}
