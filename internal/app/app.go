// Package app runs the capture, detect, decide and act loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"
	"golang.org/x/time/rate"

	"github.com/ayusman/aircursor/internal/action"
	"github.com/ayusman/aircursor/internal/capture"
	"github.com/ayusman/aircursor/internal/detector"
)

// DefaultFPS is the loop rate used when Config.FPS is unset.
const DefaultFPS = 30

// FrameObserver receives every frame the loop produces. annotated is only
// valid for the duration of the call and may be nil.
type FrameObserver interface {
	OnFrame(f Frame, annotated *gocv.Mat)
}

// Renderer shows the annotated camera frame and reports whether the user
// asked to quit.
type Renderer interface {
	Show(frame *gocv.Mat) (quit bool)
	Close() error
}

// Config wires the loop to its source, sink and optional outputs.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector
	Sink     action.Sink

	// Annotate draws the frame decision onto the camera image before it is
	// shown or handed to observers. Optional.
	Annotate  func(mat *gocv.Mat, f Frame)
	Renderer  Renderer
	Observers []FrameObserver

	Tuning          Tuning
	Screen          image.Rectangle
	FPS             int
	ResetOnHandLoss bool

	Logger *zap.Logger
}

// Stats counts what the loop has done since Run started.
type Stats struct {
	Frames          uint64 `json:"frames"`
	CaptureFailures uint64 `json:"capture_failures"`
	DetectFailures  uint64 `json:"detect_failures"`
	ActionFailures  uint64 `json:"action_failures"`
}

// App owns the camera, the detector and the pipeline. Run drives them from
// a single goroutine; the remaining methods are safe to call from others.
type App struct {
	camera    capture.Camera
	detector  detector.Detector
	pipeline  *Pipeline
	annotate  func(*gocv.Mat, Frame)
	renderer  Renderer
	observers []FrameObserver
	fps       int
	logger    *zap.Logger

	enabled  atomic.Bool
	running  atomic.Bool
	tuning   chan Tuning
	quit     chan struct{}
	quitOnce sync.Once

	mu   sync.RWMutex
	last Frame

	frames, captureFailures, detectFailures, actionFailures atomic.Uint64

	captureWarn rate.Sometimes
	detectWarn  rate.Sometimes
}

// New creates an App. Camera, Detector and Sink are required.
func New(cfg Config) (*App, error) {
	if cfg.Camera == nil || cfg.Detector == nil || cfg.Sink == nil {
		return nil, errors.New("app: camera, detector and sink are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fps := cfg.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}

	a := &App{
		camera:      cfg.Camera,
		detector:    cfg.Detector,
		pipeline:    NewPipeline(cfg.Tuning, cfg.Screen, cfg.ResetOnHandLoss, cfg.Sink, logger.Named("pipeline")),
		annotate:    cfg.Annotate,
		renderer:    cfg.Renderer,
		observers:   cfg.Observers,
		fps:         fps,
		logger:      logger,
		tuning:      make(chan Tuning, 1),
		quit:        make(chan struct{}),
		captureWarn: rate.Sometimes{First: 1, Interval: 5 * time.Second},
		detectWarn:  rate.Sometimes{First: 1, Interval: 5 * time.Second},
	}
	a.enabled.Store(true)
	return a, nil
}

// SetEnabled pauses or resumes the pipeline. While paused, frames are still
// captured and shown but no actions are taken.
func (a *App) SetEnabled(enabled bool) {
	if a.enabled.Swap(enabled) != enabled {
		a.logger.Info("pipeline toggled", zap.Bool("enabled", enabled))
	}
}

// IsEnabled reports whether frames drive the pipeline.
func (a *App) IsEnabled() bool {
	return a.enabled.Load()
}

// Running reports whether Run is active.
func (a *App) Running() bool {
	return a.running.Load()
}

// Retune queues new thresholds for the loop. Only the most recent pending
// value is kept.
func (a *App) Retune(t Tuning) {
	for {
		select {
		case a.tuning <- t:
			return
		default:
		}
		select {
		case <-a.tuning:
		default:
		}
	}
}

// Quit asks Run to return after the current frame.
func (a *App) Quit() {
	a.quitOnce.Do(func() { close(a.quit) })
}

// Last returns the most recent frame decision.
func (a *App) Last() Frame {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last
}

// Stats returns the loop counters.
func (a *App) Stats() Stats {
	return Stats{
		Frames:          a.frames.Load(),
		CaptureFailures: a.captureFailures.Load(),
		DetectFailures:  a.detectFailures.Load(),
		ActionFailures:  a.actionFailures.Load(),
	}
}

// Run opens the camera and processes frames until ctx is cancelled, Quit is
// called or the renderer reports the quit key. The camera, detector and
// renderer are released on every exit path.
func (a *App) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return errors.New("app: already running")
	}
	defer a.running.Store(false)

	defer a.release()
	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}

	a.camera.SetFPS(a.fps)
	ticker := time.NewTicker(time.Second / time.Duration(a.fps))
	defer ticker.Stop()

	a.logger.Info("loop started", zap.Int("fps", a.fps))
	defer a.logger.Info("loop stopped", zap.Uint64("frames", a.frames.Load()))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-a.quit:
			return nil
		case t := <-a.tuning:
			a.pipeline.Retune(t)
			a.logger.Info("tuning applied")
		case <-ticker.C:
			if a.tick(ctx) {
				return nil
			}
		}
	}
}

// tick processes one frame and reports whether the loop should stop.
func (a *App) tick(ctx context.Context) bool {
	mat, err := a.camera.ReadFrame()
	if err != nil {
		a.captureFailures.Add(1)
		a.captureWarn.Do(func() {
			a.logger.Warn("failed to capture frame", zap.Error(err))
		})
		return false
	}
	defer mat.Close()

	var f Frame
	if a.IsEnabled() {
		hands, err := a.detector.Detect(mat)
		if err != nil {
			a.detectFailures.Add(1)
			a.detectWarn.Do(func() {
				a.logger.Warn("hand detection failed", zap.Error(err))
			})
			return false
		}
		f = a.pipeline.Process(ctx, detector.Primary(hands))
	} else {
		f = a.pipeline.Paused()
	}

	a.frames.Add(1)
	a.actionFailures.Add(uint64(len(f.Errors)))
	a.mu.Lock()
	a.last = f
	a.mu.Unlock()

	if a.annotate != nil && (a.renderer != nil || len(a.observers) > 0) {
		a.annotate(mat, f)
	}
	for _, o := range a.observers {
		o.OnFrame(f, mat)
	}
	return a.renderer != nil && a.renderer.Show(mat)
}

func (a *App) release() {
	if err := a.camera.Close(); err != nil {
		a.logger.Warn("close camera", zap.Error(err))
	}
	if err := a.detector.Close(); err != nil {
		a.logger.Warn("close detector", zap.Error(err))
	}
	if a.renderer != nil {
		if err := a.renderer.Close(); err != nil {
			a.logger.Warn("close preview", zap.Error(err))
		}
	}
}
