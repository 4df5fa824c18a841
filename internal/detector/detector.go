package detector

import (
	"time"

	"gocv.io/x/gocv"
)

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 1).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// ScriptPath points at mediapipe_service.py. Empty means search the
	// usual install locations.
	ScriptPath string

	// PythonPath is the interpreter used to run the service. Empty means
	// prefer a local venv, then python3.
	PythonPath string

	// IdleTimeout stops the Python process after this long without a frame.
	IdleTimeout time.Duration
}

// DefaultConfig returns a Config tuned for single-hand cursor control.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.7,
		MinTrackingConf: 0.5,
		IdleTimeout:     30 * time.Second,
	}
}
