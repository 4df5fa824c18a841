package gesture

import (
	"github.com/ayusman/aircursor/internal/detector"
	"github.com/ayusman/aircursor/internal/geometry"
)

// Thresholds tune the static pose classifier.
type Thresholds struct {
	FingersTogether float64 // openness below this is Minimize
	HandFlip        float64 // orientation above this is Close
}

// DefaultThresholds returns the stock classifier thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		FingersTogether: 0.04,
		HandFlip:        0.3,
	}
}

// Classifier maps a single frame's hand to a Label.
type Classifier struct {
	Thresholds Thresholds
}

// NewClassifier creates a Classifier with the given thresholds.
func NewClassifier(t Thresholds) *Classifier {
	return &Classifier{Thresholds: t}
}

// Classify returns Minimize when the fingertips are bunched together, Close
// when the hand is turned over, and None otherwise. Minimize wins when both
// hold. A nil hand is None.
func (c *Classifier) Classify(hand *detector.HandLandmarks) Label {
	if hand == nil {
		return None
	}

	if geometry.HandOpenness(hand.FingerTips()) < c.Thresholds.FingersTogether {
		return Minimize
	}

	orientation := geometry.HandOrientation(hand.Points[detector.Wrist], hand.Points[detector.MiddleTip])
	if orientation > c.Thresholds.HandFlip {
		return Close
	}

	return None
}
