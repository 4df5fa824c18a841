// Package gesture classifies static hand poses and debounces them into
// discrete window actions.
package gesture

// Label is the closed set of static gestures the classifier recognizes.
type Label int

const (
	// None means no actionable pose.
	None Label = iota
	// Minimize is the fingers-together pose.
	Minimize
	// Close is the flipped-palm pose.
	Close
)

// String returns the lowercase name of the label.
func (l Label) String() string {
	switch l {
	case None:
		return "none"
	case Minimize:
		return "minimize"
	case Close:
		return "close"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so labels serialize by name.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}
