package gesture

// DefaultHoldFrames is how many consecutive repeats of a pose fire it.
const DefaultHoldFrames = 10

// State is the debouncer's carried-over state. The zero value is the
// initial state.
type State struct {
	Current    Label
	HoldFrames int
}

// Debouncer turns a per-frame label stream into hold-to-confirm actions.
//
// A label must be seen once to become current, then repeated HoldFrames
// more times to fire. After firing the counter restarts while the label
// stays current, so a held pose fires once every HoldFrames frames.
type Debouncer struct {
	HoldFrames int
}

// NewDebouncer creates a Debouncer firing after holdFrames repeats.
func NewDebouncer(holdFrames int) *Debouncer {
	return &Debouncer{HoldFrames: holdFrames}
}

// Step advances state by one frame's label and reports the label to act on,
// if any.
func (d *Debouncer) Step(state *State, label Label) (Label, bool) {
	if label == None || label != state.Current {
		state.Current = label
		state.HoldFrames = 0
		return None, false
	}

	state.HoldFrames++
	if state.HoldFrames < d.HoldFrames {
		return None, false
	}

	state.HoldFrames = 0
	return label, true
}
