package action

import (
	"context"
	"image"
	"sync"
)

// Call is one effect captured by a Recorder.
type Call struct {
	Kind Kind
	At   image.Point // set for KindMove
}

// Recorder is an in-memory Sink for tests. Errors can be injected per kind.
type Recorder struct {
	mu     sync.Mutex
	calls  []Call
	errors map[Kind]error
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{errors: make(map[Kind]error)}
}

// FailWith makes every subsequent call of kind return err. A nil err clears it.
func (r *Recorder) FailWith(kind Kind, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.errors, kind)
		return
	}
	r.errors[kind] = err
}

// Calls returns a copy of every recorded call in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Count returns how many calls of kind were recorded.
func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// LastMove returns the most recent cursor target and whether there was one.
func (r *Recorder) LastMove() (image.Point, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.calls) - 1; i >= 0; i-- {
		if r.calls[i].Kind == KindMove {
			return r.calls[i].At, true
		}
	}
	return image.Point{}, false
}

func (r *Recorder) record(c Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
	return r.errors[c.Kind]
}

func (r *Recorder) MoveCursorTo(_ context.Context, x, y int) error {
	return r.record(Call{Kind: KindMove, At: image.Pt(x, y)})
}

func (r *Recorder) Click(_ context.Context) error {
	return r.record(Call{Kind: KindClick})
}

func (r *Recorder) MinimizeActiveWindow(_ context.Context) error {
	return r.record(Call{Kind: KindMinimize})
}

func (r *Recorder) CloseActiveWindow(_ context.Context) error {
	return r.record(Call{Kind: KindClose})
}
