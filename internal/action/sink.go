// Package action carries out pointer and window effects on the desktop.
package action

import (
	"context"
	"errors"
)

// ErrNoActiveWindow is returned by window actions when nothing has focus.
var ErrNoActiveWindow = errors.New("no active window")

// Kind names an effect a Sink can perform.
type Kind string

const (
	KindMove     Kind = "move"
	KindClick    Kind = "click"
	KindMinimize Kind = "minimize"
	KindClose    Kind = "close"
)

// Sink performs desktop effects. Implementations must be safe to call from
// the control loop goroutine; they need not be safe for concurrent use.
type Sink interface {
	MoveCursorTo(ctx context.Context, x, y int) error
	Click(ctx context.Context) error
	MinimizeActiveWindow(ctx context.Context) error
	CloseActiveWindow(ctx context.Context) error
}
