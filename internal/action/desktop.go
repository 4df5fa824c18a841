package action

import (
	"context"

	"github.com/go-vgo/robotgo"
)

// desktopAPI is the slice of robotgo the Desktop sink drives.
type desktopAPI interface {
	Move(x, y int)
	Click(button string)
	// ActiveWindow returns the handle of the foreground window, 0 if none.
	ActiveWindow() int
	Minimize(handle int)
	Close(handle int)
}

// robotgoAPI targets windows by handle, not by process id.
type robotgoAPI struct{}

func (robotgoAPI) Move(x, y int)       { robotgo.Move(x, y) }
func (robotgoAPI) Click(button string) { robotgo.Click(button) }
func (robotgoAPI) ActiveWindow() int   { return robotgo.GetHandle() }

// isHandle tells robotgo the id is a window handle.
const isHandle = 1

func (robotgoAPI) Minimize(handle int) { robotgo.MinWindow(handle, true, isHandle) }
func (robotgoAPI) Close(handle int)    { robotgo.CloseWindow(handle, isHandle) }

// Desktop drives the real pointer and window manager through robotgo.
type Desktop struct {
	button string
	api    desktopAPI
}

// NewDesktop creates a Desktop sink that clicks the left mouse button.
func NewDesktop() *Desktop {
	return &Desktop{button: "left", api: robotgoAPI{}}
}

// MoveCursorTo warps the pointer to desktop coordinates (x, y).
func (d *Desktop) MoveCursorTo(_ context.Context, x, y int) error {
	d.api.Move(x, y)
	return nil
}

// Click presses and releases the left button at the current position.
func (d *Desktop) Click(_ context.Context) error {
	d.api.Click(d.button)
	return nil
}

// MinimizeActiveWindow minimizes the foreground window.
func (d *Desktop) MinimizeActiveWindow(_ context.Context) error {
	handle := d.api.ActiveWindow()
	if handle == 0 {
		return ErrNoActiveWindow
	}
	d.api.Minimize(handle)
	return nil
}

// CloseActiveWindow closes the foreground window.
func (d *Desktop) CloseActiveWindow(_ context.Context) error {
	handle := d.api.ActiveWindow()
	if handle == 0 {
		return ErrNoActiveWindow
	}
	d.api.Close(handle)
	return nil
}
