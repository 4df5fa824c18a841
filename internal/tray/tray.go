// Package tray provides a system tray menu to pause, resume and quit the
// air cursor.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
	"gocv.io/x/gocv"

	"github.com/ayusman/aircursor/internal/app"
	"github.com/ayusman/aircursor/internal/gesture"
)

// Controller is the loop state the tray toggles.
type Controller interface {
	IsEnabled() bool
	SetEnabled(enabled bool)
}

// Tray is the system tray menu. It observes frames to show the last fired
// gesture and to follow pauses made elsewhere.
type Tray struct {
	ctrl   Controller
	onQuit func()

	mu    sync.Mutex
	shown bool // enabled state currently displayed
	last  string

	menuToggle      *systray.MenuItem
	menuLastGesture *systray.MenuItem
}

// New creates a Tray driving ctrl.
func New(ctrl Controller) *Tray {
	return &Tray{ctrl: ctrl, shown: ctrl.IsEnabled()}
}

// OnQuit sets the function called when Quit is chosen from the menu.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run shows the tray and blocks until Quit. It must be called from the main
// goroutine on macOS.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit removes the tray and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("Air Cursor")
	systray.SetTooltip("Air Cursor hand tracking")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.shown), "Pause or resume hand tracking")
	systray.AddSeparator()
	t.menuLastGesture = systray.AddMenuItem(lastTitle(t.last), "Last fired gesture")
	t.menuLastGesture.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Air Cursor")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.toggle()
			case <-menuQuit.ClickedCh:
				t.quit()
				return
			}
		}
	}()
}

func (t *Tray) toggle() {
	enabled := !t.ctrl.IsEnabled()
	t.ctrl.SetEnabled(enabled)
	t.setShown(enabled)
}

func (t *Tray) quit() {
	t.mu.Lock()
	fn := t.onQuit
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
	systray.Quit()
}

// OnFrame implements app.FrameObserver.
func (t *Tray) OnFrame(f app.Frame, _ *gocv.Mat) {
	if f.Fired != gesture.None {
		t.SetLastGesture(f.Fired.String())
	}
	t.setShown(!f.Paused)
}

// SetLastGesture updates the last gesture entry.
func (t *Tray) SetLastGesture(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = name
	if t.menuLastGesture != nil {
		t.menuLastGesture.SetTitle(lastTitle(name))
	}
}

// LastGesture returns the name shown in the last gesture entry.
func (t *Tray) LastGesture() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Enabled reports the enabled state the menu currently displays.
func (t *Tray) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.shown
}

func (t *Tray) setShown(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.shown == enabled {
		return
	}
	t.shown = enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Paused"
}

func lastTitle(name string) string {
	if name == "" {
		return "Last: none"
	}
	return "Last: " + name
}
