package display

import (
	"sync"

	"gocv.io/x/gocv"
)

// Preview is a desktop window showing annotated frames.
type Preview struct {
	window  *gocv.Window
	quitKey int
	once    sync.Once
}

// NewPreview opens a window titled title. Pressing quitKey in the window
// makes Show report quit.
func NewPreview(title, quitKey string) *Preview {
	return &Preview{
		window:  gocv.NewWindow(title),
		quitKey: KeyCode(quitKey),
	}
}

// Show draws frame and polls the keyboard once.
func (p *Preview) Show(frame *gocv.Mat) bool {
	if frame == nil || frame.Empty() {
		return false
	}
	p.window.IMShow(*frame)
	key := p.window.WaitKey(1)
	return key >= 0 && key&0xff == p.quitKey
}

func (p *Preview) Close() error {
	var err error
	p.once.Do(func() { err = p.window.Close() })
	return err
}

// KeyCode returns the key code WaitKey reports for the first character of
// key, or 27 (escape) when key is empty.
func KeyCode(key string) int {
	if key == "" {
		return 27
	}
	return int(key[0])
}
