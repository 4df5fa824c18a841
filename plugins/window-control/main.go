// Package main provides a window control plugin that minimizes or closes
// the focused window. It shells out to xdotool and wmctrl on Linux and to
// AppleScript on macOS.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action  string          `json:"action"`
	Gesture string          `json:"gesture,omitempty"`
	Session string          `json:"session,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type actionHandler func() error

var actionHandlers = map[string]map[string]actionHandler{
	"linux": {
		"minimize-window": func() error { return run("xdotool", "getactivewindow", "windowminimize") },
		"close-window":    func() error { return run("wmctrl", "-c", ":ACTIVE:") },
	},
	"darwin": {
		"minimize-window": func() error {
			return runAppleScript(`tell application "System Events"
	set frontApp to first application process whose frontmost is true
	set value of attribute "AXMinimized" of front window of frontApp to true
end tell`)
		},
		"close-window": func() error {
			return runAppleScript(`tell application "System Events" to keystroke "w" using command down`)
		},
	},
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(Response{Error: fmt.Sprintf("failed to decode request: %v", err)})
		return
	}

	handler, ok := actionHandlers[runtime.GOOS][req.Action]
	if !ok {
		writeResponse(Response{Error: fmt.Sprintf("unknown action %q on %s", req.Action, runtime.GOOS)})
		return
	}

	if err := handler(); err != nil {
		writeResponse(Response{Error: fmt.Sprintf("action %s failed: %v", req.Action, err)})
		return
	}

	writeResponse(Response{Success: true})
}

func writeResponse(resp Response) {
	json.NewEncoder(os.Stdout).Encode(resp)
}

func run(name string, args ...string) error {
	output, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, output)
	}
	return nil
}

func runAppleScript(script string) error {
	return run("osascript", "-e", script)
}
