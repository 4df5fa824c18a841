// Package plugin discovers and runs external helper executables that carry
// out window actions the built-in desktop backend cannot.
package plugin

import (
	"encoding/json"
	"slices"
)

// Action names understood by window plugins.
const (
	ActionMinimize = "minimize-window"
	ActionClose    = "close-window"
)

// Manifest describes a plugin's metadata and capabilities.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Actions     []string `json:"actions"`
}

// Supports reports whether the manifest lists action.
func (m Manifest) Supports(action string) bool {
	return slices.Contains(m.Actions, action)
}

// Request is written to the plugin's stdin as a single JSON object.
type Request struct {
	Action  string          `json:"action"`
	Gesture string          `json:"gesture,omitempty"`
	Session string          `json:"session,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is read back from the plugin's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
