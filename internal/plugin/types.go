// Package plugin discovers and executes external action plugins. A plugin is
// a directory with a plugin.json manifest and an executable that reads one
// JSON request on stdin and writes one JSON response to stdout.
package plugin

import "encoding/json"

// Manifest is the plugin.json a plugin ships next to its executable.
// Actions lists the action names the executable accepts; an empty list
// leaves validation to the executable itself.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Actions      []string        `json:"actions"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// HasAction reports whether the manifest declares the named action.
// A manifest with no action list accepts any name.
func (m Manifest) HasAction(name string) bool {
	if len(m.Actions) == 0 {
		return true
	}
	for _, a := range m.Actions {
		if a == name {
			return true
		}
	}
	return false
}

// Request is one intent delivery to a plugin. Params carries the full
// intent snapshot (position, confidence, direction, velocity) as JSON;
// Config is the binding's stored configuration.
type Request struct {
	Action  string          `json:"action"`
	Intent  string          `json:"intent"`
	Gesture string          `json:"gesture,omitempty"`
	Config  json.RawMessage `json:"config"`
	Params  json.RawMessage `json:"params"`
}

// Response is the single JSON object a plugin writes to stdout. Error
// carries the failure detail when Success is false.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered plugin. Path is the directory it was loaded
// from and Executable the resolved path of its manifest executable.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
