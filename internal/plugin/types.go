// Package plugin discovers and runs bridge processes that connect handcam to
// 3D applications.
package plugin

import "encoding/json"

// Manifest describes a bridge, read from the plugin.json in its directory.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Args        []string `json:"args,omitempty"`
	// Application is the 3D application the bridge drives, for display.
	Application string `json:"application,omitempty"`
}

// Request is one call to a bridge, written as a single JSON line to its
// stdin.
type Request struct {
	ID     int64           `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response answers the Request with the same ID, as a single JSON line on
// the bridge's stdout.
type Response struct {
	ID      int64           `json:"id"`
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// Plugin is a discovered bridge with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
