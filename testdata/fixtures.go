// Package testdata holds recorded sensor sessions for tests.
package testdata

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/ayusman/handcam/internal/sensor"
)

//go:embed frames/*.jsonl
var framesFS embed.FS

// Recording names.
const (
	// Reset holds both palms up long enough for one home reset.
	Reset = "reset"
	// Swipes draws two snap swipes and a circle, plus gestures below the
	// default thresholds.
	Swipes = "swipes"
	// Orbit orbits with an open hand, then zooms.
	Orbit = "orbit"
)

// LoadRecording returns the raw JSON lines of a recording.
func LoadRecording(name string) ([]byte, error) {
	data, err := framesFS.ReadFile(path.Join("frames", name+".jsonl"))
	if err != nil {
		return nil, fmt.Errorf("load recording %s: %w", name, err)
	}
	return data, nil
}

// Replay returns a source that plays a recording as fast as it is read.
func Replay(name string) (*sensor.ReplaySource, error) {
	data, err := LoadRecording(name)
	if err != nil {
		return nil, err
	}
	return sensor.NewReplaySource(bytes.NewReader(data), false), nil
}

// Recordings lists the available recording names.
func Recordings() ([]string, error) {
	entries, err := fs.ReadDir(framesFS, "frames")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".jsonl"))
	}
	sort.Strings(names)
	return names, nil
}
