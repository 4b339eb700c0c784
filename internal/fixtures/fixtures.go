// Package fixtures ships recorded landmark sessions for replay in tests.
// Each session is a JSON array of frames captured from the detector, with
// per-frame offsets in milliseconds from the start of the recording.
package fixtures

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ayusman/mudra/internal/detector"
)

//go:embed sessions/*.json
var sessionsFS embed.FS

// Frame is one recorded detector output with its capture offset.
type Frame struct {
	TimeMs int64                    `json:"time_ms"`
	Hands  []detector.HandLandmarks `json:"hands"`
}

// LoadSession loads a recorded landmark session by name
func LoadSession(name string) ([]Frame, error) {
	data, err := sessionsFS.ReadFile("sessions/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", name, err)
	}

	var frames []Frame
	if err := json.Unmarshal(data, &frames); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", name, err)
	}

	return frames, nil
}

// Sessions lists the names of all recorded sessions
func Sessions() ([]string, error) {
	entries, err := sessionsFS.ReadDir("sessions")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)

	return names, nil
}
