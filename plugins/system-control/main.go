// The system-control plugin drives Linux volume, backlight, and media
// playback through pactl, brightnessctl, and playerctl.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
)

// Request mirrors the executor's wire format.
type Request struct {
	Action  string          `json:"action"`
	Intent  string          `json:"intent"`
	Gesture string          `json:"gesture"`
	Config  json.RawMessage `json:"config"`
	Params  json.RawMessage `json:"params"`
}

// Response mirrors the executor's wire format.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// actions maps manifest action names to the commands they run.
var actions = map[string][]string{
	"volume-up":        {"pactl", "set-sink-volume", "@DEFAULT_SINK@", "+10%"},
	"volume-down":      {"pactl", "set-sink-volume", "@DEFAULT_SINK@", "-10%"},
	"volume-mute":      {"pactl", "set-sink-mute", "@DEFAULT_SINK@", "toggle"},
	"brightness-up":    {"brightnessctl", "set", "+10%"},
	"brightness-down":  {"brightnessctl", "set", "10%-"},
	"media-play-pause": {"playerctl", "play-pause"},
	"media-next":       {"playerctl", "next"},
	"media-prev":       {"playerctl", "previous"},
}

func main() {
	respond(run())
}

func run() error {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}

	argv, ok := actions[req.Action]
	if !ok {
		return fmt.Errorf("unknown action: %s", req.Action)
	}

	out, err := exec.Command(argv[0], argv[1:]...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("action %s failed: %w: %s", req.Action, err, out)
	}
	return nil
}

// respond writes the single JSON response the executor expects.
func respond(err error) {
	resp := Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
