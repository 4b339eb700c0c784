// The keyboard plugin types text and presses key chords through
// xdotool.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
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

// actions maps manifest action names to their handlers.
var actions = map[string]func(json.RawMessage) error{
	"keystroke": pressKey,
	"shortcut":  pressKey,
	"type":      typeText,
}

// modifiers maps the friendly names bindings use to xdotool's.
var modifiers = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"alt":     "alt",
	"option":  "alt",
	"shift":   "shift",
	"super":   "super",
	"cmd":     "super",
	"command": "super",
}

func main() {
	respond(run())
}

func run() error {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}

	handler, ok := actions[req.Action]
	if !ok {
		return fmt.Errorf("unknown action: %s", req.Action)
	}
	if err := handler(req.Config); err != nil {
		return fmt.Errorf("action %s failed: %w", req.Action, err)
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

// pressKey serves keystroke and shortcut: one xdotool key chord with
// optional modifiers, both read from the binding's config.
func pressKey(cfg json.RawMessage) error {
	var p struct {
		Key       string   `json:"key"`
		Modifiers []string `json:"modifiers"`
	}
	if len(cfg) > 0 {
		if err := json.Unmarshal(cfg, &p); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}
	if p.Key == "" {
		return fmt.Errorf("key is required")
	}

	combo := make([]string, 0, len(p.Modifiers)+1)
	for _, mod := range p.Modifiers {
		if m, ok := modifiers[strings.ToLower(mod)]; ok {
			combo = append(combo, m)
		}
	}
	combo = append(combo, p.Key)
	return xdotool("key", strings.Join(combo, "+"))
}

// typeText serves type: literal text entry from the binding's config.
func typeText(cfg json.RawMessage) error {
	var p struct {
		Text string `json:"text"`
	}
	if len(cfg) > 0 {
		if err := json.Unmarshal(cfg, &p); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}
	if p.Text == "" {
		return fmt.Errorf("text is required")
	}
	return xdotool("type", "--", p.Text)
}

func xdotool(args ...string) error {
	out, err := exec.Command("xdotool", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, out)
	}
	return nil
}
