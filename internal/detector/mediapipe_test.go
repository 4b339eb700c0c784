package detector

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSearchPaths(t *testing.T) {
	paths := searchPaths("venv/bin/python", 2)

	want := []string{
		"venv/bin/python",
		filepath.Join("..", "venv/bin/python"),
		filepath.Join("..", "..", "venv/bin/python"),
	}
	for i, w := range want {
		if paths[i] != w {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], w)
		}
	}

	last := paths[len(paths)-1]
	if !strings.HasSuffix(last, filepath.Join(".mudra", "venv/bin/python")) {
		t.Errorf("last candidate %q should fall back to the user data dir", last)
	}
}

func TestFirstExisting(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present")
	if err := os.WriteFile(present, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	got := firstExisting([]string{filepath.Join(dir, "missing"), present})
	if got != present {
		t.Errorf("firstExisting = %q, want %q", got, present)
	}

	if got := firstExisting([]string{filepath.Join(dir, "missing")}); got != "" {
		t.Errorf("firstExisting with no hits = %q, want empty", got)
	}
}

func TestFindMediaPipeScript_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "service.py")
	if err := os.WriteFile(script, []byte("#"), 0o644); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	t.Setenv("MUDRA_MEDIAPIPE_SCRIPT", script)
	if got := findMediaPipeScript(); got != script {
		t.Errorf("findMediaPipeScript = %q, want %q", got, script)
	}

	// An override pointing nowhere disables the detector rather than
	// silently falling back to the search path.
	t.Setenv("MUDRA_MEDIAPIPE_SCRIPT", filepath.Join(dir, "gone.py"))
	if got := findMediaPipeScript(); got != "" {
		t.Errorf("findMediaPipeScript with dangling override = %q, want empty", got)
	}
}

func TestFindPython_EnvOverride(t *testing.T) {
	t.Setenv("MUDRA_PYTHON", "/opt/hands/bin/python")
	if got := findPython(); got != "/opt/hands/bin/python" {
		t.Errorf("findPython = %q, want the override verbatim", got)
	}
}

func TestWireHandDecode(t *testing.T) {
	points := make([]map[string]float64, NumLandmarks+1)
	for i := range points {
		points[i] = map[string]float64{"x": float64(i) * 0.01, "y": 0.5, "z": -0.02}
	}
	raw, err := json.Marshal(map[string]any{
		"points":     points,
		"handedness": "Left",
		"score":      0.91,
	})
	if err != nil {
		t.Fatalf("failed to marshal hand: %v", err)
	}

	var h wireHand
	if err := json.Unmarshal(raw, &h); err != nil {
		t.Fatalf("failed to unmarshal hand: %v", err)
	}

	lm := h.decode()
	if lm.Handedness != "Left" || lm.Score != 0.91 {
		t.Errorf("decoded metadata = %q/%v, want Left/0.91", lm.Handedness, lm.Score)
	}
	if lm.Points[IndexTip].X != float64(IndexTip)*0.01 {
		t.Errorf("index tip X = %v, want %v", lm.Points[IndexTip].X, float64(IndexTip)*0.01)
	}
	// The extra point past the model's count is dropped, not wrapped.
	if lm.Points[0].X != 0 {
		t.Errorf("wrist X = %v, want 0", lm.Points[0].X)
	}
}
