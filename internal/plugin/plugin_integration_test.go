package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// bundledPlugin loads one of the repo's shipped plugins through
// discovery, skipping when the environment cannot run it. Manifests are
// checked in but binaries are not, so an unbuilt plugin skips too.
func bundledPlugin(t *testing.T, name string) *Plugin {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	if runtime.GOOS != "linux" {
		t.Skipf("%s plugin only works on Linux", name)
	}

	dir := findPluginDir(name)
	if dir == "" {
		t.Skipf("%s plugin sources not found", name)
	}

	mgr := NewManager(filepath.Dir(dir))
	if err := mgr.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	plug, err := mgr.Get(name)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if _, err := os.Stat(plug.Executable); err != nil {
		t.Skipf("%s plugin not built", name)
	}
	return plug
}

// findPluginDir walks up from the package directory to the repo's
// plugins tree.
func findPluginDir(name string) string {
	for _, dir := range []string{
		filepath.Join("../../plugins", name),
		filepath.Join("../../../plugins", name),
	} {
		if _, err := os.Stat(filepath.Join(dir, "plugin.json")); err == nil {
			return dir
		}
	}
	return ""
}

func TestPluginIntegration_SystemControlRejectsUnknownAction(t *testing.T) {
	plug := bundledPlugin(t, "system-control")

	// Every declared action moves volume, brightness, or playback, so
	// this exercises the shipped manifest's action list instead.
	_, err := NewExecutor(0).Execute(plug, &Request{
		Action: "invalid-action",
		Intent: "swipe_up",
		Params: json.RawMessage(`{}`),
	})
	if err == nil {
		t.Fatal("expected an undeclared action to be rejected")
	}
	if !strings.Contains(err.Error(), "invalid-action") {
		t.Errorf("expected the rejected action named, got: %v", err)
	}
}

func TestPluginIntegration_KeyboardRejectsEmptyKey(t *testing.T) {
	plug := bundledPlugin(t, "keyboard")

	resp, err := NewExecutor(0).Execute(plug, &Request{
		Action: "keystroke",
		Intent: "swipe_left",
		Config: json.RawMessage(`{"key": ""}`),
		Params: json.RawMessage(`{"type": "swipe_left"}`),
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if resp.Success {
		t.Error("expected failure for an empty key")
	}
}
