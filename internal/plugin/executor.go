package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a plugin run when the executor is built with a
// zero timeout. Plugins fire off the frame loop, but a hung one would
// still pile up goroutines without a deadline.
const DefaultTimeout = 5 * time.Second

// Executor runs plugin executables with a per-run deadline.
type Executor struct {
	timeout time.Duration
}

// NewExecutor returns an Executor that kills any plugin still running
// after timeout. A non-positive timeout selects DefaultTimeout.
func NewExecutor(timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Executor{timeout: timeout}
}

// Execute delivers one request to the plugin on stdin and decodes the
// JSON response from its stdout. The plugin runs in its own directory,
// so relative paths in its manifest keep working.
func (e *Executor) Execute(plug *Plugin, req *Request) (*Response, error) {
	if !plug.Manifest.HasAction(req.Action) {
		return nil, fmt.Errorf("plugin %s does not provide action %q", plug.Manifest.Name, req.Action)
	}

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request for plugin %s: %w", plug.Manifest.Name, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, plug.Executable)
	cmd.Dir = plug.Path
	cmd.Stdin = bytes.NewReader(reqJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("plugin %s timed out after %s", plug.Manifest.Name, e.timeout)
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("plugin %s: %w: %s", plug.Manifest.Name, err, msg)
		}
		return nil, fmt.Errorf("plugin %s: %w", plug.Manifest.Name, err)
	}

	var resp Response
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("decode response from plugin %s: %w", plug.Manifest.Name, err)
	}

	return &resp, nil
}
