package windowctl

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// refreshInterval bounds how often the window list is re-enumerated.
	refreshInterval = 500 * time.Millisecond
	// commandTimeout bounds every wmctrl/xdotool invocation.
	commandTimeout = 2 * time.Second

	fallbackScreenWidth  = 1920
	fallbackScreenHeight = 1080
)

// execManager drives wmctrl and xdotool. There is no portable Go
// window-management API for X11/Wayland, so this shells out the same
// way the sample plugins drive pactl and xdotool.
type execManager struct {
	mu         sync.Mutex
	windows    []WindowInfo
	lastUpdate time.Time
	screenW    int
	screenH    int
}

// NewManager creates the wmctrl-backed Manager. When screenW or screenH
// is not positive the display geometry is probed with xdotool.
func NewManager(screenW, screenH int) Manager {
	if screenW <= 0 || screenH <= 0 {
		w, h, err := probeScreenSize()
		if err != nil {
			log.Printf("windowctl: display geometry probe failed, assuming %dx%d: %v",
				fallbackScreenWidth, fallbackScreenHeight, err)
			w, h = fallbackScreenWidth, fallbackScreenHeight
		}
		screenW, screenH = w, h
	}
	return &execManager{screenW: screenW, screenH: screenH}
}

func (m *execManager) List() []WindowInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.refreshLocked()

	out := make([]WindowInfo, len(m.windows))
	copy(out, m.windows)
	return out
}

// refreshLocked re-enumerates windows when the cache is stale. A failed
// enumeration keeps the previous snapshot; the timestamp advances either
// way so a missing wmctrl is retried at most once per interval.
func (m *execManager) refreshLocked() {
	if time.Since(m.lastUpdate) < refreshInterval {
		return
	}
	m.lastUpdate = time.Now()

	out, err := run("wmctrl", "-lG")
	if err != nil {
		log.Printf("windowctl: window enumeration failed: %v", err)
		return
	}
	m.windows = parseWindowList(out)
}

// parseWindowList parses `wmctrl -lG` output. Each line is
// "id desktop x y width height host title...". Sticky entries
// (desktop -1, panels and docks) and untitled windows are skipped.
func parseWindowList(out []byte) []WindowInfo {
	var windows []WindowInfo
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 8 {
			continue
		}
		desktop, err := strconv.Atoi(fields[1])
		if err != nil || desktop < 0 {
			continue
		}
		x, errX := strconv.Atoi(fields[2])
		y, errY := strconv.Atoi(fields[3])
		w, errW := strconv.Atoi(fields[4])
		h, errH := strconv.Atoi(fields[5])
		if errX != nil || errY != nil || errW != nil || errH != nil {
			continue
		}
		windows = append(windows, WindowInfo{
			ID:      fields[0],
			Desktop: desktop,
			Title:   strings.Join(fields[7:], " "),
			Rect:    Rect{X: x, Y: y, Width: w, Height: h},
		})
	}
	return windows
}

func (m *execManager) Move(id string, x, y float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.refreshLocked()

	idx := -1
	for i := range m.windows {
		if m.windows[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		// The window closed since it was grabbed; nothing to move.
		return nil
	}

	rect := m.windows[idx].Rect
	left := int(x*float64(m.screenW)) - rect.Width/2
	top := int(y*float64(m.screenH)) - rect.Height/2
	if left > m.screenW-rect.Width {
		left = m.screenW - rect.Width
	}
	if left < 0 {
		left = 0
	}
	if top > m.screenH-rect.Height {
		top = m.screenH - rect.Height
	}
	if top < 0 {
		top = 0
	}

	geom := fmt.Sprintf("0,%d,%d,%d,%d", left, top, rect.Width, rect.Height)
	if _, err := run("wmctrl", "-i", "-r", id, "-e", geom); err != nil {
		return fmt.Errorf("move window %s: %w", id, err)
	}

	// Keep the cached geometry current so drags within one refresh
	// interval see the window where it actually is.
	m.windows[idx].Rect.X = left
	m.windows[idx].Rect.Y = top
	return nil
}

func (m *execManager) Raise(id string) error {
	if _, err := run("wmctrl", "-i", "-a", id); err != nil {
		return fmt.Errorf("raise window %s: %w", id, err)
	}
	return nil
}

func (m *execManager) Close(id string) error {
	defer m.invalidate()
	if _, err := run("wmctrl", "-i", "-c", id); err != nil {
		return fmt.Errorf("close window %s: %w", id, err)
	}
	return nil
}

func (m *execManager) Minimize(id string) error {
	defer m.invalidate()
	if _, err := run("xdotool", "windowminimize", id); err != nil {
		return fmt.Errorf("minimize window %s: %w", id, err)
	}
	return nil
}

func (m *execManager) Maximize(id string) error {
	defer m.invalidate()
	if _, err := run("wmctrl", "-i", "-r", id, "-b", "add,maximized_vert,maximized_horz"); err != nil {
		return fmt.Errorf("maximize window %s: %w", id, err)
	}
	return nil
}

func (m *execManager) ScreenSize() (int, int) {
	return m.screenW, m.screenH
}

// invalidate forces the next List to re-enumerate.
func (m *execManager) invalidate() {
	m.mu.Lock()
	m.lastUpdate = time.Time{}
	m.mu.Unlock()
}

// probeScreenSize reads the display geometry from xdotool.
func probeScreenSize() (int, int, error) {
	out, err := run("xdotool", "getdisplaygeometry")
	if err != nil {
		return 0, 0, err
	}
	fields := strings.Fields(string(out))
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected geometry output %q", strings.TrimSpace(string(out)))
	}
	w, errW := strconv.Atoi(fields[0])
	h, errH := strconv.Atoi(fields[1])
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("unexpected geometry output %q", strings.TrimSpace(string(out)))
	}
	return w, h, nil
}

func run(name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).Output()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("%s timed out", name)
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}
