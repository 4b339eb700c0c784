// Package windowctl manages top-level desktop windows on behalf of the
// scene controller. Positions cross the package boundary in normalized
// [0,1] coordinates; conversion to pixels happens here, against the
// screen size captured at construction.
package windowctl

import "math"

// Rect is a window's on-screen geometry in pixels.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Center returns the pixel coordinates of the rectangle's center.
func (r Rect) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Contains reports whether the pixel point lies inside the rectangle.
func (r Rect) Contains(px, py int) bool {
	return px >= r.X && px < r.X+r.Width && py >= r.Y && py < r.Y+r.Height
}

// WindowInfo describes one visible, titled top-level window.
type WindowInfo struct {
	ID      string `json:"id"`
	Desktop int    `json:"desktop"`
	Title   string `json:"title"`
	Rect    Rect   `json:"rect"`
}

// NormalizedCenter returns the window center in [0,1] screen coordinates.
func (w *WindowInfo) NormalizedCenter(screenW, screenH int) (float64, float64) {
	cx, cy := w.Rect.Center()
	return float64(cx) / float64(screenW), float64(cy) / float64(screenH)
}

// NormalizedSize returns the window size as a fraction of the screen.
func (w *WindowInfo) NormalizedSize(screenW, screenH int) (float64, float64) {
	return float64(w.Rect.Width) / float64(screenW), float64(w.Rect.Height) / float64(screenH)
}

// Manager is the window-management collaborator. Listing may serve a
// cached snapshot refreshed at most every 0.5s. Implementations report
// OS-level failures as errors; callers log and carry on, since a failed
// side effect never invalidates controller state.
type Manager interface {
	// List returns the visible titled windows, front-most first where
	// the platform exposes stacking order.
	List() []WindowInfo
	// Move centers the window on the normalized point, clamped so the
	// window stays fully on screen. The window keeps its size.
	Move(id string, x, y float64) error
	// Raise restores the window if minimized and brings it to the front.
	Raise(id string) error
	Close(id string) error
	Minimize(id string) error
	Maximize(id string) error
	ScreenSize() (int, int)
}

// At returns the first window in listing order containing the
// normalized point, or nil when the point is over the desktop.
func At(windows []WindowInfo, x, y float64, screenW, screenH int) *WindowInfo {
	px := int(x * float64(screenW))
	py := int(y * float64(screenH))
	for i := range windows {
		if windows[i].Rect.Contains(px, py) {
			w := windows[i]
			return &w
		}
	}
	return nil
}

// Nearest returns the window whose center is closest to the normalized
// point, or nil when none lies within maxDistance. The threshold is
// normalized against the smaller screen dimension so it means the same
// reach on wide and tall displays.
func Nearest(windows []WindowInfo, x, y, maxDistance float64, screenW, screenH int) *WindowInfo {
	px := x * float64(screenW)
	py := y * float64(screenH)

	best := -1
	bestDist := math.Inf(1)
	for i := range windows {
		cx, cy := windows[i].Rect.Center()
		d := math.Hypot(px-float64(cx), py-float64(cy))
		if d < bestDist {
			bestDist = d
			best = i
		}
	}

	limit := maxDistance * float64(minInt(screenW, screenH))
	if best < 0 || bestDist > limit {
		return nil
	}
	w := windows[best]
	return &w
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
