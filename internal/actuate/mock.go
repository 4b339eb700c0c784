package actuate

import "sync"

// CursorMove records one MoveCursor call in pixels.
type CursorMove struct {
	X int
	Y int
}

// KeyTapCall records one KeyTap call.
type KeyTapCall struct {
	Key  string
	Mods []string
}

// MockActuator is an in-memory Actuator for tests. It records every
// call, and cursor moves update the position CursorPosition reports, so
// relative-motion tests see the cursor where the session left it.
type MockActuator struct {
	mu      sync.Mutex
	screenW int
	screenH int
	curX    int
	curY    int
	err     error

	moves       []CursorMove
	clicks      int
	downs       int
	ups         int
	keyTaps     []KeyTapCall
	scrolls     []int
	screenshots []string
}

// NewMockActuator creates a MockActuator for the given screen size with
// the cursor at the screen center.
func NewMockActuator(screenW, screenH int) *MockActuator {
	return &MockActuator{
		screenW: screenW,
		screenH: screenH,
		curX:    screenW / 2,
		curY:    screenH / 2,
	}
}

// SetCursor places the mock cursor without recording a move.
func (a *MockActuator) SetCursor(x, y int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.curX, a.curY = x, y
}

// SetError makes every fallible call return err until cleared.
func (a *MockActuator) SetError(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.err = err
}

func (a *MockActuator) MoveCursor(x, y int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.moves = append(a.moves, CursorMove{X: x, Y: y})
	a.curX, a.curY = x, y
}

func (a *MockActuator) CursorPosition() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.curX, a.curY
}

func (a *MockActuator) Click() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clicks++
}

func (a *MockActuator) MouseDown() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.downs++
	return a.err
}

func (a *MockActuator) MouseUp() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ups++
	return a.err
}

func (a *MockActuator) KeyTap(key string, mods ...string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.keyTaps = append(a.keyTaps, KeyTapCall{Key: key, Mods: append([]string(nil), mods...)})
	return a.err
}

func (a *MockActuator) Scroll(amount int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.scrolls = append(a.scrolls, amount)
}

func (a *MockActuator) Screenshot(path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.screenshots = append(a.screenshots, path)
	return a.err
}

func (a *MockActuator) ScreenSize() (int, int) {
	return a.screenW, a.screenH
}

// Moves returns the recorded cursor moves, in order.
func (a *MockActuator) Moves() []CursorMove {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]CursorMove, len(a.moves))
	copy(out, a.moves)
	return out
}

// Clicks returns how many clicks were issued.
func (a *MockActuator) Clicks() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.clicks
}

// Downs returns how many MouseDown calls were issued.
func (a *MockActuator) Downs() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.downs
}

// Ups returns how many MouseUp calls were issued.
func (a *MockActuator) Ups() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ups
}

// KeyTaps returns the recorded key taps, in order.
func (a *MockActuator) KeyTaps() []KeyTapCall {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]KeyTapCall, len(a.keyTaps))
	copy(out, a.keyTaps)
	return out
}

// Scrolls returns the recorded scroll amounts, in order.
func (a *MockActuator) Scrolls() []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]int(nil), a.scrolls...)
}

// Screenshots returns the recorded screenshot paths, in order.
func (a *MockActuator) Screenshots() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.screenshots...)
}
