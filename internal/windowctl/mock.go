package windowctl

import "sync"

// MoveCall records one Move invocation in normalized coordinates.
type MoveCall struct {
	ID string
	X  float64
	Y  float64
}

// MockManager is an in-memory Manager for tests. It records every call
// and applies moves, raises, and closes to its window list so a test
// can observe the scene a controller would see.
type MockManager struct {
	mu      sync.Mutex
	windows []WindowInfo
	screenW int
	screenH int
	err     error

	moves     []MoveCall
	raised    []string
	closed    []string
	minimized []string
	maximized []string
}

// NewMockManager creates a MockManager for the given screen size.
func NewMockManager(screenW, screenH int) *MockManager {
	return &MockManager{screenW: screenW, screenH: screenH}
}

// SetWindows replaces the window list, front-most first.
func (m *MockManager) SetWindows(windows []WindowInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.windows = make([]WindowInfo, len(windows))
	copy(m.windows, windows)
}

// SetError makes every mutating call fail with err until cleared.
func (m *MockManager) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockManager) List() []WindowInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]WindowInfo, len(m.windows))
	copy(out, m.windows)
	return out
}

func (m *MockManager) Move(id string, x, y float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.moves = append(m.moves, MoveCall{ID: id, X: x, Y: y})
	if m.err != nil {
		return m.err
	}
	for i := range m.windows {
		if m.windows[i].ID != id {
			continue
		}
		rect := &m.windows[i].Rect
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
		rect.X = left
		rect.Y = top
		break
	}
	return nil
}

func (m *MockManager) Raise(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raised = append(m.raised, id)
	if m.err != nil {
		return m.err
	}
	for i := range m.windows {
		if m.windows[i].ID == id {
			w := m.windows[i]
			m.windows = append(m.windows[:i], m.windows[i+1:]...)
			m.windows = append([]WindowInfo{w}, m.windows...)
			break
		}
	}
	return nil
}

func (m *MockManager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = append(m.closed, id)
	if m.err != nil {
		return m.err
	}
	for i := range m.windows {
		if m.windows[i].ID == id {
			m.windows = append(m.windows[:i], m.windows[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockManager) Minimize(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.minimized = append(m.minimized, id)
	return m.err
}

func (m *MockManager) Maximize(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maximized = append(m.maximized, id)
	return m.err
}

func (m *MockManager) ScreenSize() (int, int) {
	return m.screenW, m.screenH
}

// Moves returns the recorded Move calls.
func (m *MockManager) Moves() []MoveCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MoveCall, len(m.moves))
	copy(out, m.moves)
	return out
}

// Raised returns the ids passed to Raise, in order.
func (m *MockManager) Raised() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.raised...)
}

// Closed returns the ids passed to Close, in order.
func (m *MockManager) Closed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.closed...)
}

// Minimized returns the ids passed to Minimize, in order.
func (m *MockManager) Minimized() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.minimized...)
}

// Maximized returns the ids passed to Maximize, in order.
func (m *MockManager) Maximized() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.maximized...)
}
