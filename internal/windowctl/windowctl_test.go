package windowctl

import (
	"errors"
	"testing"
)

func testWindows() []WindowInfo {
	return []WindowInfo{
		{ID: "0x01", Title: "Editor", Rect: Rect{X: 300, Y: 350, Width: 200, Height: 100}},
		{ID: "0x02", Title: "Browser", Rect: Rect{X: 1000, Y: 500, Width: 400, Height: 200}},
	}
}

func TestRect(t *testing.T) {
	r := Rect{X: 100, Y: 200, Width: 300, Height: 400}

	cx, cy := r.Center()
	if cx != 250 || cy != 400 {
		t.Errorf("expected center (250, 400), got (%d, %d)", cx, cy)
	}

	if !r.Contains(100, 200) {
		t.Error("expected top-left corner to be inside")
	}
	if !r.Contains(399, 599) {
		t.Error("expected point just inside bottom-right to be inside")
	}
	if r.Contains(400, 400) {
		t.Error("expected right edge to be outside")
	}
	if r.Contains(250, 600) {
		t.Error("expected bottom edge to be outside")
	}
}

func TestWindowInfo_Normalized(t *testing.T) {
	w := WindowInfo{ID: "0x01", Rect: Rect{X: 860, Y: 440, Width: 200, Height: 200}}

	x, y := w.NormalizedCenter(1920, 1080)
	if x != 0.5 || y != 0.5 {
		t.Errorf("expected normalized center (0.5, 0.5), got (%v, %v)", x, y)
	}

	nw, nh := w.NormalizedSize(1920, 1080)
	if nw != 200.0/1920.0 || nh != 200.0/1080.0 {
		t.Errorf("unexpected normalized size (%v, %v)", nw, nh)
	}
}

func TestAt(t *testing.T) {
	windows := testWindows()

	t.Run("point inside a window", func(t *testing.T) {
		w := At(windows, 0.25, 0.4, 1920, 1080)
		if w == nil {
			t.Fatal("expected a window at (0.25, 0.4), got none")
		}
		if w.ID != "0x01" {
			t.Errorf("expected window 0x01, got %s", w.ID)
		}
	})

	t.Run("point over the desktop", func(t *testing.T) {
		if w := At(windows, 0.01, 0.01, 1920, 1080); w != nil {
			t.Errorf("expected no window over the desktop, got %s", w.ID)
		}
	})

	t.Run("overlap resolves to listing order", func(t *testing.T) {
		front := WindowInfo{ID: "0x03", Title: "Overlay", Rect: Rect{X: 250, Y: 300, Width: 300, Height: 300}}
		stacked := append([]WindowInfo{front}, windows...)
		w := At(stacked, 0.25, 0.4, 1920, 1080)
		if w == nil || w.ID != "0x03" {
			t.Errorf("expected front-most window 0x03, got %+v", w)
		}
	})

	t.Run("no windows", func(t *testing.T) {
		if w := At(nil, 0.5, 0.5, 1920, 1080); w != nil {
			t.Errorf("expected nil for empty list, got %s", w.ID)
		}
	})
}

func TestNearest(t *testing.T) {
	windows := testWindows()

	t.Run("picks the closest center", func(t *testing.T) {
		w := Nearest(windows, 0.25, 0.4, 0.25, 1920, 1080)
		if w == nil {
			t.Fatal("expected a window within reach, got none")
		}
		if w.ID != "0x01" {
			t.Errorf("expected window 0x01, got %s", w.ID)
		}
	})

	t.Run("respects the distance limit", func(t *testing.T) {
		// Both centers are more than 0.25*1080 pixels away from (0.5, 0.05).
		if w := Nearest(windows, 0.5, 0.05, 0.25, 1920, 1080); w != nil {
			t.Errorf("expected no window within reach, got %s", w.ID)
		}
	})

	t.Run("no windows", func(t *testing.T) {
		if w := Nearest(nil, 0.5, 0.5, 0.25, 1920, 1080); w != nil {
			t.Errorf("expected nil for empty list, got %s", w.ID)
		}
	})

	t.Run("returned window is a copy", func(t *testing.T) {
		w := Nearest(windows, 0.25, 0.4, 0.25, 1920, 1080)
		w.Title = "changed"
		if windows[0].Title != "Editor" {
			t.Error("expected the source slice to stay untouched")
		}
	})
}

func TestParseWindowList(t *testing.T) {
	out := []byte(`0x04000009  0 65   52   1280 720  archdesk Terminal - fish
0x04800003 -1 0    0    1920 1080 archdesk Desktop
0x05200001  1 200  150  800  600  archdesk Mozilla Firefox
0x05a00004  0 0    0    1920 30   archdesk
`)

	windows := parseWindowList(out)
	if len(windows) != 2 {
		t.Fatalf("expected 2 windows (sticky and untitled skipped), got %d", len(windows))
	}

	first := windows[0]
	if first.ID != "0x04000009" || first.Desktop != 0 {
		t.Errorf("unexpected first window identity: %+v", first)
	}
	if first.Title != "Terminal - fish" {
		t.Errorf("expected multi-word title preserved, got %q", first.Title)
	}
	if first.Rect != (Rect{X: 65, Y: 52, Width: 1280, Height: 720}) {
		t.Errorf("unexpected first window rect: %+v", first.Rect)
	}

	second := windows[1]
	if second.ID != "0x05200001" || second.Title != "Mozilla Firefox" || second.Desktop != 1 {
		t.Errorf("unexpected second window: %+v", second)
	}
}

func TestParseWindowList_Empty(t *testing.T) {
	if windows := parseWindowList(nil); len(windows) != 0 {
		t.Errorf("expected no windows from empty output, got %d", len(windows))
	}
}

func TestMockManager_Move(t *testing.T) {
	m := NewMockManager(1920, 1080)
	m.SetWindows([]WindowInfo{
		{ID: "0x01", Title: "Editor", Rect: Rect{X: 100, Y: 100, Width: 400, Height: 300}},
	})

	t.Run("centers the window on the target", func(t *testing.T) {
		if err := m.Move("0x01", 0.5, 0.5); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		w := m.List()[0]
		if w.Rect.X != 760 || w.Rect.Y != 390 {
			t.Errorf("expected rect at (760, 390), got (%d, %d)", w.Rect.X, w.Rect.Y)
		}
	})

	t.Run("clamps at the left edge", func(t *testing.T) {
		if err := m.Move("0x01", 0.02, 0.5); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		w := m.List()[0]
		if w.Rect.X != 0 || w.Rect.Y != 390 {
			t.Errorf("expected rect clamped to (0, 390), got (%d, %d)", w.Rect.X, w.Rect.Y)
		}
	})

	t.Run("clamps at the bottom-right edge", func(t *testing.T) {
		if err := m.Move("0x01", 0.99, 0.99); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		w := m.List()[0]
		if w.Rect.X != 1520 || w.Rect.Y != 780 {
			t.Errorf("expected rect clamped to (1520, 780), got (%d, %d)", w.Rect.X, w.Rect.Y)
		}
	})

	moves := m.Moves()
	if len(moves) != 3 {
		t.Fatalf("expected 3 recorded moves, got %d", len(moves))
	}
	if moves[0] != (MoveCall{ID: "0x01", X: 0.5, Y: 0.5}) {
		t.Errorf("unexpected first recorded move: %+v", moves[0])
	}
}

func TestMockManager_RaiseAndClose(t *testing.T) {
	m := NewMockManager(1920, 1080)
	m.SetWindows(testWindows())

	if err := m.Raise("0x02"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids := m.Raised(); len(ids) != 1 || ids[0] != "0x02" {
		t.Errorf("expected raise of 0x02 recorded, got %v", ids)
	}
	if m.List()[0].ID != "0x02" {
		t.Errorf("expected raised window first in listing order, got %s", m.List()[0].ID)
	}

	if err := m.Close("0x02"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	windows := m.List()
	if len(windows) != 1 || windows[0].ID != "0x01" {
		t.Errorf("expected only 0x01 to remain after close, got %+v", windows)
	}
}

func TestMockManager_Error(t *testing.T) {
	m := NewMockManager(1920, 1080)
	m.SetWindows(testWindows())
	forced := errors.New("window manager unavailable")
	m.SetError(forced)

	if err := m.Move("0x01", 0.5, 0.5); !errors.Is(err, forced) {
		t.Errorf("expected forced error from Move, got %v", err)
	}
	if err := m.Minimize("0x01"); !errors.Is(err, forced) {
		t.Errorf("expected forced error from Minimize, got %v", err)
	}

	// Calls are still recorded so tests can assert attempts.
	if len(m.Moves()) != 1 {
		t.Errorf("expected the failed move to be recorded, got %d", len(m.Moves()))
	}
	if len(m.Minimized()) != 1 {
		t.Errorf("expected the failed minimize to be recorded, got %d", len(m.Minimized()))
	}

	w := m.List()[0]
	if w.Rect.X != 300 {
		t.Errorf("expected failed move to leave geometry untouched, got x=%d", w.Rect.X)
	}
}
