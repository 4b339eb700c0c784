package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/intent"
	"github.com/ayusman/mudra/internal/windowctl"
)

func testWindowManager() *windowctl.MockManager {
	m := windowctl.NewMockManager(1920, 1080)
	m.SetWindows([]windowctl.WindowInfo{
		{ID: "0x01", Title: "Editor", Rect: windowctl.Rect{X: 300, Y: 350, Width: 200, Height: 100}},
		{ID: "0x02", Title: "Browser", Rect: windowctl.Rect{X: 1000, Y: 500, Width: 400, Height: 200}},
	})
	return m
}

func grabAt(x, y float64) intent.Intent {
	return intent.Intent{
		Type:       intent.GrabObject,
		Confidence: 0.9,
		Position:   detector.Point3D{X: x, Y: y, Z: 0.3},
	}
}

func TestController_GrabNearestAndRaise(t *testing.T) {
	windows := testWindowManager()
	c := NewController(windows)

	// (0.21, 0.37) lands a few pixels from the editor's center.
	c.ProcessIntent(grabAt(0.21, 0.37))

	if c.GrabbedID() != "0x01" {
		t.Fatalf("expected editor grabbed, got %q", c.GrabbedID())
	}
	if c.GrabbedTitle() != "Editor" {
		t.Errorf("expected grabbed title Editor, got %q", c.GrabbedTitle())
	}
	if raised := windows.Raised(); len(raised) != 1 || raised[0] != "0x01" {
		t.Errorf("expected the editor raised on grab, got %v", raised)
	}
	if len(windows.Moves()) != 0 {
		t.Errorf("expected no move on initial grab, got %v", windows.Moves())
	}
}

func TestController_GrabNothingInReach(t *testing.T) {
	windows := testWindowManager()
	c := NewController(windows)

	c.ProcessIntent(grabAt(0.95, 0.05))

	if c.GrabbedID() != "" {
		t.Errorf("expected nothing grabbed far from every window, got %q", c.GrabbedID())
	}
	if len(windows.Raised()) != 0 {
		t.Errorf("expected no raise without a grab, got %v", windows.Raised())
	}
}

func TestController_GrabRadius(t *testing.T) {
	windows := testWindowManager()
	c := NewController(windows)
	c.SetGrabRadius(0.001)

	// A few pixels off center, but the radius now allows only one.
	c.ProcessIntent(grabAt(0.21, 0.37))

	if c.GrabbedID() != "" {
		t.Errorf("expected grab out of reach with a tiny radius, got %q", c.GrabbedID())
	}
}

func TestController_GrabWhileGrabbedDrags(t *testing.T) {
	windows := testWindowManager()
	c := NewController(windows)

	c.ProcessIntent(grabAt(0.21, 0.37))
	c.ProcessIntent(grabAt(0.30, 0.45))
	c.ProcessIntent(grabAt(0.40, 0.55))

	moves := windows.Moves()
	if len(moves) != 2 {
		t.Fatalf("expected 2 drag moves, got %d", len(moves))
	}

	// The grab offset keeps the grab point under the hand: the move
	// target is the hand minus the offset recorded at grab time.
	offsetX := 0.21 - 400.0/1920.0
	offsetY := 0.37 - 400.0/1080.0
	if math.Abs(moves[0].X-(0.30-offsetX)) > epsilon || math.Abs(moves[0].Y-(0.45-offsetY)) > epsilon {
		t.Errorf("unexpected first drag target (%v, %v)", moves[0].X, moves[0].Y)
	}
	if math.Abs(moves[1].X-(0.40-offsetX)) > epsilon || math.Abs(moves[1].Y-(0.55-offsetY)) > epsilon {
		t.Errorf("unexpected second drag target (%v, %v)", moves[1].X, moves[1].Y)
	}

	if len(windows.Raised()) != 1 {
		t.Errorf("expected a single raise for the whole hold, got %d", len(windows.Raised()))
	}
	if c.GrabbedID() != "0x01" {
		t.Errorf("expected the editor to stay grabbed through the drag, got %q", c.GrabbedID())
	}
}

func TestController_DragIntent(t *testing.T) {
	windows := testWindowManager()
	c := NewController(windows)

	// A drag with nothing grabbed does nothing.
	c.ProcessIntent(intent.Intent{Type: intent.Drag, Position: detector.Point3D{X: 0.5, Y: 0.5, Z: 0.3}})
	if len(windows.Moves()) != 0 {
		t.Fatalf("expected no move without a grab, got %v", windows.Moves())
	}

	c.ProcessIntent(grabAt(0.21, 0.37))
	c.ProcessIntent(intent.Intent{Type: intent.Drag, Position: detector.Point3D{X: 0.35, Y: 0.5, Z: 0.3}})
	if len(windows.Moves()) != 1 {
		t.Errorf("expected one move from the drag intent, got %d", len(windows.Moves()))
	}
}

func TestController_ReleaseIdempotent(t *testing.T) {
	windows := testWindowManager()
	c := NewController(windows)

	release := intent.Intent{Type: intent.ReleaseObject, Position: detector.Point3D{X: 0.21, Y: 0.37, Z: 0.3}}

	c.ProcessIntent(release)
	if c.GrabbedID() != "" {
		t.Error("expected release with nothing grabbed to be a no-op")
	}

	c.ProcessIntent(grabAt(0.21, 0.37))
	c.ProcessIntent(release)
	if c.GrabbedID() != "" || c.GrabbedTitle() != "" {
		t.Error("expected grab cleared after release")
	}

	c.ProcessIntent(release)
	if c.GrabbedID() != "" {
		t.Error("expected second release to stay cleared")
	}
}

func TestController_Hover(t *testing.T) {
	windows := testWindowManager()
	c := NewController(windows)

	hover := func(x, y float64) intent.Intent {
		return intent.Intent{Type: intent.HoverObject, Confidence: 0.7, Position: detector.Point3D{X: x, Y: y, Z: 0.3}}
	}

	c.ProcessIntent(hover(0.21, 0.37))
	if c.HoveredID() != "0x01" {
		t.Errorf("expected editor hovered, got %q", c.HoveredID())
	}

	c.ProcessIntent(hover(0.95, 0.05))
	if c.HoveredID() != "" {
		t.Errorf("expected hover cleared over the desktop, got %q", c.HoveredID())
	}

	// No hover while a window is held.
	c.ProcessIntent(grabAt(0.21, 0.37))
	c.ProcessIntent(hover(0.65, 0.55))
	if c.HoveredID() != "" {
		t.Errorf("expected no hover while grabbing, got %q", c.HoveredID())
	}
}

func TestController_OpenMenuForWindow(t *testing.T) {
	windows := testWindowManager()
	c := NewController(windows)

	t.Run("no window under the hand", func(t *testing.T) {
		c.OpenMenuAt(0.95, 0.05)
		if c.ActiveMenu() != nil {
			t.Error("expected no menu over the desktop")
		}
	})

	t.Run("menu bound to the window under the hand", func(t *testing.T) {
		c.OpenMenuAt(0.21, 0.37)
		menu := c.ActiveMenu()
		if menu == nil {
			t.Fatal("expected a menu over the editor")
		}
		if menu.Kind != ObjectMenu {
			t.Errorf("expected an object menu, got %s", menu.Kind)
		}
		want := []string{"Close", "Minimize", "Maximize", "Bring to Front"}
		labels := menu.Labels()
		if len(labels) != len(want) {
			t.Fatalf("expected %d options, got %d", len(want), len(labels))
		}
		for i := range want {
			if labels[i] != want[i] {
				t.Errorf("expected option %d to be %q, got %q", i, want[i], labels[i])
			}
		}
		if x, y := menu.Position(); x != 0.21 || y != 0.37 {
			t.Errorf("expected menu at the hand (0.21, 0.37), got (%v, %v)", x, y)
		}
	})
}

func TestController_MenuActionsDriveWindows(t *testing.T) {
	windows := testWindowManager()
	c := NewController(windows)

	c.OpenMenuAt(0.21, 0.37)
	if c.ActiveMenu() == nil {
		t.Fatal("expected a menu over the editor")
	}

	// Top of the ring is option 0: Close.
	c.Menus().SelectByAngle(-math.Pi / 2)
	c.Menus().ExecuteActive()

	if closed := windows.Closed(); len(closed) != 1 || closed[0] != "0x01" {
		t.Errorf("expected the editor closed via the menu, got %v", closed)
	}
	if c.ActiveMenu() != nil {
		t.Error("expected the menu gone after execution")
	}
}

func TestController_ToggleMenu(t *testing.T) {
	windows := testWindowManager()
	c := NewController(windows)
	c.UpdateHandPosition(0.21, 0.37, 0.3)

	c.ToggleMenu()
	if c.ActiveMenu() == nil {
		t.Fatal("expected toggle to open a menu over the editor")
	}

	c.ToggleMenu()
	if c.ActiveMenu() != nil {
		t.Error("expected toggle to close the open menu")
	}
}

func TestController_MenuExclusivity(t *testing.T) {
	windows := testWindowManager()
	c := NewController(windows)

	c.OpenMenuAt(0.21, 0.37)
	first := c.ActiveMenu()
	c.OpenMenuAt(0.65, 0.55)
	second := c.ActiveMenu()

	if second == nil || second == first {
		t.Fatal("expected a fresh menu over the browser")
	}
	if first.IsOpen() {
		t.Error("expected the first menu closed when the second opened")
	}
}

func TestController_ProcessIntentUpdatesHand(t *testing.T) {
	windows := testWindowManager()
	c := NewController(windows)

	c.ProcessIntent(intent.Intent{Type: intent.HoverObject, Position: detector.Point3D{X: 1.5, Y: -0.2, Z: 0.4}})
	x, y, z := c.HandPosition()
	if x != 1 || y != 0 || z != 0.4 {
		t.Errorf("expected hand clamped to (1, 0, 0.4), got (%v, %v, %v)", x, y, z)
	}
}

func TestController_FailedSideEffectKeepsState(t *testing.T) {
	windows := testWindowManager()
	c := NewController(windows)
	windows.SetError(errors.New("window system busy"))

	c.ProcessIntent(grabAt(0.21, 0.37))
	if c.GrabbedID() != "0x01" {
		t.Fatalf("expected grab state despite the failed raise, got %q", c.GrabbedID())
	}

	c.ProcessIntent(grabAt(0.30, 0.45))
	if c.GrabbedID() != "0x01" {
		t.Error("expected grab to survive a failed move")
	}
	if len(windows.Moves()) != 1 {
		t.Errorf("expected the failed move attempt recorded, got %d", len(windows.Moves()))
	}
}

func TestController_Reset(t *testing.T) {
	windows := testWindowManager()
	c := NewController(windows)

	t.Run("clears hover", func(t *testing.T) {
		c.ProcessIntent(intent.Intent{Type: intent.HoverObject, Position: detector.Point3D{X: 0.21, Y: 0.37, Z: 0.3}})
		if c.HoveredID() == "" {
			t.Fatal("expected a hovered window before reset")
		}
		c.Reset()
		if c.HoveredID() != "" {
			t.Errorf("expected hover cleared on reset, got %q", c.HoveredID())
		}
	})

	t.Run("clears grab and menu", func(t *testing.T) {
		c.ProcessIntent(grabAt(0.21, 0.37))
		c.OpenMenuAt(0.21, 0.37)

		c.Reset()

		if c.GrabbedID() != "" || c.GrabbedTitle() != "" {
			t.Error("expected grab cleared on reset")
		}
		if c.ActiveMenu() != nil {
			t.Error("expected menu closed on reset")
		}
		if len(c.Windows()) != 2 {
			t.Errorf("expected windows untouched by reset, got %d", len(c.Windows()))
		}
	})
}
