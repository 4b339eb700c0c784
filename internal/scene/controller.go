package scene

import (
	"log"

	"github.com/ayusman/mudra/internal/intent"
	"github.com/ayusman/mudra/internal/windowctl"
)

// DefaultGrabRadius is the normalized distance within which a grab
// reaches a window.
const DefaultGrabRadius = 0.25

// Controller applies intents to real desktop windows. It tracks the
// hand in normalized space, holds at most one grabbed window and at
// most one open menu, and treats window-system failures as log lines:
// control state always updates even when a side effect fails.
//
// The controller is driven from the session's frame loop and is not
// safe for concurrent use.
type Controller struct {
	windows windowctl.Manager
	menus   *MenuManager
	objects *Manager

	handX float64
	handY float64
	handZ float64

	grabRadius float64

	grabbedID    string
	grabbedTitle string
	grabOffsetX  float64
	grabOffsetY  float64

	hoveredID    string
	hoveredTitle string
}

// NewController creates a controller over the given window manager.
func NewController(windows windowctl.Manager) *Controller {
	return &Controller{
		windows:    windows,
		menus:      NewMenuManager(),
		objects:    NewManager(),
		handX:      0.5,
		handY:      0.5,
		handZ:      0.3,
		grabRadius: DefaultGrabRadius,
	}
}

// SetGrabRadius overrides the normalized grab reach.
func (c *Controller) SetGrabRadius(r float64) {
	if r > 0 {
		c.grabRadius = r
	}
}

// UpdateHandPosition moves the tracked hand, clamped to the scene.
func (c *Controller) UpdateHandPosition(x, y, z float64) {
	c.handX = clamp01(x)
	c.handY = clamp01(y)
	c.handZ = clamp01(z)
}

// HandPosition returns the tracked hand position.
func (c *Controller) HandPosition() (float64, float64, float64) {
	return c.handX, c.handY, c.handZ
}

// ProcessIntent applies one intent to the scene.
func (c *Controller) ProcessIntent(it intent.Intent) {
	c.UpdateHandPosition(it.Position.X, it.Position.Y, it.Position.Z)

	switch it.Type {
	case intent.GrabObject:
		c.handleGrab()
	case intent.ReleaseObject:
		c.handleRelease()
	case intent.HoverObject:
		c.handleHover()
	case intent.OpenMenu:
		c.OpenMenuAt(c.handX, c.handY)
	case intent.CloseMenu:
		c.menus.CloseMenu()
	case intent.Drag:
		c.dragMove()
	case intent.SwipeLeft, intent.SwipeRight, intent.SwipeUp, intent.SwipeDown:
		// Swipes are desktop-level commands, dispatched by the session.
	}
}

// handleGrab acquires the nearest window, or drags the held one. A fist
// emits a grab intent every frame, so repeated grabs while holding are
// the drag.
func (c *Controller) handleGrab() {
	if c.grabbedID != "" {
		c.dragMove()
		return
	}

	sw, sh := c.windows.ScreenSize()
	nearest := windowctl.Nearest(c.windows.List(), c.handX, c.handY, c.grabRadius, sw, sh)
	if nearest == nil {
		return
	}

	wx, wy := nearest.NormalizedCenter(sw, sh)
	c.grabbedID = nearest.ID
	c.grabbedTitle = nearest.Title
	c.grabOffsetX = c.handX - wx
	c.grabOffsetY = c.handY - wy
	c.hoveredID, c.hoveredTitle = "", ""

	if err := c.windows.Raise(nearest.ID); err != nil {
		log.Printf("scene: raise window %q: %v", nearest.Title, err)
	}
	log.Printf("scene: grabbed window %q", nearest.Title)
}

func (c *Controller) handleRelease() {
	if c.grabbedID == "" {
		return
	}
	log.Printf("scene: released window %q", c.grabbedTitle)
	c.grabbedID, c.grabbedTitle = "", ""
	c.grabOffsetX, c.grabOffsetY = 0, 0
}

// dragMove moves the grabbed window so the grab point stays under the
// hand.
func (c *Controller) dragMove() {
	if c.grabbedID == "" {
		return
	}
	targetX := c.handX - c.grabOffsetX
	targetY := c.handY - c.grabOffsetY
	if err := c.windows.Move(c.grabbedID, targetX, targetY); err != nil {
		log.Printf("scene: move window %q: %v", c.grabbedTitle, err)
	}
}

// handleHover marks the window under the hand. Only one window is ever
// hovered, and none while a grab is in progress.
func (c *Controller) handleHover() {
	c.hoveredID, c.hoveredTitle = "", ""
	if c.grabbedID != "" {
		return
	}
	sw, sh := c.windows.ScreenSize()
	if w := windowctl.At(c.windows.List(), c.handX, c.handY, sw, sh); w != nil {
		c.hoveredID, c.hoveredTitle = w.ID, w.Title
	}
}

// OpenMenuAt opens a context menu for the window under the point. With
// no window there, nothing opens.
func (c *Controller) OpenMenuAt(x, y float64) {
	sw, sh := c.windows.ScreenSize()
	w := windowctl.At(c.windows.List(), x, y, sw, sh)
	if w == nil {
		return
	}

	id, title := w.ID, w.Title
	options := []Option{
		NewOption("Close", func() { c.logWindowErr("close", title, c.windows.Close(id)) }),
		NewOption("Minimize", func() { c.logWindowErr("minimize", title, c.windows.Minimize(id)) }),
		NewOption("Maximize", func() { c.logWindowErr("maximize", title, c.windows.Maximize(id)) }),
		NewOption("Bring to Front", func() { c.logWindowErr("raise", title, c.windows.Raise(id)) }),
	}
	menu := c.menus.CreateMenu(ObjectMenu, options)
	c.menus.OpenMenu(menu, x, y)
}

// ToggleMenu opens a menu at the hand, or closes the open one.
func (c *Controller) ToggleMenu() {
	if c.menus.Active() != nil {
		c.menus.CloseMenu()
		return
	}
	c.OpenMenuAt(c.handX, c.handY)
}

func (c *Controller) logWindowErr(op, title string, err error) {
	if err != nil {
		log.Printf("scene: %s window %q: %v", op, title, err)
	}
}

// Menus returns the menu manager for selection and execution.
func (c *Controller) Menus() *MenuManager {
	return c.menus
}

// ActiveMenu returns the open menu, or nil.
func (c *Controller) ActiveMenu() *RadialMenu {
	return c.menus.Active()
}

// Objects returns the virtual object scene.
func (c *Controller) Objects() *Manager {
	return c.objects
}

// Windows returns the visible windows.
func (c *Controller) Windows() []windowctl.WindowInfo {
	return c.windows.List()
}

// WindowAt returns the window under a normalized point, or nil.
func (c *Controller) WindowAt(x, y float64) *windowctl.WindowInfo {
	sw, sh := c.windows.ScreenSize()
	return windowctl.At(c.windows.List(), x, y, sw, sh)
}

// GrabbedID returns the grabbed window's id, or empty.
func (c *Controller) GrabbedID() string {
	return c.grabbedID
}

// GrabbedTitle returns the grabbed window's title, or empty.
func (c *Controller) GrabbedTitle() string {
	return c.grabbedTitle
}

// HoveredID returns the hovered window's id, or empty.
func (c *Controller) HoveredID() string {
	return c.hoveredID
}

// Reset clears grab, hover, and menu state after hand loss. Windows
// stay where they are.
func (c *Controller) Reset() {
	c.grabbedID, c.grabbedTitle = "", ""
	c.grabOffsetX, c.grabOffsetY = 0, 0
	c.hoveredID, c.hoveredTitle = "", ""
	c.menus.CloseMenu()
	c.objects.Release()
}
