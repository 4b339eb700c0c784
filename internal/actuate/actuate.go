// Package actuate issues OS-level input on behalf of the session: cursor
// motion, clicks, drags, key taps, scrolling, and screenshots. The
// session decides what to do each frame; this package only does it.
package actuate

// Actuator is the actuation collaborator. Calls that can fail at the OS
// level return an error; callers log and carry on, since a failed side
// effect never invalidates session state.
type Actuator interface {
	// MoveCursor places the cursor at an absolute pixel position.
	MoveCursor(x, y int)
	// CursorPosition returns the current cursor position in pixels.
	CursorPosition() (int, int)
	// Click performs a single left click at the current position.
	Click()
	// MouseDown presses and holds the left button, starting a drag.
	MouseDown() error
	// MouseUp releases the left button, ending a drag.
	MouseUp() error
	// KeyTap taps a key with the given modifiers held.
	KeyTap(key string, mods ...string) error
	// Scroll scrolls by amount: positive scrolls up, negative down.
	Scroll(amount int)
	// Screenshot captures the screen to the given file path.
	Screenshot(path string) error
	// ScreenSize returns the primary display size in pixels.
	ScreenSize() (int, int)
}
