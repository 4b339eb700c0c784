// Package tray puts the daemon in the system tray: an enable toggle,
// the control mode, the last emitted intent, and a settings shortcut.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray is the daemon's system tray menu.
type Tray struct {
	mu         sync.RWMutex
	onToggle   func(enabled bool)
	onSettings func()
	onQuit     func()
	enabled    bool
	mode       string

	menuToggle     *systray.MenuItem
	menuLastIntent *systray.MenuItem
}

// New creates a tray that will show the restored enabled state and
// control mode once the menu is ready.
func New(enabled bool, mode string) *Tray {
	return &Tray{enabled: enabled, mode: mode}
}

// OnToggle registers the callback for the enable toggle.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnSettings registers the callback for the settings item.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit registers the callback for the quit item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run enters the tray event loop and blocks until Quit.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit exits the tray event loop, unblocking Run. Safe to call from any
// goroutine.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra Gesture Control")

	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle gesture control")
	systray.AddSeparator()

	menuMode := systray.AddMenuItem("Mode: "+t.mode, "Active control mode")
	menuMode.Disable()
	t.menuLastIntent = systray.AddMenuItem("Last: none", "Last emitted intent")
	t.menuLastIntent.Disable()
	systray.AddSeparator()

	menuSettings := systray.AddMenuItem("Open Settings...", "Open settings in browser")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	go t.clickLoop(menuSettings, menuQuit)
}

// clickLoop serves menu clicks until quit. Callbacks run outside the
// lock because they may call back into the tray.
func (t *Tray) clickLoop(settings, quit *systray.MenuItem) {
	for {
		select {
		case <-t.menuToggle.ClickedCh:
			t.toggle()
		case <-settings.ClickedCh:
			t.mu.RLock()
			fn := t.onSettings
			t.mu.RUnlock()
			if fn != nil {
				fn()
			}
		case <-quit.ClickedCh:
			t.mu.RLock()
			fn := t.onQuit
			t.mu.RUnlock()
			if fn != nil {
				fn()
			}
			systray.Quit()
			return
		}
	}
}

// toggle flips the enabled state, retitles the menu item, and notifies.
func (t *Tray) toggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	t.menuToggle.SetTitle(toggleTitle(enabled))
	fn := t.onToggle
	t.mu.Unlock()

	if fn != nil {
		fn(enabled)
	}
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}

// SetLastIntent updates the last intent line in the menu.
func (t *Tray) SetLastIntent(name string) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.menuLastIntent == nil {
		return
	}
	if name == "" {
		name = "none"
	}
	t.menuLastIntent.SetTitle("Last: " + name)
}

// IsEnabled reports the current toggle state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
