package scene

import (
	"math"
	"strings"
)

// MenuKind identifies a contextual menu template.
type MenuKind string

const (
	ObjectMenu  MenuKind = "object_menu"
	SystemMenu  MenuKind = "system_menu"
	ContextMenu MenuKind = "context_menu"
)

// Option is one entry of a radial menu. Action may be nil for
// placeholder entries; executing those is a no-op.
type Option struct {
	Label  string
	Icon   string
	Action func()
}

// NewOption creates an option whose icon defaults to the label's first
// letter.
func NewOption(label string, action func()) Option {
	icon := ""
	if label != "" {
		icon = strings.ToUpper(string([]rune(label)[0]))
	}
	return Option{Label: label, Icon: icon, Action: action}
}

// RadialMenu is a ring of options drawn around the hand position.
// Option 0 sits at the top and the ring runs clockwise.
type RadialMenu struct {
	Kind    MenuKind
	Options []Option

	open     bool
	selected int
	x        float64
	y        float64
}

// NewRadialMenu creates a closed menu with the given options.
func NewRadialMenu(kind MenuKind, options []Option) *RadialMenu {
	return &RadialMenu{Kind: kind, Options: options, selected: -1}
}

// Open shows the menu at the normalized position with no selection.
func (r *RadialMenu) Open(x, y float64) {
	r.open = true
	r.x = x
	r.y = y
	r.selected = -1
}

// Close hides the menu and clears position and selection.
func (r *RadialMenu) Close() {
	r.open = false
	r.x = 0
	r.y = 0
	r.selected = -1
}

// IsOpen reports whether the menu is showing.
func (r *RadialMenu) IsOpen() bool {
	return r.open
}

// Position returns the menu center in normalized coordinates.
func (r *RadialMenu) Position() (float64, float64) {
	return r.x, r.y
}

// Select highlights the option at index. Out-of-range indices are
// ignored.
func (r *RadialMenu) Select(index int) {
	if index >= 0 && index < len(r.Options) {
		r.selected = index
	}
}

// SelectedIndex returns the highlighted option index, or -1.
func (r *RadialMenu) SelectedIndex() int {
	return r.selected
}

// ExecuteSelected runs the highlighted option's action and closes the
// menu. With no selection the menu stays open.
func (r *RadialMenu) ExecuteSelected() {
	if r.selected < 0 || r.selected >= len(r.Options) {
		return
	}
	if action := r.Options[r.selected].Action; action != nil {
		action()
	}
	r.Close()
}

// Labels returns the option labels in ring order.
func (r *RadialMenu) Labels() []string {
	labels := make([]string, len(r.Options))
	for i, opt := range r.Options {
		labels[i] = opt.Label
	}
	return labels
}

// MenuManager owns the active menu. At most one menu is open at a time.
type MenuManager struct {
	active *RadialMenu
}

// NewMenuManager creates a manager with no open menu.
func NewMenuManager() *MenuManager {
	return &MenuManager{}
}

// DefaultOptions returns the placeholder template for a menu kind.
// Real menus bind actions when they are built, as the window controller
// does for its object menus.
func DefaultOptions(kind MenuKind) []Option {
	switch kind {
	case ObjectMenu:
		return []Option{
			NewOption("Close", nil),
			NewOption("Minimize", nil),
			NewOption("Maximize", nil),
			NewOption("Properties", nil),
		}
	case SystemMenu:
		return []Option{
			NewOption("Settings", nil),
			NewOption("Help", nil),
			NewOption("Exit", nil),
		}
	}
	return nil
}

// CreateMenu builds a menu of the given kind. Nil options fall back to
// the kind's template.
func (m *MenuManager) CreateMenu(kind MenuKind, options []Option) *RadialMenu {
	if options == nil {
		options = DefaultOptions(kind)
	}
	return NewRadialMenu(kind, options)
}

// OpenMenu opens the menu at the normalized position, closing any menu
// already open.
func (m *MenuManager) OpenMenu(menu *RadialMenu, x, y float64) {
	if m.active != nil {
		m.active.Close()
	}
	m.active = menu
	menu.Open(x, y)
}

// CloseMenu closes the active menu if any.
func (m *MenuManager) CloseMenu() {
	if m.active != nil {
		m.active.Close()
		m.active = nil
	}
}

// Active returns the active menu, or nil.
func (m *MenuManager) Active() *RadialMenu {
	return m.active
}

// SelectByAngle highlights the option the hand points at. The angle is
// measured from the menu center in radians, 0 toward the right and
// growing clockwise (screen y grows downward), with option 0 at the
// top.
func (m *MenuManager) SelectByAngle(angle float64) {
	if m.active == nil || !m.active.IsOpen() || len(m.active.Options) == 0 {
		return
	}

	angle = math.Mod(angle, 2*math.Pi)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	// Shift so the first option's slice starts at the top of the ring.
	angle = math.Mod(angle+math.Pi/2, 2*math.Pi)

	count := len(m.active.Options)
	optionAngle := 2 * math.Pi / float64(count)
	m.active.Select(int(angle/optionAngle) % count)
}

// ExecuteActive runs the active menu's highlighted option. The menu
// closes on execution and the manager forgets it.
func (m *MenuManager) ExecuteActive() {
	if m.active == nil {
		return
	}
	m.active.ExecuteSelected()
	if !m.active.IsOpen() {
		m.active = nil
	}
}
