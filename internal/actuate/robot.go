package actuate

import "github.com/go-vgo/robotgo"

// robotActuator drives the real mouse and keyboard through robotgo.
type robotActuator struct{}

// NewActuator creates the robotgo-backed Actuator.
func NewActuator() Actuator {
	return robotActuator{}
}

func (robotActuator) MoveCursor(x, y int) {
	robotgo.Move(x, y)
}

func (robotActuator) CursorPosition() (int, int) {
	return robotgo.Location()
}

func (robotActuator) Click() {
	robotgo.Click("left", false)
}

func (robotActuator) MouseDown() error {
	return robotgo.Toggle("left", "down")
}

func (robotActuator) MouseUp() error {
	return robotgo.Toggle("left", "up")
}

func (robotActuator) KeyTap(key string, mods ...string) error {
	args := make([]interface{}, len(mods))
	for i, m := range mods {
		args[i] = m
	}
	return robotgo.KeyTap(key, args...)
}

func (robotActuator) Scroll(amount int) {
	if amount >= 0 {
		robotgo.ScrollDir(amount, "up")
	} else {
		robotgo.ScrollDir(-amount, "down")
	}
}

func (robotActuator) Screenshot(path string) error {
	return robotgo.SaveCapture(path)
}

func (robotActuator) ScreenSize() (int, int) {
	return robotgo.GetScreenSize()
}
