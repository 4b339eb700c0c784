// Package intent abstracts per-frame gesture evidence into high-level user
// intents. Downstream consumers act on intents rather than raw hand data,
// which keeps scene control, automation hooks and clients decoupled from the
// recognition details.
package intent

import (
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// Type identifies a high-level user intent.
type Type string

const (
	GrabObject    Type = "grab_object"
	ReleaseObject Type = "release_object"
	HoverObject   Type = "hover_object"
	SwipeLeft     Type = "swipe_left"
	SwipeRight    Type = "swipe_right"
	SwipeUp       Type = "swipe_up"
	SwipeDown     Type = "swipe_down"
	OpenMenu      Type = "open_menu"
	CloseMenu     Type = "close_menu"
	SelectOption  Type = "select_option"
	Click         Type = "click"
	Drag          Type = "drag"
	Scroll        Type = "scroll"
	Zoom          Type = "zoom"
	Rotate        Type = "rotate"
	Unknown       Type = "unknown"
)

// Describe returns a human-readable description of the intent type.
func (t Type) Describe() string {
	switch t {
	case GrabObject:
		return "Grab nearest object"
	case ReleaseObject:
		return "Release object"
	case HoverObject:
		return "Hover over object"
	case SwipeLeft:
		return "Switch to left panel/app"
	case SwipeRight:
		return "Switch to right panel/app"
	case SwipeUp:
		return "Scroll up / Switch to upper menu"
	case SwipeDown:
		return "Scroll down / Switch to lower menu"
	case OpenMenu:
		return "Open contextual menu"
	case CloseMenu:
		return "Close menu"
	case SelectOption:
		return "Select menu option"
	case Click:
		return "Click on object"
	case Drag:
		return "Drag object"
	case Scroll:
		return "Scroll content"
	case Zoom:
		return "Zoom in/out"
	case Rotate:
		return "Rotate object"
	}
	return "Unknown gesture"
}

// Valid reports whether t is a type the processor can emit. Action
// bindings are validated against this set.
func (t Type) Valid() bool {
	switch t {
	case GrabObject, ReleaseObject, HoverObject,
		SwipeLeft, SwipeRight, SwipeUp, SwipeDown,
		OpenMenu, CloseMenu, SelectOption,
		Click, Drag, Scroll, Zoom, Rotate, Unknown:
		return true
	}
	return false
}

// Intent is one recognized user intent with its context.
type Intent struct {
	Type       Type              `json:"type"`
	Confidence float64           `json:"confidence"`
	Position   detector.Point3D  `json:"position"`
	Direction  gesture.Direction `json:"direction,omitempty"`
	VelocityX  float64           `json:"velocity_x,omitempty"`
	VelocityY  float64           `json:"velocity_y,omitempty"`
}

// Observation is the per-frame gesture evidence the processor consumes.
type Observation struct {
	Fist          bool
	OpenPalm      bool
	IndexPointing bool
	Swipe         gesture.Direction
	Position      detector.Point3D
	VelocityX     float64
	VelocityY     float64
}

// Processor converts observations into intents. It remembers the intent the
// caller acted on last frame, which release detection depends on.
type Processor struct {
	last    Intent
	hasLast bool
}

// NewProcessor creates a Processor with no remembered intent.
func NewProcessor() *Processor {
	return &Processor{}
}

// Process derives the intent for one frame. Priority runs grab, release,
// swipe, click, hover; the first matching rule wins.
func (p *Processor) Process(obs Observation) Intent {
	position := obs.Position
	if position == (detector.Point3D{}) {
		// No hand fix from the caller; assume frame center at nominal depth.
		position = detector.Point3D{X: 0.5, Y: 0.5, Z: 0.3}
	}

	if obs.Fist {
		return Intent{
			Type:       GrabObject,
			Confidence: 0.9,
			Position:   position,
			VelocityX:  obs.VelocityX,
			VelocityY:  obs.VelocityY,
		}
	}

	// Release only triggers when the palm opens directly after a grab
	// frame. Any other intervening intent cancels the pairing.
	if obs.OpenPalm && p.hasLast && p.last.Type == GrabObject {
		return Intent{Type: ReleaseObject, Confidence: 0.9, Position: position}
	}

	if obs.Swipe != gesture.SwipeNone {
		if swipeType, ok := swipeIntent(obs.Swipe); ok {
			return Intent{
				Type:       swipeType,
				Confidence: 0.85,
				Position:   position,
				Direction:  obs.Swipe,
			}
		}
	}

	if obs.IndexPointing {
		return Intent{Type: Click, Confidence: 0.8, Position: position}
	}

	if obs.OpenPalm {
		return Intent{Type: HoverObject, Confidence: 0.7, Position: position}
	}

	// Grab takes priority above, so a moving fist never reaches this
	// branch; drag instead emerges from repeated grabs in the scene layer.
	if obs.Fist && (absf(obs.VelocityX) > 0.01 || absf(obs.VelocityY) > 0.01) {
		return Intent{
			Type:       Drag,
			Confidence: 0.85,
			Position:   position,
			VelocityX:  obs.VelocityX,
			VelocityY:  obs.VelocityY,
		}
	}

	return Intent{Type: Unknown, Confidence: 0.0, Position: position}
}

// Remember records the intent the caller acted on this frame. Call it once
// per frame, including for unknown intents.
func (p *Processor) Remember(intent Intent) {
	p.last = intent
	p.hasLast = true
}

// Last returns the most recently remembered intent. The memory survives hand
// loss deliberately: a grab whose hand slipped out of frame can still pair
// with an open palm on re-detection.
func (p *Processor) Last() (Intent, bool) {
	return p.last, p.hasLast
}

func swipeIntent(d gesture.Direction) (Type, bool) {
	switch d {
	case gesture.SwipeLeft:
		return SwipeLeft, true
	case gesture.SwipeRight:
		return SwipeRight, true
	case gesture.SwipeUp:
		return SwipeUp, true
	case gesture.SwipeDown:
		return SwipeDown, true
	}
	return Unknown, false
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
