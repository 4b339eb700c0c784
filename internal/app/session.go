package app

import (
	"fmt"
	"log"
	"math"
	"path/filepath"
	"time"

	"github.com/ayusman/mudra/internal/actuate"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/cursor"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/intent"
	"github.com/ayusman/mudra/internal/scene"
	"github.com/google/uuid"
)

// scrollStep is the wheel travel of one scroll action.
const scrollStep = 3

// IntentEvent is one published intent transition together with the
// evidence behind it. The session publishes a change of intent type
// once; holding a pose does not repeat the event.
type IntentEvent struct {
	SessionID string        `json:"session_id"`
	Gesture   gesture.Label `json:"gesture"`
	Intent    intent.Intent `json:"intent"`
	Time      time.Time     `json:"time"`
}

// Frame is the outcome of processing one capture frame, consumed by
// the overlay and the status snapshot. The Hand pointer is only valid
// for the frame it was returned for.
type Frame struct {
	HandPresent bool
	Hand        *detector.HandLandmarks
	Label       gesture.Label
	Levels      gesture.Levels
	Swipe       gesture.Direction
	Intent      intent.Intent
	Position    detector.Point3D
}

// SessionConfig wires a Session.
type SessionConfig struct {
	// ID names the session in the event log. Empty generates one.
	ID string
	// ObjectMode selects window control; otherwise the session drives
	// the OS cursor.
	ObjectMode bool
	// CursorMode selects the smoothing strategy in cursor mode.
	CursorMode cursor.Mode
	// Tuning supplies the algorithm knobs.
	Tuning config.Tuning
	// ScreenshotDir receives pinch screenshots. Empty writes to the
	// working directory.
	ScreenshotDir string
}

// Session is the per-frame control state machine. Each frame's hand
// landmarks become a classified label, rising edges, a buffered
// position, an intent, and finally side effects through the scene
// controller or the actuator. Everything runs on the pipeline
// goroutine; the session is not safe for concurrent use.
type Session struct {
	id            string
	objectMode    bool
	tuning        config.Tuning
	screenshotDir string

	controller *scene.Controller
	actuator   actuate.Actuator

	processor *intent.Processor
	tracker   *gesture.TransitionTracker
	positions *gesture.PointHistory
	swipes    *gesture.SwipeDetector
	smoother  *cursor.Smoother

	swipeCooldown      *gesture.Cooldown
	clickCooldown      *gesture.Cooldown
	menuCooldown       *gesture.Cooldown
	scrollCooldown     *gesture.Cooldown
	screenshotCooldown *gesture.Cooldown

	dragging  bool
	handSeen  bool
	prevLabel gesture.Label
	prevPos   detector.Point3D
	hasPrev   bool

	published    intent.Type
	hasPublished bool
	onIntent     func(IntentEvent)
}

// NewSession assembles the state machine over its collaborators. The
// smoother is sized from the actuator's screen so its dead zones work
// in pixels, and the controller's grab reach follows the tuning.
func NewSession(cfg SessionConfig, controller *scene.Controller, act actuate.Actuator) *Session {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	t := cfg.Tuning

	screenW, screenH := act.ScreenSize()
	smoother := cursor.NewSmoother(t.Smoother, screenW, screenH)
	smoother.SetMode(cfg.CursorMode)

	controller.SetGrabRadius(t.GrabRadius)

	return &Session{
		id:            cfg.ID,
		objectMode:    cfg.ObjectMode,
		tuning:        t,
		screenshotDir: cfg.ScreenshotDir,
		controller:    controller,
		actuator:      act,
		processor:     intent.NewProcessor(),
		tracker:       gesture.NewTransitionTracker(),
		positions:     gesture.NewPointHistory(t.PositionBufferSize),
		swipes:        gesture.NewSwipeDetector(t.SwipeBufferSize, t.Swipe),
		smoother:      smoother,

		swipeCooldown:      gesture.NewCooldown(time.Duration(t.SwipeCooldownMs) * time.Millisecond),
		clickCooldown:      gesture.NewCooldown(time.Duration(t.ClickCooldownMs) * time.Millisecond),
		menuCooldown:       gesture.NewCooldown(time.Duration(t.MenuCooldownMs) * time.Millisecond),
		scrollCooldown:     gesture.NewCooldown(time.Duration(t.ScrollCooldownMs) * time.Millisecond),
		screenshotCooldown: gesture.NewCooldown(time.Duration(t.ScreenshotCooldownMs) * time.Millisecond),

		prevLabel: gesture.LabelUnknown,
	}
}

// ID returns the session identifier used in the event log.
func (s *Session) ID() string {
	return s.id
}

// ObjectMode reports whether the session controls windows rather than
// the OS cursor.
func (s *Session) ObjectMode() bool {
	return s.objectMode
}

// Controller returns the scene controller the session drives.
func (s *Session) Controller() *scene.Controller {
	return s.controller
}

// OnIntent registers the sink for intent transitions. The sink runs on
// the pipeline goroutine.
func (s *Session) OnIntent(fn func(IntentEvent)) {
	s.onIntent = fn
}

// Process runs one frame through the machine. An empty slice means no
// hand was detected this frame; with several hands the first one wins.
func (s *Session) Process(hands []detector.HandLandmarks, now time.Time) Frame {
	if len(hands) == 0 {
		if s.handSeen {
			s.Reset()
		}
		return Frame{}
	}
	hand := &hands[0]

	label, _ := gesture.Classify(hand)
	label = gesture.Refine(hand, label)
	levels := gesture.LevelsFor(label)
	edges := s.tracker.Update(levels)

	control := hand.ControlPoint()
	control.Z = hand.Depth()
	s.positions.Add(control)
	pos := s.positions.Mean()

	var vx, vy float64
	if s.hasPrev {
		vx = pos.X - s.prevPos.X
		vy = pos.Y - s.prevPos.Y
	}
	s.prevPos, s.hasPrev = pos, true

	s.swipes.Observe(hand.Points[detector.Wrist].X)
	var dir gesture.Direction
	if !levels.Fist && s.swipes.Len() >= s.tuning.SwipeMinSamples {
		dir = s.swipes.Detect()
	}

	it := s.processor.Process(intent.Observation{
		Fist:          levels.Fist,
		OpenPalm:      levels.OpenPalm,
		IndexPointing: levels.IndexPointing,
		Swipe:         dir,
		Position:      pos,
		VelocityX:     vx,
		VelocityY:     vy,
	})
	s.processor.Remember(it)

	if s.objectMode {
		s.controlObjects(it, label, pos, edges, now)
	} else {
		s.controlCursor(control, levels, edges, now)
	}
	s.runSharedActions(edges, dir, now)

	s.prevLabel = label
	s.handSeen = true
	s.publish(label, it, now)

	return Frame{
		HandPresent: true,
		Hand:        hand,
		Label:       label,
		Levels:      levels,
		Swipe:       dir,
		Intent:      it,
		Position:    pos,
	}
}

// controlObjects drives the window scene. A thumbs-up onset toggles
// the context menu; while a menu is open the hand angle tracks the
// highlighted option and an index-point onset executes it. Object mode
// never issues OS clicks.
func (s *Session) controlObjects(it intent.Intent, label gesture.Label, pos detector.Point3D, edges gesture.Edges, now time.Time) {
	s.controller.ProcessIntent(it)

	if label == gesture.LabelThumbsUp && s.prevLabel != gesture.LabelThumbsUp && s.menuCooldown.TryFire(now) {
		s.controller.ToggleMenu()
	}

	if menu := s.controller.ActiveMenu(); menu != nil && menu.IsOpen() {
		mx, my := menu.Position()
		s.controller.Menus().SelectByAngle(math.Atan2(pos.Y-my, pos.X-mx))
		if edges.IndexPointing && s.clickCooldown.TryFire(now) {
			s.controller.Menus().ExecuteActive()
		}
	}
}

// controlCursor drives the OS cursor from the raw control point. The
// smoother owns reference handling, so the first frame after
// (re)acquisition moves nothing. A fist holds the left button for as
// long as it lasts; an open-palm onset drops it.
func (s *Session) controlCursor(control detector.Point3D, levels gesture.Levels, edges gesture.Edges, now time.Time) {
	curX, curY := s.actuator.CursorPosition()
	if x, y, ok := s.smoother.Update(control.X, control.Y, curX, curY); ok {
		s.actuator.MoveCursor(x, y)
	}

	if edges.IndexPointing && s.clickCooldown.TryFire(now) {
		s.actuator.Click()
	}

	if levels.Fist && !s.dragging {
		s.startDrag()
	}
	if edges.OpenPalm && s.dragging {
		s.stopDrag()
	}
}

// runSharedActions dispatches the mode-independent built-ins: a swipe
// switches desktops or scrolls, a pinch onset captures a screenshot,
// and a pointing-down onset scrolls down.
func (s *Session) runSharedActions(edges gesture.Edges, dir gesture.Direction, now time.Time) {
	if dir != gesture.SwipeNone && s.swipeCooldown.TryFire(now) {
		s.dispatchSwipe(dir)
		// One motion must not fire twice.
		s.swipes.Clear()
	}

	if edges.Pinch && s.screenshotCooldown.TryFire(now) {
		s.takeScreenshot(now)
	}

	if edges.PointingDown && s.scrollCooldown.TryFire(now) {
		s.actuator.Scroll(-scrollStep)
	}
}

// dispatchSwipe maps a swipe to its desktop command: left and right
// change virtual desktop, up and down scroll.
func (s *Session) dispatchSwipe(dir gesture.Direction) {
	switch dir {
	case gesture.SwipeLeft:
		if err := s.actuator.KeyTap("left", "ctrl", "alt"); err != nil {
			log.Printf("session: switch desktop left: %v", err)
		}
	case gesture.SwipeRight:
		if err := s.actuator.KeyTap("right", "ctrl", "alt"); err != nil {
			log.Printf("session: switch desktop right: %v", err)
		}
	case gesture.SwipeUp:
		s.actuator.Scroll(scrollStep)
	case gesture.SwipeDown:
		s.actuator.Scroll(-scrollStep)
	}
}

// takeScreenshot writes a timestamped capture under the screenshot
// directory.
func (s *Session) takeScreenshot(now time.Time) {
	name := fmt.Sprintf("mudra-%s.png", now.Format("20060102-150405"))
	path := name
	if s.screenshotDir != "" {
		path = filepath.Join(s.screenshotDir, name)
	}
	if err := s.actuator.Screenshot(path); err != nil {
		log.Printf("session: screenshot %s: %v", path, err)
		return
	}
	log.Printf("session: screenshot saved to %s", path)
}

func (s *Session) startDrag() {
	if err := s.actuator.MouseDown(); err != nil {
		log.Printf("session: mouse down: %v", err)
	}
	s.dragging = true
}

func (s *Session) stopDrag() {
	if err := s.actuator.MouseUp(); err != nil {
		log.Printf("session: mouse up: %v", err)
	}
	s.dragging = false
}

// publish forwards the intent to the sink when its type changed.
func (s *Session) publish(label gesture.Label, it intent.Intent, now time.Time) {
	if s.hasPublished && it.Type == s.published {
		return
	}
	s.published = it.Type
	s.hasPublished = true
	if s.onIntent != nil {
		s.onIntent(IntentEvent{SessionID: s.id, Gesture: label, Intent: it, Time: now})
	}
}

// Reset returns the per-frame state to a fresh start: any held drag is
// released, the smoother forgets its reference, histories and edge
// state clear, and the controller drops its grab, hover, and menu.
// The session id and the processor's remembered intent survive, so a
// grab interrupted by hand loss can still pair with a release.
func (s *Session) Reset() {
	if s.dragging {
		s.stopDrag()
	}
	s.smoother.Reset()
	s.swipes.Clear()
	s.positions.Clear()
	s.tracker.Reset()
	s.controller.Reset()
	s.prevLabel = gesture.LabelUnknown
	s.prevPos = detector.Point3D{}
	s.hasPrev = false
	s.handSeen = false
	s.hasPublished = false
}
