package gesture

import "time"

// Levels captures which gesture conditions hold in one frame.
type Levels struct {
	Fist          bool
	OpenPalm      bool
	Pinch         bool
	IndexPointing bool
	PointingDown  bool
}

// LevelsFor derives condition levels from a refined frame label. Because the
// labels are mutually exclusive, at most one level is set; in particular a
// downward-pointing hand does not also read as a fist.
func LevelsFor(label Label) Levels {
	return Levels{
		Fist:          label == LabelFist,
		OpenPalm:      label == LabelOpen,
		Pinch:         label == LabelPinch,
		IndexPointing: label == LabelIndexPointing,
		PointingDown:  label == LabelPointingDown,
	}
}

// Edges reports which conditions began in the current frame.
type Edges struct {
	Fist          bool
	OpenPalm      bool
	Pinch         bool
	IndexPointing bool
	PointingDown  bool
}

// TransitionTracker turns per-frame condition levels into rising edges so
// actions fire once at gesture onset instead of every frame the pose holds.
type TransitionTracker struct {
	prev Levels
}

// NewTransitionTracker creates a tracker with no remembered frame.
func NewTransitionTracker() *TransitionTracker {
	return &TransitionTracker{}
}

// Update records the current frame's levels and returns the conditions that
// just became true.
func (t *TransitionTracker) Update(now Levels) Edges {
	edges := Edges{
		Fist:          now.Fist && !t.prev.Fist,
		OpenPalm:      now.OpenPalm && !t.prev.OpenPalm,
		Pinch:         now.Pinch && !t.prev.Pinch,
		IndexPointing: now.IndexPointing && !t.prev.IndexPointing,
		PointingDown:  now.PointingDown && !t.prev.PointingDown,
	}
	t.prev = now
	return edges
}

// Previous returns the levels recorded by the last Update.
func (t *TransitionTracker) Previous() Levels {
	return t.prev
}

// Reset forgets the remembered frame so the next detection reads as a fresh
// onset. Called when the hand leaves the frame.
func (t *TransitionTracker) Reset() {
	t.prev = Levels{}
}

// Cooldown suppresses repeat firings of an action within a fixed interval.
type Cooldown struct {
	interval time.Duration
	last     time.Time
}

// NewCooldown creates a cooldown with the given minimum interval between
// firings. The first TryFire always succeeds.
func NewCooldown(interval time.Duration) *Cooldown {
	return &Cooldown{interval: interval}
}

// TryFire reports whether the action may fire at now, recording the firing
// time when it does.
func (c *Cooldown) TryFire(now time.Time) bool {
	if !c.last.IsZero() && now.Sub(c.last) < c.interval {
		return false
	}
	c.last = now
	return true
}
