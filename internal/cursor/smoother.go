// Package cursor converts normalized hand positions into cursor movements
// using double exponential smoothing, so motion feels weighted rather than
// jittery.
package cursor

import "math"

// Mode selects how hand coordinates map to the screen.
type Mode int

const (
	// ModeRelative moves the cursor by smoothed hand deltas, like a mouse.
	ModeRelative Mode = iota
	// ModeAbsolute maps the hand position in the frame directly to a screen
	// position.
	ModeAbsolute
)

// Params tunes the smoother.
type Params struct {
	// Alpha weights the position term. Higher is more responsive.
	Alpha float64 `json:"alpha"`
	// Beta weights the velocity term. Higher carries more momentum.
	Beta float64 `json:"beta"`
	// MaxVelocity caps the velocity term per axis to prevent overshoot.
	MaxVelocity float64 `json:"max_velocity"`
	// Sensitivity multiplies relative hand movement before smoothing.
	Sensitivity float64 `json:"sensitivity"`
	// AbsoluteAlpha is the base smoothing weight in absolute mode. The
	// effective weight grows with movement size, up to 0.5.
	AbsoluteAlpha float64 `json:"absolute_alpha"`
}

// DefaultParams returns the tuning used by the control pipeline.
func DefaultParams() Params {
	return Params{
		Alpha:         0.6,
		Beta:          0.4,
		MaxVelocity:   0.05,
		Sensitivity:   1.0,
		AbsoluteAlpha: 0.35,
	}
}

// Smoother tracks one hand's motion and produces cursor targets. In relative
// mode it applies Holt's double exponential smoothing to frame-to-frame hand
// deltas: an EMA over position plus a smoothed velocity term that folds back
// into the position, giving natural acceleration and glide. Not safe for
// concurrent use.
type Smoother struct {
	params  Params
	mode    Mode
	screenW int
	screenH int

	hasRef    bool
	refX      float64
	refY      float64
	hasSmooth bool
	smoothX   float64
	smoothY   float64
	velocityX float64
	velocityY float64
}

// NewSmoother creates a Smoother in relative mode for the given screen
// dimensions in pixels.
func NewSmoother(params Params, screenW, screenH int) *Smoother {
	return &Smoother{
		params:  params,
		screenW: screenW,
		screenH: screenH,
	}
}

// SetMode switches the mapping mode. Smoothing state carries different
// meanings per mode, so callers should Reset after switching.
func (s *Smoother) SetMode(mode Mode) {
	s.mode = mode
}

// Update consumes one normalized hand position together with the current
// cursor position and returns the cursor target. The boolean reports whether
// the cursor should move; movements inside the dead zone return the current
// position unchanged.
func (s *Smoother) Update(x, y float64, curX, curY int) (int, int, bool) {
	if s.mode == ModeAbsolute {
		return s.updateAbsolute(x, y, curX, curY)
	}
	return s.updateRelative(x, y, curX, curY)
}

func (s *Smoother) updateRelative(x, y float64, curX, curY int) (int, int, bool) {
	// First frame only establishes the reference point.
	if !s.hasRef {
		s.refX, s.refY = x, y
		s.smoothX, s.smoothY = 0, 0
		s.velocityX, s.velocityY = 0, 0
		s.hasRef = true
		s.hasSmooth = true
		return curX, curY, false
	}

	rawDX := (x - s.refX) * s.params.Sensitivity
	rawDY := (y - s.refY) * s.params.Sensitivity

	alpha := s.params.Alpha
	beta := s.params.Beta

	s.smoothX = alpha*rawDX + (1-alpha)*s.smoothX
	s.smoothY = alpha*rawDY + (1-alpha)*s.smoothY

	// The velocity sample is the contribution the new input made to the
	// smoothed position, scaled back up by the retained fraction.
	var velocityUpdateX, velocityUpdateY float64
	if alpha < 1 {
		velocityUpdateX = (alpha * rawDX) / (1 - alpha)
		velocityUpdateY = (alpha * rawDY) / (1 - alpha)
	}

	s.velocityX = clamp(beta*velocityUpdateX+(1-beta)*s.velocityX, s.params.MaxVelocity)
	s.velocityY = clamp(beta*velocityUpdateY+(1-beta)*s.velocityY, s.params.MaxVelocity)

	// Momentum folds back into the smoothed position, so the next frame's
	// EMA starts from the advanced point and motion glides to a stop.
	s.smoothX += s.velocityX
	s.smoothY += s.velocityY

	// The reference trails the hand each frame, making every delta
	// frame-to-frame rather than cumulative.
	s.refX, s.refY = x, y

	dxPixels := s.smoothX * float64(s.screenW)
	dyPixels := s.smoothY * float64(s.screenH)

	// Small motions get a wider dead zone so a resting hand does not
	// wander, while deliberate motion keeps sub-pixel responsiveness.
	deadZone := 0.5
	if math.Hypot(dxPixels, dyPixels) < 3 {
		deadZone = 1.5
	}
	if math.Abs(dxPixels) <= deadZone && math.Abs(dyPixels) <= deadZone {
		return curX, curY, false
	}

	newX := clampInt(curX+int(dxPixels), s.screenW-1)
	newY := clampInt(curY+int(dyPixels), s.screenH-1)
	return newX, newY, true
}

func (s *Smoother) updateAbsolute(x, y float64, curX, curY int) (int, int, bool) {
	if !s.hasSmooth {
		s.smoothX, s.smoothY = x, y
		s.hasSmooth = true
	} else {
		// Larger movements get a higher weight, keeping big motions
		// responsive while damping small jitter.
		dx := math.Abs(x - s.smoothX)
		alphaX := math.Min(s.params.AbsoluteAlpha+dx*0.3, 0.5)
		s.smoothX = alphaX*x + (1-alphaX)*s.smoothX

		dy := math.Abs(y - s.smoothY)
		alphaY := math.Min(s.params.AbsoluteAlpha+dy*0.3, 0.5)
		s.smoothY = alphaY*y + (1-alphaY)*s.smoothY
	}

	screenX := int(s.smoothX * float64(s.screenW))
	screenY := int(s.smoothY * float64(s.screenH))

	// Two-pixel dead zone against the actual cursor position.
	if abs(screenX-curX) > 2 || abs(screenY-curY) > 2 {
		return screenX, screenY, true
	}
	return curX, curY, false
}

// Reset clears all smoothing state. Called when the hand leaves the frame so
// re-detection starts from a fresh reference instead of a stale one across
// the jump.
func (s *Smoother) Reset() {
	s.hasRef = false
	s.hasSmooth = false
	s.refX, s.refY = 0, 0
	s.smoothX, s.smoothY = 0, 0
	s.velocityX, s.velocityY = 0, 0
}

func clamp(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}

func clampInt(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
