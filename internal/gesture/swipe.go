package gesture

import "math"

// Direction identifies a detected swipe motion.
type Direction string

const (
	// SwipeNone means no swipe was detected.
	SwipeNone Direction = ""
	// SwipeLeft is horizontal motion toward the left frame edge.
	SwipeLeft Direction = "swipe_left"
	// SwipeRight is horizontal motion toward the right frame edge.
	SwipeRight Direction = "swipe_right"
	// SwipeUp is vertical motion toward the top frame edge.
	SwipeUp Direction = "swipe_up"
	// SwipeDown is vertical motion toward the bottom frame edge.
	SwipeDown Direction = "swipe_down"
)

// SwipeParams tunes the horizontal swipe detector.
type SwipeParams struct {
	// Window is the number of most recent samples examined per detection.
	Window int `json:"window"`
	// MinDisplacement is the total x travel required across the window.
	MinDisplacement float64 `json:"min_displacement"`
	// MinAvgVelocity is the minimum average per-frame travel.
	MinAvgVelocity float64 `json:"min_avg_velocity"`
	// MinPeakVelocity is the minimum single best per-frame travel.
	MinPeakVelocity float64 `json:"min_peak_velocity"`
	// Deadband is the per-frame travel below which a frame counts as
	// neutral rather than directional.
	Deadband float64 `json:"deadband"`
}

// DefaultSwipeParams returns the tuning used by the control pipeline. The
// short window and low displacement threshold favor responsiveness; there is
// deliberately no upper speed limit so very fast swipes still register.
func DefaultSwipeParams() SwipeParams {
	return SwipeParams{
		Window:          5,
		MinDisplacement: 0.06,
		MinAvgVelocity:  0.010,
		MinPeakVelocity: 0.015,
		Deadband:        0.008,
	}
}

// SwipeDetector recognizes horizontal swipes from a rolling history of
// normalized wrist x positions.
type SwipeDetector struct {
	history *History
	params  SwipeParams
}

// NewSwipeDetector creates a detector buffering at most capacity samples.
func NewSwipeDetector(capacity int, params SwipeParams) *SwipeDetector {
	return &SwipeDetector{
		history: NewHistory(capacity),
		params:  params,
	}
}

// Observe appends one wrist x sample to the motion history.
func (d *SwipeDetector) Observe(x float64) {
	d.history.Add(x)
}

// Len returns the number of buffered samples.
func (d *SwipeDetector) Len() int {
	return d.history.Len()
}

// Clear discards the motion history. Callers clear after acting on a swipe
// so one motion cannot fire twice.
func (d *SwipeDetector) Clear() {
	d.history.Clear()
}

// Detect examines the most recent samples and reports a swipe direction, or
// SwipeNone if the motion does not qualify.
func (d *SwipeDetector) Detect() Direction {
	return DetectSwipe(d.history.Values(), d.params)
}

// DetectSwipe classifies a series of x positions as a horizontal swipe.
// Displacement dominates: the motion must travel MinDisplacement across the
// examined window, at least half the frames must agree on direction, and
// either the average or the peak per-frame velocity must clear its floor.
// A near-miss on direction agreement is still accepted when the average
// velocity is half again the floor, which catches fast flicks with a single
// jittery frame.
func DetectSwipe(samples []float64, p SwipeParams) Direction {
	if len(samples) < 3 {
		return SwipeNone
	}

	window := p.Window
	if window > len(samples) {
		window = len(samples)
	}
	if window < 3 {
		return SwipeNone
	}
	win := samples[len(samples)-window:]

	n := len(win)
	dx := win[n-1] - win[0]
	avgVelocity := math.Abs(dx) / float64(n)

	var peak float64
	var rightMoves, leftMoves int
	for i := 1; i < n; i++ {
		delta := win[i] - win[i-1]
		if a := math.Abs(delta); a > peak {
			peak = a
		}
		switch {
		case delta > p.Deadband:
			rightMoves++
		case delta < -p.Deadband:
			leftMoves++
		}
	}

	consistency := n / 2
	if consistency < 2 {
		consistency = 2
	}
	relaxed := consistency - 1
	if relaxed < 1 {
		relaxed = 1
	}

	switch {
	case dx > p.MinDisplacement:
		if rightMoves >= consistency && (avgVelocity >= p.MinAvgVelocity || peak >= p.MinPeakVelocity) {
			return SwipeRight
		}
		if rightMoves >= relaxed && avgVelocity >= p.MinAvgVelocity*1.5 {
			return SwipeRight
		}
	case dx < -p.MinDisplacement:
		if leftMoves >= consistency && (avgVelocity >= p.MinAvgVelocity || peak >= p.MinPeakVelocity) {
			return SwipeLeft
		}
		if leftMoves >= relaxed && avgVelocity >= p.MinAvgVelocity*1.5 {
			return SwipeLeft
		}
	}
	return SwipeNone
}
