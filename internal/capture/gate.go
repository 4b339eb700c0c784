package capture

import (
	"time"

	"gocv.io/x/gocv"
)

// Gate picks the pipeline frame rate from recent motion. A frame with
// motion, or one arriving within idleAfter of the last motion, keeps the
// pipeline at its active rate; a quiet stretch lets it drop to the idle
// rate. Used from the single pipeline goroutine.
type Gate struct {
	detector   *MotionDetector
	idleAfter  time.Duration
	lastMotion time.Time
}

// NewGate creates a Gate with the given motion threshold (percentage of
// changed pixels) and idle timeout.
func NewGate(threshold float64, idleAfter time.Duration) *Gate {
	return &Gate{
		detector:  NewMotionDetector(threshold),
		idleAfter: idleAfter,
	}
}

// Observe feeds a frame to the motion detector and reports whether the
// pipeline should run at its active rate.
func (g *Gate) Observe(frame *gocv.Mat, now time.Time) bool {
	detected, _ := g.detector.Detect(frame)
	if detected {
		g.lastMotion = now
	}
	return !g.lastMotion.IsZero() && now.Sub(g.lastMotion) < g.idleAfter
}

// Touch records activity seen outside the motion detector, such as a
// tracked hand, keeping the pipeline at its active rate.
func (g *Gate) Touch(now time.Time) {
	g.lastMotion = now
}

// Reset clears motion state so the next frame starts a fresh baseline.
func (g *Gate) Reset() {
	g.detector.Reset()
	g.lastMotion = time.Time{}
}

// Close releases the underlying detector resources.
func (g *Gate) Close() {
	g.detector.Close()
}
