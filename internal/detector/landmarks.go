// Package detector models MediaPipe hand landmarks and the detectors
// that produce them from camera frames.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D represents a 3D point in space with x, y, z coordinates.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
// Coordinates are normalized to [0,1] in camera space.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Distance2D calculates the Euclidean distance between two points in the
// image plane, ignoring depth.
func Distance2D(a, b Point3D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Distance3D calculates the Euclidean distance between two 3D points.
func Distance3D(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Angle2D returns the angle in radians of the vector from a to b in the
// image plane, measured counterclockwise from the positive x axis.
func Angle2D(a, b Point3D) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// HandSize returns the distance from the wrist to the middle finger MCP in
// the image plane. Classification thresholds scale by this value so that
// gestures read the same regardless of how far the hand is from the camera.
func (h *HandLandmarks) HandSize() float64 {
	return Distance2D(h.Points[Wrist], h.Points[MiddleMCP])
}

// ControlPoint returns the index finger MCP point, the anchor the control
// pipeline tracks for cursor movement and object manipulation. The knuckle
// moves far less than the fingertips during gesture changes, which keeps the
// anchor stable while the hand opens and closes.
func (h *HandLandmarks) ControlPoint() Point3D {
	return h.Points[IndexMCP]
}

// Depth estimates how far the hand is from the camera from the apparent
// wrist to index MCP distance, mapped into the scene's normalized z range.
// Small hands read as far away (larger z), large hands as close.
func (h *HandLandmarks) Depth() float64 {
	size := Distance2D(h.Points[Wrist], h.Points[IndexMCP])
	return 0.3 + (1.0-size*2)*0.2
}

// Normalize returns a copy of the landmarks translated so the wrist sits
// at the origin and scaled so the wrist to middle MCP distance is 1.
// Handedness and score carry over unchanged.
func (h *HandLandmarks) Normalize() *HandLandmarks {
	if h == nil {
		return nil
	}

	out := &HandLandmarks{Handedness: h.Handedness, Score: h.Score}
	wrist := h.Points[Wrist]
	for i, p := range h.Points {
		out.Points[i] = Point3D{X: p.X - wrist.X, Y: p.Y - wrist.Y, Z: p.Z - wrist.Z}
	}

	scale := Distance3D(Point3D{}, out.Points[MiddleMCP])
	if scale < 1e-10 {
		// A degenerate hand stays merely translated.
		return out
	}
	for i := range out.Points {
		out.Points[i].X /= scale
		out.Points[i].Y /= scale
		out.Points[i].Z /= scale
	}
	return out
}
