// Package gesture turns hand landmarks into gesture labels. A per-frame
// geometric classifier produces coarse labels, pointing predicates refine
// them, and temporal detectors recognize swipes from motion history.
package gesture

import (
	"math"

	"github.com/ayusman/mudra/internal/detector"
)

// Label identifies the hand pose recognized in a single frame.
type Label string

const (
	// LabelFist is a closed hand with no fingers extended.
	LabelFist Label = "fist"
	// LabelOpen is an open palm with all five fingers extended.
	LabelOpen Label = "open"
	// LabelPinch is thumb and index tips touching with the back fingers down.
	LabelPinch Label = "pinch"
	// LabelThumbsUp is a vertical hand with only the thumb extended upward.
	LabelThumbsUp Label = "thumbs_up"
	// LabelIndexPointing is only the index finger extended upward.
	LabelIndexPointing Label = "index_pointing"
	// LabelPointingLeft is the index finger reaching toward the left frame edge.
	LabelPointingLeft Label = "pointing_left"
	// LabelPointingRight is the index finger reaching toward the right frame edge.
	LabelPointingRight Label = "pointing_right"
	// LabelPointingDown is the index finger hanging below the wrist.
	LabelPointingDown Label = "pointing_down"
	// LabelUnknown is any pose that matches no known gesture.
	LabelUnknown Label = "unknown"
)

// FingerState records which digits read as extended, thumb first.
type FingerState [5]bool

// Count returns how many digits are extended.
func (f FingerState) Count() int {
	n := 0
	for _, up := range f {
		if up {
			n++
		}
	}
	return n
}

// Classify maps one frame of hand landmarks to a gesture label using joint
// geometry alone, no training data. All thresholds operate on normalized
// camera coordinates where y grows downward, and scale-sensitive checks are
// relative to the apparent hand size so distance from the camera does not
// change the result.
func Classify(hand *detector.HandLandmarks) (Label, FingerState) {
	var fingers FingerState
	if hand == nil {
		return LabelUnknown, fingers
	}

	wrist := hand.Points[detector.Wrist]
	thumbMCP := hand.Points[detector.ThumbMCP]
	thumbIP := hand.Points[detector.ThumbIP]
	thumbTip := hand.Points[detector.ThumbTip]

	// Orientation comes from the spread of the wrist and the five MCP
	// knuckles. Fingertips are excluded so curled fingers do not flip the
	// reading.
	keyXs := [6]float64{
		wrist.X, thumbMCP.X,
		hand.Points[detector.IndexMCP].X, hand.Points[detector.MiddleMCP].X,
		hand.Points[detector.RingMCP].X, hand.Points[detector.PinkyMCP].X,
	}
	keyYs := [6]float64{
		wrist.Y, thumbMCP.Y,
		hand.Points[detector.IndexMCP].Y, hand.Points[detector.MiddleMCP].Y,
		hand.Points[detector.RingMCP].Y, hand.Points[detector.PinkyMCP].Y,
	}
	horizontalSpread := spread(keyXs)
	verticalSpread := spread(keyYs)
	handTop := minOf(keyYs)

	// The thumb check uses a looser horizontal ratio (1.15 vs 1.2) than
	// final classification so a slightly tilted hand still gets the
	// vertical thumb rules.
	if horizontalSpread > verticalSpread*1.15 {
		// Sideways hand: the thumb must reach well past its IP joint to
		// count, otherwise a horizontal fist reads as thumb extended.
		reach := detector.Distance2D(thumbTip, thumbMCP)
		base := detector.Distance2D(thumbIP, thumbMCP)
		if reach > base*1.5 {
			switch hand.Handedness {
			case "Left":
				fingers[0] = thumbTip.X > thumbIP.X+0.05
			case "":
				fingers[0] = math.Abs(thumbTip.X-thumbIP.X) > 0.05
			default:
				fingers[0] = thumbTip.X < thumbIP.X-0.05
			}
		}
	} else {
		// Upright hand: extended means clearly above the thumb MCP or
		// above the top knuckle of the hand.
		fingers[0] = thumbTip.Y < thumbMCP.Y-0.05 || thumbTip.Y < handTop-0.02
	}

	// A finger is extended when its tip sits clearly above its PIP joint.
	fingerJoints := [4][2]int{
		{detector.IndexTip, detector.IndexPIP},
		{detector.MiddleTip, detector.MiddlePIP},
		{detector.RingTip, detector.RingPIP},
		{detector.PinkyTip, detector.PinkyPIP},
	}
	for i, joints := range fingerJoints {
		tip := hand.Points[joints[0]]
		pip := hand.Points[joints[1]]
		fingers[i+1] = pip.Y-tip.Y > 0.01
	}

	// Pinch wins over everything else: thumb and index tips within 12% of
	// the hand size while middle, ring and pinky stay down. Thumb and index
	// extension states do not matter for a pinch.
	pinchGap := detector.Distance2D(thumbTip, hand.Points[detector.IndexTip])
	if pinchGap < hand.HandSize()*0.12 && !fingers[2] && !fingers[3] && !fingers[4] {
		return LabelPinch, fingers
	}

	count := fingers.Count()
	isHorizontal := horizontalSpread > verticalSpread*1.2

	// Thumbs up needs a vertical hand with only the thumb out and the thumb
	// clearly above the hand. A horizontal hand with an extended thumb falls
	// through to the fist rules instead.
	thumbIsUp := thumbTip.Y < handTop+0.05 || thumbTip.Y < thumbMCP.Y-0.06
	if fingers == (FingerState{true, false, false, false, false}) && thumbIsUp && !isHorizontal {
		return LabelThumbsUp, fingers
	}

	switch {
	case count == 0:
		return LabelFist, fingers
	case count <= 1 && isHorizontal:
		// A sideways hand with at most one finger slightly out still reads
		// as a fist; the thumb is often partially visible in that pose.
		return LabelFist, fingers
	case count == 5:
		return LabelOpen, fingers
	}
	return LabelUnknown, fingers
}

func spread(vals [6]float64) float64 {
	return maxOf(vals) - minOf(vals)
}

func minOf(vals [6]float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(vals [6]float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
