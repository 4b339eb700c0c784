package gesture

import "github.com/ayusman/mudra/internal/detector"

// IsIndexPointing reports whether the index finger is extended upward while
// middle, ring and pinky stay curled. The thumb is ignored.
func IsIndexPointing(hand *detector.HandLandmarks) bool {
	if hand == nil {
		return false
	}
	if hand.Points[detector.IndexTip].Y >= hand.Points[detector.IndexPIP].Y {
		return false
	}
	others := [3][2]int{
		{detector.MiddleTip, detector.MiddlePIP},
		{detector.RingTip, detector.RingPIP},
		{detector.PinkyTip, detector.PinkyPIP},
	}
	for _, joints := range others {
		if hand.Points[joints[0]].Y < hand.Points[joints[1]].Y {
			return false
		}
	}
	return true
}

// IsPointingLeft reports whether the extended index finger reaches clearly
// past the wrist toward the left frame edge.
func IsPointingLeft(hand *detector.HandLandmarks) bool {
	if hand == nil {
		return false
	}
	tip := hand.Points[detector.IndexTip]
	pip := hand.Points[detector.IndexPIP]
	wrist := hand.Points[detector.Wrist]
	return tip.Y < pip.Y && wrist.X-tip.X > 0.08
}

// IsPointingRight reports whether the extended index finger reaches clearly
// past the wrist toward the right frame edge.
func IsPointingRight(hand *detector.HandLandmarks) bool {
	if hand == nil {
		return false
	}
	tip := hand.Points[detector.IndexTip]
	pip := hand.Points[detector.IndexPIP]
	wrist := hand.Points[detector.Wrist]
	return tip.Y < pip.Y && tip.X-wrist.X > 0.08
}

// IsPointingDown reports whether the index finger hangs below its PIP joint
// with the tip clearly below the wrist.
func IsPointingDown(hand *detector.HandLandmarks) bool {
	if hand == nil {
		return false
	}
	tip := hand.Points[detector.IndexTip]
	pip := hand.Points[detector.IndexPIP]
	wrist := hand.Points[detector.Wrist]
	return tip.Y > pip.Y && tip.Y-wrist.Y > 0.05
}

// Refine upgrades a coarse classifier label using the pointing predicates.
// A downward-pointing hand curls every fingertip below its PIP and therefore
// classifies as a fist, so pointing down takes priority over fist. Horizontal
// and upward pointing only apply to otherwise unknown poses, matching the
// rule that they require an extended index and no fist.
func Refine(hand *detector.HandLandmarks, label Label) Label {
	switch label {
	case LabelFist, LabelUnknown:
	default:
		return label
	}
	if IsPointingDown(hand) {
		return LabelPointingDown
	}
	if label == LabelUnknown && IsIndexPointing(hand) {
		switch {
		case IsPointingLeft(hand):
			return LabelPointingLeft
		case IsPointingRight(hand):
			return LabelPointingRight
		default:
			return LabelIndexPointing
		}
	}
	return label
}
