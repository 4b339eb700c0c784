package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

func presetHand(points [NumLandmarks]Point3D) HandLandmarks {
	return HandLandmarks{
		Points:     points,
		Handedness: "Right",
		Score:      0.95,
	}
}

// FistLandmarks returns a preset hand with all four fingers curled below
// their PIP joints and the thumb tucked against the palm.
func FistLandmarks() HandLandmarks {
	return presetHand([NumLandmarks]Point3D{
		Wrist: {X: 0.50, Y: 0.80},

		// Thumb tucked: tip stays level with the MCP and clear of the
		// index tip so the pose does not read as a pinch.
		ThumbCMC: {X: 0.55, Y: 0.76},
		ThumbMCP: {X: 0.56, Y: 0.70},
		ThumbIP:  {X: 0.57, Y: 0.66},
		ThumbTip: {X: 0.50, Y: 0.70},

		// Fingers curled, every tip below its PIP.
		IndexMCP: {X: 0.55, Y: 0.62},
		IndexPIP: {X: 0.55, Y: 0.58},
		IndexDIP: {X: 0.55, Y: 0.61},
		IndexTip: {X: 0.54, Y: 0.65},

		MiddleMCP: {X: 0.51, Y: 0.61},
		MiddlePIP: {X: 0.51, Y: 0.57},
		MiddleDIP: {X: 0.51, Y: 0.60},
		MiddleTip: {X: 0.50, Y: 0.65},

		RingMCP: {X: 0.47, Y: 0.62},
		RingPIP: {X: 0.47, Y: 0.58},
		RingDIP: {X: 0.47, Y: 0.61},
		RingTip: {X: 0.46, Y: 0.65},

		PinkyMCP: {X: 0.43, Y: 0.64},
		PinkyPIP: {X: 0.43, Y: 0.61},
		PinkyDIP: {X: 0.43, Y: 0.63},
		PinkyTip: {X: 0.42, Y: 0.66},
	})
}

// OpenPalmLandmarks returns a preset hand with all five fingers extended
// upward, palm facing the camera.
func OpenPalmLandmarks() HandLandmarks {
	return presetHand([NumLandmarks]Point3D{
		Wrist: {X: 0.50, Y: 0.85},

		// Thumb splayed out to the side, tip well above the MCP.
		ThumbCMC: {X: 0.56, Y: 0.80},
		ThumbMCP: {X: 0.60, Y: 0.74},
		ThumbIP:  {X: 0.63, Y: 0.70},
		ThumbTip: {X: 0.66, Y: 0.66},

		IndexMCP: {X: 0.55, Y: 0.62},
		IndexPIP: {X: 0.56, Y: 0.54},
		IndexDIP: {X: 0.57, Y: 0.48},
		IndexTip: {X: 0.57, Y: 0.44},

		MiddleMCP: {X: 0.50, Y: 0.60},
		MiddlePIP: {X: 0.50, Y: 0.51},
		MiddleDIP: {X: 0.50, Y: 0.44},
		MiddleTip: {X: 0.50, Y: 0.38},

		RingMCP: {X: 0.45, Y: 0.62},
		RingPIP: {X: 0.44, Y: 0.54},
		RingDIP: {X: 0.44, Y: 0.47},
		RingTip: {X: 0.43, Y: 0.42},

		PinkyMCP: {X: 0.41, Y: 0.65},
		PinkyPIP: {X: 0.39, Y: 0.59},
		PinkyDIP: {X: 0.38, Y: 0.54},
		PinkyTip: {X: 0.37, Y: 0.50},
	})
}

// ThumbsUpLandmarks returns a preset hand with the thumb extended upward
// and the four fingers curled.
func ThumbsUpLandmarks() HandLandmarks {
	return presetHand([NumLandmarks]Point3D{
		Wrist: {X: 0.50, Y: 0.85},

		// Thumb pointing straight up, tip far above the MCP.
		ThumbCMC: {X: 0.56, Y: 0.78},
		ThumbMCP: {X: 0.58, Y: 0.70},
		ThumbIP:  {X: 0.58, Y: 0.62},
		ThumbTip: {X: 0.58, Y: 0.55},

		IndexMCP: {X: 0.55, Y: 0.66},
		IndexPIP: {X: 0.55, Y: 0.63},
		IndexDIP: {X: 0.52, Y: 0.65},
		IndexTip: {X: 0.50, Y: 0.68},

		MiddleMCP: {X: 0.50, Y: 0.65},
		MiddlePIP: {X: 0.50, Y: 0.62},
		MiddleDIP: {X: 0.47, Y: 0.64},
		MiddleTip: {X: 0.45, Y: 0.67},

		RingMCP: {X: 0.46, Y: 0.66},
		RingPIP: {X: 0.46, Y: 0.63},
		RingDIP: {X: 0.43, Y: 0.65},
		RingTip: {X: 0.41, Y: 0.68},

		PinkyMCP: {X: 0.42, Y: 0.68},
		PinkyPIP: {X: 0.42, Y: 0.66},
		PinkyDIP: {X: 0.39, Y: 0.68},
		PinkyTip: {X: 0.37, Y: 0.70},
	})
}

// PinchLandmarks returns a preset hand with the thumb and index tips
// touching while the remaining fingers stay curled.
func PinchLandmarks() HandLandmarks {
	return presetHand([NumLandmarks]Point3D{
		Wrist: {X: 0.50, Y: 0.85},

		ThumbCMC: {X: 0.56, Y: 0.78},
		ThumbMCP: {X: 0.59, Y: 0.71},
		ThumbIP:  {X: 0.60, Y: 0.64},
		ThumbTip: {X: 0.575, Y: 0.575},

		// Index curled down to meet the thumb tip.
		IndexMCP: {X: 0.55, Y: 0.62},
		IndexPIP: {X: 0.56, Y: 0.56},
		IndexDIP: {X: 0.57, Y: 0.57},
		IndexTip: {X: 0.58, Y: 0.585},

		MiddleMCP: {X: 0.50, Y: 0.61},
		MiddlePIP: {X: 0.50, Y: 0.55},
		MiddleDIP: {X: 0.50, Y: 0.59},
		MiddleTip: {X: 0.49, Y: 0.63},

		RingMCP: {X: 0.45, Y: 0.62},
		RingPIP: {X: 0.45, Y: 0.57},
		RingDIP: {X: 0.45, Y: 0.61},
		RingTip: {X: 0.44, Y: 0.65},

		PinkyMCP: {X: 0.41, Y: 0.64},
		PinkyPIP: {X: 0.41, Y: 0.60},
		PinkyDIP: {X: 0.41, Y: 0.63},
		PinkyTip: {X: 0.40, Y: 0.67},
	})
}

// IndexPointingLandmarks returns a preset hand with only the index finger
// extended upward.
func IndexPointingLandmarks() HandLandmarks {
	return presetHand([NumLandmarks]Point3D{
		Wrist: {X: 0.50, Y: 0.85},

		ThumbCMC: {X: 0.55, Y: 0.78},
		ThumbMCP: {X: 0.57, Y: 0.72},
		ThumbIP:  {X: 0.565, Y: 0.68},
		ThumbTip: {X: 0.52, Y: 0.70},

		IndexMCP: {X: 0.55, Y: 0.62},
		IndexPIP: {X: 0.555, Y: 0.53},
		IndexDIP: {X: 0.56, Y: 0.47},
		IndexTip: {X: 0.56, Y: 0.42},

		MiddleMCP: {X: 0.50, Y: 0.61},
		MiddlePIP: {X: 0.50, Y: 0.56},
		MiddleDIP: {X: 0.495, Y: 0.60},
		MiddleTip: {X: 0.49, Y: 0.63},

		RingMCP: {X: 0.46, Y: 0.62},
		RingPIP: {X: 0.46, Y: 0.58},
		RingDIP: {X: 0.455, Y: 0.62},
		RingTip: {X: 0.45, Y: 0.65},

		PinkyMCP: {X: 0.42, Y: 0.64},
		PinkyPIP: {X: 0.42, Y: 0.61},
		PinkyDIP: {X: 0.415, Y: 0.64},
		PinkyTip: {X: 0.41, Y: 0.67},
	})
}

// PointingLeftLandmarks returns a preset hand with the index finger
// extended horizontally toward the left edge of the frame.
func PointingLeftLandmarks() HandLandmarks {
	return presetHand([NumLandmarks]Point3D{
		Wrist: {X: 0.62, Y: 0.72},

		ThumbCMC: {X: 0.60, Y: 0.66},
		ThumbMCP: {X: 0.57, Y: 0.62},
		ThumbIP:  {X: 0.55, Y: 0.60},
		ThumbTip: {X: 0.56, Y: 0.64},

		// Index reaches left, tip well past the wrist.
		IndexMCP: {X: 0.54, Y: 0.60},
		IndexPIP: {X: 0.49, Y: 0.585},
		IndexDIP: {X: 0.45, Y: 0.575},
		IndexTip: {X: 0.42, Y: 0.57},

		MiddleMCP: {X: 0.52, Y: 0.63},
		MiddlePIP: {X: 0.49, Y: 0.62},
		MiddleDIP: {X: 0.505, Y: 0.63},
		MiddleTip: {X: 0.52, Y: 0.645},

		RingMCP: {X: 0.51, Y: 0.66},
		RingPIP: {X: 0.48, Y: 0.655},
		RingDIP: {X: 0.495, Y: 0.665},
		RingTip: {X: 0.51, Y: 0.675},

		PinkyMCP: {X: 0.50, Y: 0.69},
		PinkyPIP: {X: 0.48, Y: 0.685},
		PinkyDIP: {X: 0.49, Y: 0.69},
		PinkyTip: {X: 0.50, Y: 0.70},
	})
}

// PointingRightLandmarks returns a preset hand with the index finger
// extended horizontally toward the right edge of the frame.
func PointingRightLandmarks() HandLandmarks {
	return presetHand([NumLandmarks]Point3D{
		Wrist: {X: 0.38, Y: 0.72},

		ThumbCMC: {X: 0.40, Y: 0.66},
		ThumbMCP: {X: 0.43, Y: 0.62},
		ThumbIP:  {X: 0.45, Y: 0.60},
		ThumbTip: {X: 0.44, Y: 0.64},

		// Index reaches right, tip well past the wrist.
		IndexMCP: {X: 0.46, Y: 0.60},
		IndexPIP: {X: 0.51, Y: 0.585},
		IndexDIP: {X: 0.55, Y: 0.575},
		IndexTip: {X: 0.58, Y: 0.57},

		MiddleMCP: {X: 0.48, Y: 0.63},
		MiddlePIP: {X: 0.51, Y: 0.62},
		MiddleDIP: {X: 0.495, Y: 0.63},
		MiddleTip: {X: 0.48, Y: 0.645},

		RingMCP: {X: 0.49, Y: 0.66},
		RingPIP: {X: 0.52, Y: 0.655},
		RingDIP: {X: 0.505, Y: 0.665},
		RingTip: {X: 0.49, Y: 0.675},

		PinkyMCP: {X: 0.50, Y: 0.69},
		PinkyPIP: {X: 0.52, Y: 0.685},
		PinkyDIP: {X: 0.51, Y: 0.69},
		PinkyTip: {X: 0.50, Y: 0.70},
	})
}

// PointingDownLandmarks returns a preset hand with the index finger
// extended downward, tip well below the wrist.
func PointingDownLandmarks() HandLandmarks {
	return presetHand([NumLandmarks]Point3D{
		Wrist: {X: 0.50, Y: 0.55},

		ThumbCMC: {X: 0.55, Y: 0.57},
		ThumbMCP: {X: 0.57, Y: 0.60},
		ThumbIP:  {X: 0.56, Y: 0.62},
		ThumbTip: {X: 0.54, Y: 0.63},

		// Index hangs below the wrist.
		IndexMCP: {X: 0.52, Y: 0.60},
		IndexPIP: {X: 0.525, Y: 0.65},
		IndexDIP: {X: 0.53, Y: 0.70},
		IndexTip: {X: 0.53, Y: 0.74},

		MiddleMCP: {X: 0.48, Y: 0.61},
		MiddlePIP: {X: 0.48, Y: 0.64},
		MiddleDIP: {X: 0.475, Y: 0.65},
		MiddleTip: {X: 0.47, Y: 0.66},

		RingMCP: {X: 0.46, Y: 0.62},
		RingPIP: {X: 0.46, Y: 0.645},
		RingDIP: {X: 0.455, Y: 0.655},
		RingTip: {X: 0.45, Y: 0.665},

		PinkyMCP: {X: 0.44, Y: 0.63},
		PinkyPIP: {X: 0.44, Y: 0.65},
		PinkyDIP: {X: 0.435, Y: 0.66},
		PinkyTip: {X: 0.43, Y: 0.67},
	})
}
