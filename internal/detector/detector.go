package detector

import "gocv.io/x/gocv"

// Detector turns a video frame into the hands it can see.
type Detector interface {
	// Detect returns the landmarks for every detected hand, an empty
	// slice when the frame holds none.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases whatever the detector holds open.
	Close() error
}

// Config carries the detection thresholds handed to the landmark model.
type Config struct {
	// MaxHands caps how many hands a frame may report. The control
	// pipeline consumes only the first one.
	MaxHands int

	// MinConfidence gates initial detection, 0 to 1.
	MinConfidence float64

	// MinTrackingConf gates frame-to-frame tracking, 0 to 1.
	MinTrackingConf float64
}

// DefaultConfig returns the thresholds the daemon starts from.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}
