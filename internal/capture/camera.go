// Package capture provides webcam capture and frame-diff motion gating
// on top of GoCV.
package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// Capture defaults; the daemon overrides them from config.
const (
	DefaultFPS    = 15
	DefaultWidth  = 640
	DefaultHeight = 480
)

// ErrCameraNotOpen is returned when reading from a camera that is not open.
var ErrCameraNotOpen = errors.New("camera is not open")

// Camera is the frame source the pipeline reads from.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	SetMirror(mirror bool)
	IsOpen() bool
}

// webcam captures frames from a video device through GoCV.
type webcam struct {
	deviceID int
	width    int
	height   int

	mu      sync.Mutex
	capture *gocv.VideoCapture
	fps     int
	mirror  bool
}

// NewCamera creates a camera for the given device and frame size.
// Non-positive dimensions fall back to 640x480.
func NewCamera(deviceID, width, height int) Camera {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &webcam{deviceID: deviceID, width: width, height: height, fps: DefaultFPS}
}

// Open claims the device and applies the resolution and rate. Opening
// an already open camera is a no-op.
func (c *webcam) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture != nil {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return err
	}
	capture.Set(gocv.VideoCaptureFrameWidth, float64(c.width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(c.height))
	capture.Set(gocv.VideoCaptureFPS, float64(c.fps))

	c.capture = capture
	return nil
}

// Close releases the device.
func (c *webcam) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture == nil {
		return nil
	}
	err := c.capture.Close()
	c.capture = nil
	return err
}

// ReadFrame reads one frame, flipped horizontally when mirroring is on
// so on-screen motion matches the hand. The caller owns the returned
// Mat.
func (c *webcam) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, errors.New("read frame from camera")
	}
	if mat.Empty() {
		mat.Close()
		return nil, errors.New("captured frame is empty")
	}

	if c.mirror {
		gocv.Flip(mat, &mat, 1)
	}
	return &mat, nil
}

// SetFPS applies a new capture rate; non-positive rates are ignored.
func (c *webcam) SetFPS(fps int) {
	if fps <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fps = fps
	if c.capture != nil {
		c.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

// FPS returns the current capture rate.
func (c *webcam) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}

// SetMirror flips subsequent frames horizontally.
func (c *webcam) SetMirror(mirror bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mirror = mirror
}

// IsOpen reports whether the device is claimed.
func (c *webcam) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capture != nil
}
