package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Frame-differencing parameters. The blur kernel soaks up sensor noise
// so a static scene does not flicker above the pixel delta.
const (
	blurKernel = 21
	pixelDelta = 25
)

// MotionDetector reports how much of the scene changed between
// consecutive frames. The threshold is the percentage of pixels that
// must change for a frame to count as motion.
type MotionDetector struct {
	threshold float64

	mu       sync.Mutex
	baseline gocv.Mat
	primed   bool
}

// NewMotionDetector creates a detector with the given threshold in
// percent of changed pixels.
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{
		threshold: threshold,
		baseline:  gocv.NewMat(),
	}
}

// Detect compares frame against the previous one and reports whether
// the changed-pixel percentage clears the threshold, along with the
// percentage itself. The first frame only primes the baseline and never
// counts as motion.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: blurKernel, Y: blurKernel}, 0, 0, gocv.BorderDefault)

	if !m.primed {
		blurred.CopyTo(&m.baseline)
		m.primed = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.baseline, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, pixelDelta, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(thresh)) / float64(thresh.Rows()*thresh.Cols()) * 100.0

	blurred.CopyTo(&m.baseline)
	return changed > m.threshold, changed
}

// Reset drops the baseline so the next frame primes a fresh one.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearBaseline()
}

// Close releases the detector's OpenCV buffers. The detector stays
// usable; a later Detect primes a new baseline.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearBaseline()
}

func (m *MotionDetector) clearBaseline() {
	if !m.baseline.Empty() {
		m.baseline.Close()
		m.baseline = gocv.NewMat()
	}
	m.primed = false
}
