package gesture

import "github.com/ayusman/mudra/internal/detector"

// History is a fixed-capacity ring buffer of scalar samples. Once full, new
// samples evict the oldest. It is not safe for concurrent use.
type History struct {
	buf  []float64
	head int
	size int
}

// NewHistory creates a History holding at most capacity samples.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]float64, capacity)}
}

// Add appends a sample, evicting the oldest when full.
func (h *History) Add(v float64) {
	h.buf[h.head] = v
	h.head = (h.head + 1) % len(h.buf)
	if h.size < len(h.buf) {
		h.size++
	}
}

// Len returns the number of buffered samples.
func (h *History) Len() int {
	return h.size
}

// Values returns the buffered samples in arrival order, oldest first.
func (h *History) Values() []float64 {
	out := make([]float64, h.size)
	start := h.head - h.size
	if start < 0 {
		start += len(h.buf)
	}
	for i := 0; i < h.size; i++ {
		out[i] = h.buf[(start+i)%len(h.buf)]
	}
	return out
}

// Clear discards all buffered samples.
func (h *History) Clear() {
	h.head = 0
	h.size = 0
}

// PointHistory is a fixed-capacity ring buffer of hand positions used to
// smooth the control anchor by averaging recent frames.
type PointHistory struct {
	buf  []detector.Point3D
	head int
	size int
}

// NewPointHistory creates a PointHistory holding at most capacity positions.
func NewPointHistory(capacity int) *PointHistory {
	if capacity < 1 {
		capacity = 1
	}
	return &PointHistory{buf: make([]detector.Point3D, capacity)}
}

// Add appends a position, evicting the oldest when full.
func (h *PointHistory) Add(p detector.Point3D) {
	h.buf[h.head] = p
	h.head = (h.head + 1) % len(h.buf)
	if h.size < len(h.buf) {
		h.size++
	}
}

// Len returns the number of buffered positions.
func (h *PointHistory) Len() int {
	return h.size
}

// Mean returns the component-wise average of the buffered positions, or the
// zero point when empty.
func (h *PointHistory) Mean() detector.Point3D {
	if h.size == 0 {
		return detector.Point3D{}
	}
	var sum detector.Point3D
	start := h.head - h.size
	if start < 0 {
		start += len(h.buf)
	}
	for i := 0; i < h.size; i++ {
		p := h.buf[(start+i)%len(h.buf)]
		sum.X += p.X
		sum.Y += p.Y
		sum.Z += p.Z
	}
	n := float64(h.size)
	return detector.Point3D{X: sum.X / n, Y: sum.Y / n, Z: sum.Z / n}
}

// Clear discards all buffered positions.
func (h *PointHistory) Clear() {
	h.head = 0
	h.size = 0
}
