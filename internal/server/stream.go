package server

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// FrameSource provides the most recent encoded camera frame.
type FrameSource interface {
	LatestFrame() []byte
}

// StreamHandler serves the annotated camera feed as MJPEG.
type StreamHandler struct {
	frames FrameSource
}

// NewStreamHandler creates a new StreamHandler with the given frame source.
func NewStreamHandler(frames FrameSource) *StreamHandler {
	return &StreamHandler{frames: frames}
}

// ServeHTTP streams MJPEG frames until the client goes away.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, _ := w.(http.Flusher)

	// ~15 FPS, matching the pipeline's active capture rate.
	ticker := time.NewTicker(66 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		jpeg := h.frames.LatestFrame()
		if jpeg == nil {
			// The pipeline has not published a frame yet.
			continue
		}

		if err := writePart(w, jpeg); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// writePart writes one boundary-delimited JPEG of the multipart stream.
func writePart(w io.Writer, jpeg []byte) error {
	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(jpeg)); err != nil {
		return err
	}
	if _, err := w.Write(jpeg); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}
