package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// idleShutdown is how long the Python process may sit unused before it
// is reaped. The MediaPipe model holds a lot of memory; a later Detect
// restarts it transparently.
const idleShutdown = 30 * time.Second

// MediaPipeDetector implements Detector by delegating to a Python
// MediaPipe subprocess. Frames go out as length-prefixed JPEG bytes;
// landmarks come back as one JSON line per frame.
type MediaPipeDetector struct {
	config Config
	script string

	mu        sync.Mutex
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	idleTimer *time.Timer
}

// NewMediaPipeDetector creates a detector bound to the landmark service
// script. The Python process itself starts lazily on the first Detect.
func NewMediaPipeDetector(config Config) (*MediaPipeDetector, error) {
	script := findMediaPipeScript()
	if script == "" {
		return nil, fmt.Errorf("mediapipe_service.py not found")
	}
	return &MediaPipeDetector{config: config, script: script}, nil
}

// Detect sends one frame to the landmark service and returns the hands
// it reports. A dead or wedged service is torn down so the next call
// starts a fresh one.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return nil, err
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	hands, err := d.roundTrip(buf.GetBytes())
	if err != nil {
		// A failed round trip means the pipe or the process is gone.
		d.shutdown()
		return nil, err
	}

	d.resetIdleTimer()
	return hands, nil
}

// roundTrip writes one length-prefixed JPEG and reads back one line of
// landmarks. Callers hold d.mu.
func (d *MediaPipeDetector) roundTrip(jpeg []byte) ([]HandLandmarks, error) {
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(jpeg)))
	if _, err := d.stdin.Write(prefix[:]); err != nil {
		return nil, fmt.Errorf("write frame length: %w", err)
	}
	if _, err := d.stdin.Write(jpeg); err != nil {
		return nil, fmt.Errorf("write frame: %w", err)
	}

	line, err := d.stdout.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read landmarks: %w", err)
	}

	var reply struct {
		Hands []wireHand `json:"hands"`
	}
	if err := json.Unmarshal([]byte(line), &reply); err != nil {
		return nil, fmt.Errorf("parse landmarks: %w", err)
	}

	hands := make([]HandLandmarks, len(reply.Hands))
	for i, h := range reply.Hands {
		hands[i] = h.decode()
	}
	return hands, nil
}

// Close shuts down the Python process.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *MediaPipeDetector) ensureStarted() error {
	if d.cmd != nil {
		return nil
	}

	cmd := exec.Command(findPython(), d.script,
		fmt.Sprintf("--max-hands=%d", d.config.MaxHands),
		fmt.Sprintf("--min-detection-confidence=%g", d.config.MinConfidence),
		fmt.Sprintf("--min-tracking-confidence=%g", d.config.MinTrackingConf),
	)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}
	// The service logs model loading and per-frame warnings on stderr.
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start mediapipe service: %w", err)
	}

	d.cmd = cmd
	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	return nil
}

func (d *MediaPipeDetector) shutdown() error {
	if d.cmd == nil {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}
	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil
	return err
}

func (d *MediaPipeDetector) resetIdleTimer() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(idleShutdown, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.shutdown()
	})
}

// findMediaPipeScript locates the Python landmark service. The
// MUDRA_MEDIAPIPE_SCRIPT environment variable overrides the search.
func findMediaPipeScript() string {
	if p := os.Getenv("MUDRA_MEDIAPIPE_SCRIPT"); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
		return ""
	}
	return firstExisting(searchPaths("scripts/mediapipe_service.py", 1))
}

// findPython prefers the project's virtualenv interpreter and falls
// back to whatever python3 is on PATH. MUDRA_PYTHON overrides.
func findPython() string {
	if p := os.Getenv("MUDRA_PYTHON"); p != "" {
		return p
	}
	if p := firstExisting(searchPaths("venv/bin/python", 2)); p != "" {
		return p
	}
	return "python3"
}

// searchPaths expands rel into the usual lookup roots: the working
// directory and up to depth parents, the executable's directory, and
// the user's data directory.
func searchPaths(rel string, depth int) []string {
	paths := []string{rel}
	up := rel
	for i := 0; i < depth; i++ {
		up = filepath.Join("..", up)
		paths = append(paths, up)
	}
	if execPath, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(execPath), rel))
	}
	return append(paths, filepath.Join(os.Getenv("HOME"), ".mudra", rel))
}

// firstExisting returns the first path that exists, absolute when the
// resolution succeeds.
func firstExisting(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			return abs
		}
		return p
	}
	return ""
}

// wireHand mirrors one hand in the service's JSON reply.
type wireHand struct {
	Points     []wirePoint `json:"points"`
	Handedness string      `json:"handedness"`
	Score      float64     `json:"score"`
}

type wirePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// decode copies the wire form into a HandLandmarks, dropping any points
// beyond the model's landmark count.
func (h wireHand) decode() HandLandmarks {
	lm := HandLandmarks{Handedness: h.Handedness, Score: h.Score}
	for i := 0; i < NumLandmarks && i < len(h.Points); i++ {
		lm.Points[i] = Point3D{X: h.Points[i].X, Y: h.Points[i].Y, Z: h.Points[i].Z}
	}
	return lm
}
