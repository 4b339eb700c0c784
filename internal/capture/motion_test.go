package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestNewMotionDetector(t *testing.T) {
	md := NewMotionDetector(2.5)
	defer md.Close()

	if md.threshold != 2.5 {
		t.Errorf("threshold = %f, want 2.5", md.threshold)
	}
	if md.primed {
		t.Error("a fresh detector should not have a baseline")
	}
}

func TestMotionDetector_IdenticalFrames(t *testing.T) {
	if testing.Short() {
		t.Skip("requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	frame1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame1.Close()
	frame2 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	detected, changed := md.Detect(&frame1)
	if detected || changed != 0 {
		t.Errorf("the priming frame must not read as motion, got %v %f", detected, changed)
	}

	if detected, changed = md.Detect(&frame2); detected {
		t.Errorf("identical frames must not read as motion, changed = %f%%", changed)
	}
}

func TestMotionDetector_FullFieldChange(t *testing.T) {
	if testing.Short() {
		t.Skip("requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	black := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer black.Close()
	white := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer white.Close()
	white.SetTo(gocv.NewScalar(255, 255, 255, 0))

	md.Detect(&black)
	detected, changed := md.Detect(&white)
	if !detected {
		t.Errorf("black to white should read as motion, changed = %f%%", changed)
	}
	if changed < 50.0 {
		t.Errorf("expected most pixels changed, got %f%%", changed)
	}
}

func TestMotionDetector_ThresholdGatesDetection(t *testing.T) {
	if testing.Short() {
		t.Skip("requires GoCV Mat creation")
	}

	// A threshold above 100% can never be cleared, even by a full-field
	// change, so only the percentage reports the difference.
	md := NewMotionDetector(150.0)
	defer md.Close()

	black := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer black.Close()
	white := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer white.Close()
	white.SetTo(gocv.NewScalar(255, 255, 255, 0))

	md.Detect(&black)
	detected, changed := md.Detect(&white)
	if detected {
		t.Errorf("an unreachable threshold must not trigger, changed = %f%%", changed)
	}
	if changed < 50.0 {
		t.Errorf("the percentage should still report the change, got %f%%", changed)
	}
}

func TestMotionDetector_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	md.Detect(&frame)
	if !md.primed {
		t.Fatal("expected a baseline after the first frame")
	}

	md.Reset()
	if md.primed || !md.baseline.Empty() {
		t.Error("expected Reset to drop the baseline")
	}

	// The next frame primes again rather than diffing a stale baseline.
	if detected, _ := md.Detect(&frame); detected {
		t.Error("the first frame after Reset must not read as motion")
	}
}

func TestMotionDetector_CloseIsIdempotent(t *testing.T) {
	md := NewMotionDetector(1.0)
	md.Close()
	md.Close()
}

func TestMotionDetector_DetectAfterClose(t *testing.T) {
	if testing.Short() {
		t.Skip("requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	md.Detect(&frame)
	md.Close()

	if detected, _ := md.Detect(&frame); detected {
		t.Error("the first frame after Close should prime, not detect")
	}
}
