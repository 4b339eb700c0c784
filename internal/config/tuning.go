package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ayusman/mudra/internal/cursor"
	"github.com/ayusman/mudra/internal/gesture"
)

// Tuning holds every algorithm knob of the recognition and control
// pipeline. Profiles persist this struct as JSON; a profile only needs
// the fields it changes.
type Tuning struct {
	Smoother cursor.Params       `json:"smoother"`
	Swipe    gesture.SwipeParams `json:"swipe"`

	// GrabRadius is the normalized reach for grabbing a window.
	GrabRadius float64 `json:"grab_radius"`

	// PositionBufferSize smooths the control point over this many frames.
	PositionBufferSize int `json:"position_buffer_size"`
	// SwipeBufferSize is the wrist-x history capacity.
	SwipeBufferSize int `json:"swipe_buffer_size"`
	// SwipeMinSamples gates swipe detection until the history has grown.
	SwipeMinSamples int `json:"swipe_min_samples"`

	SwipeCooldownMs      int `json:"swipe_cooldown_ms"`
	ClickCooldownMs      int `json:"click_cooldown_ms"`
	MenuCooldownMs       int `json:"menu_cooldown_ms"`
	ScrollCooldownMs     int `json:"scroll_cooldown_ms"`
	ScreenshotCooldownMs int `json:"screenshot_cooldown_ms"`

	// IdleFPS and ActiveFPS drive the motion-gated capture rate.
	IdleFPS   int `json:"idle_fps"`
	ActiveFPS int `json:"active_fps"`
	// MotionThreshold is the percentage of changed pixels that counts as
	// motion.
	MotionThreshold float64 `json:"motion_threshold"`
	// MotionIdleTimeoutMs drops back to IdleFPS after this long without
	// motion.
	MotionIdleTimeoutMs int `json:"motion_idle_timeout_ms"`

	MinDetectionConfidence float64 `json:"min_detection_confidence"`
	MinTrackingConfidence  float64 `json:"min_tracking_confidence"`
}

// DefaultTuning returns the stock tuning profile.
func DefaultTuning() Tuning {
	return Tuning{
		Smoother:               cursor.DefaultParams(),
		Swipe:                  gesture.DefaultSwipeParams(),
		GrabRadius:             0.25,
		PositionBufferSize:     5,
		SwipeBufferSize:        20,
		SwipeMinSamples:        8,
		SwipeCooldownMs:        500,
		ClickCooldownMs:        300,
		MenuCooldownMs:         500,
		ScrollCooldownMs:       300,
		ScreenshotCooldownMs:   1000,
		IdleFPS:                5,
		ActiveFPS:              15,
		MotionThreshold:        1.0,
		MotionIdleTimeoutMs:    2000,
		MinDetectionConfidence: 0.5,
		MinTrackingConfidence:  0.5,
	}
}

// LoadTuning returns the default tuning overridden by the JSON profile
// at path. An empty path returns the defaults unchanged.
func LoadTuning(path string) (Tuning, error) {
	tuning := DefaultTuning()
	if path == "" {
		return tuning, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return tuning, fmt.Errorf("read tuning profile: %w", err)
	}
	if err := ApplyTuningJSON(&tuning, data); err != nil {
		return tuning, fmt.Errorf("tuning profile %s: %w", path, err)
	}
	return tuning, nil
}

// ApplyTuningJSON overlays a JSON tuning document onto tuning. Only the
// fields the document sets change; everything else keeps its value.
func ApplyTuningJSON(tuning *Tuning, data []byte) error {
	var file tuningFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse tuning: %w", err)
	}
	file.apply(tuning)
	return nil
}

// tuningFile mirrors Tuning with pointer fields so absent keys are
// distinguishable from zero values.
type tuningFile struct {
	Smoother *struct {
		Alpha         *float64 `json:"alpha"`
		Beta          *float64 `json:"beta"`
		MaxVelocity   *float64 `json:"max_velocity"`
		Sensitivity   *float64 `json:"sensitivity"`
		AbsoluteAlpha *float64 `json:"absolute_alpha"`
	} `json:"smoother"`
	Swipe *struct {
		Window          *int     `json:"window"`
		MinDisplacement *float64 `json:"min_displacement"`
		MinAvgVelocity  *float64 `json:"min_avg_velocity"`
		MinPeakVelocity *float64 `json:"min_peak_velocity"`
		Deadband        *float64 `json:"deadband"`
	} `json:"swipe"`

	GrabRadius *float64 `json:"grab_radius"`

	PositionBufferSize *int `json:"position_buffer_size"`
	SwipeBufferSize    *int `json:"swipe_buffer_size"`
	SwipeMinSamples    *int `json:"swipe_min_samples"`

	SwipeCooldownMs      *int `json:"swipe_cooldown_ms"`
	ClickCooldownMs      *int `json:"click_cooldown_ms"`
	MenuCooldownMs       *int `json:"menu_cooldown_ms"`
	ScrollCooldownMs     *int `json:"scroll_cooldown_ms"`
	ScreenshotCooldownMs *int `json:"screenshot_cooldown_ms"`

	IdleFPS             *int     `json:"idle_fps"`
	ActiveFPS           *int     `json:"active_fps"`
	MotionThreshold     *float64 `json:"motion_threshold"`
	MotionIdleTimeoutMs *int     `json:"motion_idle_timeout_ms"`

	MinDetectionConfidence *float64 `json:"min_detection_confidence"`
	MinTrackingConfidence  *float64 `json:"min_tracking_confidence"`
}

func (f *tuningFile) apply(t *Tuning) {
	if f.Smoother != nil {
		setFloat(&t.Smoother.Alpha, f.Smoother.Alpha)
		setFloat(&t.Smoother.Beta, f.Smoother.Beta)
		setFloat(&t.Smoother.MaxVelocity, f.Smoother.MaxVelocity)
		setFloat(&t.Smoother.Sensitivity, f.Smoother.Sensitivity)
		setFloat(&t.Smoother.AbsoluteAlpha, f.Smoother.AbsoluteAlpha)
	}
	if f.Swipe != nil {
		setInt(&t.Swipe.Window, f.Swipe.Window)
		setFloat(&t.Swipe.MinDisplacement, f.Swipe.MinDisplacement)
		setFloat(&t.Swipe.MinAvgVelocity, f.Swipe.MinAvgVelocity)
		setFloat(&t.Swipe.MinPeakVelocity, f.Swipe.MinPeakVelocity)
		setFloat(&t.Swipe.Deadband, f.Swipe.Deadband)
	}

	setFloat(&t.GrabRadius, f.GrabRadius)

	setInt(&t.PositionBufferSize, f.PositionBufferSize)
	setInt(&t.SwipeBufferSize, f.SwipeBufferSize)
	setInt(&t.SwipeMinSamples, f.SwipeMinSamples)

	setInt(&t.SwipeCooldownMs, f.SwipeCooldownMs)
	setInt(&t.ClickCooldownMs, f.ClickCooldownMs)
	setInt(&t.MenuCooldownMs, f.MenuCooldownMs)
	setInt(&t.ScrollCooldownMs, f.ScrollCooldownMs)
	setInt(&t.ScreenshotCooldownMs, f.ScreenshotCooldownMs)

	setInt(&t.IdleFPS, f.IdleFPS)
	setInt(&t.ActiveFPS, f.ActiveFPS)
	setFloat(&t.MotionThreshold, f.MotionThreshold)
	setInt(&t.MotionIdleTimeoutMs, f.MotionIdleTimeoutMs)

	setFloat(&t.MinDetectionConfidence, f.MinDetectionConfidence)
	setFloat(&t.MinTrackingConfidence, f.MinTrackingConfidence)
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
