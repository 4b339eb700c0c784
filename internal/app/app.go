// Package app provides the main application logic for the Mudra gesture
// control system: the capture pipeline, the per-session control state
// machine, and action plugin dispatch.
package app

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/actuate"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/cursor"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/overlay"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/scene"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/windowctl"
)

// Status is a point-in-time snapshot of the pipeline, served over the
// HTTP API and shown in the tray menu.
type Status struct {
	Running     bool   `json:"running"`
	Enabled     bool   `json:"enabled"`
	Mode        string `json:"mode"`
	SessionID   string `json:"session_id,omitempty"`
	Active      bool   `json:"active"`
	HandPresent bool   `json:"hand_present"`
	Gesture     string `json:"gesture,omitempty"`
	Intent      string `json:"intent,omitempty"`
	Swipe       string `json:"swipe,omitempty"`
	Grabbed     string `json:"grabbed,omitempty"`
	MenuOpen    bool   `json:"menu_open"`
}

// Config holds configuration options for the application.
type Config struct {
	Store         *store.Store
	Tuning        config.Tuning
	CameraID      int
	Mirror        bool
	ControlMode   string
	CursorMode    string
	PluginDir     string
	ScreenshotDir string
	SessionID     string
	StartEnabled  bool
}

// App is the main application that orchestrates frame capture, hand
// detection, intent processing, and action execution.
type App struct {
	config Config

	camera   capture.Camera
	gate     *capture.Gate
	detector detector.Detector
	windows  windowctl.Manager
	actuator actuate.Actuator
	session  *Session
	overlay  *overlay.Overlay

	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
	done    chan struct{}

	pubMu     sync.RWMutex
	lastJPEG  []byte
	status    Status
	intentFns []func(IntentEvent)
}

// New creates a new App instance with the given configuration.
func New(cfg Config) *App {
	if cfg.Tuning == (config.Tuning{}) {
		cfg.Tuning = config.DefaultTuning()
	}
	if cfg.ControlMode == "" {
		cfg.ControlMode = config.ControlModeObject
	}

	camera := capture.NewCamera(cfg.CameraID, 0, 0)
	camera.SetMirror(cfg.Mirror)

	a := &App{
		config: cfg,
		camera: camera,
		gate: capture.NewGate(cfg.Tuning.MotionThreshold,
			time.Duration(cfg.Tuning.MotionIdleTimeoutMs)*time.Millisecond),
		pluginMgr:  plugin.NewManager(cfg.PluginDir),
		pluginExec: plugin.NewExecutor(plugin.DefaultTimeout),
		enabled:    cfg.StartEnabled,
	}

	// Try MediaPipe first, fall back to mock detector
	detCfg := detector.Config{
		MaxHands:        1,
		MinConfidence:   cfg.Tuning.MinDetectionConfidence,
		MinTrackingConf: cfg.Tuning.MinTrackingConfidence,
	}
	if mp, err := detector.NewMediaPipeDetector(detCfg); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables gesture control. Disabling mid-session
// releases held state on the next pipeline tick.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture control is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// Start opens the camera and begins the control pipeline. Starting an
// already-running app is a no-op.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	// The OS-facing pieces are built lazily so tests can inject mocks
	// before the first Start.
	if a.actuator == nil {
		a.actuator = actuate.NewActuator()
	}
	if a.windows == nil {
		a.windows = windowctl.NewManager(a.actuator.ScreenSize())
	}
	if a.session == nil {
		mode := cursor.ModeRelative
		if a.config.CursorMode == config.CursorModeAbsolute {
			mode = cursor.ModeAbsolute
		}
		a.session = NewSession(SessionConfig{
			ID:            a.config.SessionID,
			ObjectMode:    a.config.ControlMode != config.ControlModeCursor,
			CursorMode:    mode,
			Tuning:        a.config.Tuning,
			ScreenshotDir: a.config.ScreenshotDir,
		}, scene.NewController(a.windows), a.actuator)
		a.session.OnIntent(a.handleIntent)
	}

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	a.camera.SetFPS(a.config.Tuning.IdleFPS)

	stop := make(chan struct{})
	done := make(chan struct{})
	a.stopCh, a.done = stop, done
	go a.runPipeline(stop, done)

	log.Println("Control pipeline started")
	return nil
}

// Stop halts the control pipeline and releases resources. The pipeline
// goroutine must exit before the camera and detector close; it may be
// mid-frame.
func (a *App) Stop() {
	a.mu.Lock()
	stop, done := a.stopCh, a.done
	a.stopCh, a.done = nil, nil
	a.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.gate.Close()
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Control pipeline stopped")
}

// AddIntentListener registers fn for every published intent transition.
// Listeners run on the pipeline goroutine and must return quickly.
func (a *App) AddIntentListener(fn func(IntentEvent)) {
	a.pubMu.Lock()
	defer a.pubMu.Unlock()
	a.intentFns = append(a.intentFns, fn)
}

// handleIntent fans an intent transition out to listeners, then records
// and acts on it off the pipeline goroutine.
func (a *App) handleIntent(ev IntentEvent) {
	a.pubMu.RLock()
	fns := make([]func(IntentEvent), len(a.intentFns))
	copy(fns, a.intentFns)
	a.pubMu.RUnlock()
	for _, fn := range fns {
		fn(ev)
	}

	go a.recordIntent(ev)
}

// recordIntent persists the event and runs any bound plugin action.
// Database and plugin latency must never stall the frame loop, so this
// runs on its own goroutine.
func (a *App) recordIntent(ev IntentEvent) {
	if a.config.Store != nil {
		event := &store.Event{
			SessionID:  ev.SessionID,
			Intent:     string(ev.Intent.Type),
			Gesture:    string(ev.Gesture),
			Confidence: ev.Intent.Confidence,
			X:          ev.Intent.Position.X,
			Y:          ev.Intent.Position.Y,
			Z:          ev.Intent.Position.Z,
			Direction:  string(ev.Intent.Direction),
			CreatedAt:  ev.Time,
		}
		if err := a.config.Store.Events().Create(event); err != nil {
			log.Printf("Failed to record event: %v", err)
		}
	}

	a.runBoundAction(ev)
}

// runBoundAction executes the enabled plugin action bound to the
// event's intent type, if any.
func (a *App) runBoundAction(ev IntentEvent) {
	if a.config.Store == nil {
		return
	}

	action, err := a.config.Store.Actions().GetByIntentType(string(ev.Intent.Type))
	if err != nil {
		log.Printf("Failed to look up action for %s: %v", ev.Intent.Type, err)
		return
	}
	if action == nil || !action.Enabled {
		return
	}

	plug, err := a.pluginMgr.Get(action.PluginName)
	if err != nil {
		log.Printf("Plugin %s not available: %v", action.PluginName, err)
		return
	}

	params, _ := json.Marshal(ev.Intent)
	resp, err := a.pluginExec.Execute(plug, &plugin.Request{
		Action:  action.ActionName,
		Intent:  string(ev.Intent.Type),
		Gesture: string(ev.Gesture),
		Config:  action.Config,
		Params:  params,
	})
	if err != nil {
		log.Printf("Plugin %s failed: %v", action.PluginName, err)
		return
	}
	if !resp.Success {
		log.Printf("Plugin %s returned error: %s", action.PluginName, resp.Error)
	}
}

// LatestFrame returns the most recent annotated frame as JPEG bytes, or
// nil before the first frame. The slice is replaced wholesale on each
// frame, so callers may retain it.
func (a *App) LatestFrame() []byte {
	a.pubMu.RLock()
	defer a.pubMu.RUnlock()
	return a.lastJPEG
}

// Status reports the current pipeline state.
func (a *App) Status() Status {
	a.pubMu.RLock()
	st := a.status
	a.pubMu.RUnlock()

	a.mu.RLock()
	defer a.mu.RUnlock()
	st.Running = a.stopCh != nil
	st.Enabled = a.enabled
	st.Mode = a.config.ControlMode
	if a.session != nil {
		st.SessionID = a.session.id
	}
	return st
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Gate returns the motion gate driving the adaptive frame rate.
func (a *App) Gate() *capture.Gate {
	return a.gate
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
