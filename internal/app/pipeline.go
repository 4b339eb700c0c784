package app

import (
	"log"
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/overlay"
	"gocv.io/x/gocv"
)

// frameInterval converts a frame rate to a ticker period, flooring the
// rate at one frame per second.
func frameInterval(fps int) time.Duration {
	if fps < 1 {
		fps = 1
	}
	return time.Second / time.Duration(fps)
}

// runPipeline is the main control loop. Each tick reads a frame, feeds
// the motion gate, runs hand detection while the gate is active, and
// hands the result to the session. The annotated frame and a status
// snapshot are published for the stream and the API.
//
// Pipeline logic:
// 1. Start in idle mode at the idle frame rate
// 2. On motion, switch to the active rate and run detection
// 3. A tracked hand keeps the gate active even when it holds still
// 4. After the idle timeout with no motion, drop back to the idle rate
// 5. Frames keep streaming while control is disabled; detection stops
func (a *App) runPipeline(stop, done chan struct{}) {
	defer close(done)

	activeMode := false
	wasEnabled := false

	ticker := time.NewTicker(frameInterval(a.config.Tuning.IdleFPS))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			enabled := a.IsEnabled()
			if wasEnabled && !enabled {
				// Dropping control must release any held drag or grab.
				a.session.Reset()
			}
			wasEnabled = enabled

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			now := time.Now()
			gateActive := a.gate.Observe(frame, now)

			var f Frame
			if enabled {
				var hands []detector.HandLandmarks
				if gateActive {
					hands, err = a.Detector().Detect(frame)
					if err != nil {
						log.Printf("Error detecting hands: %v", err)
						hands = nil
					}
				}
				f = a.session.Process(hands, now)
				if f.HandPresent {
					a.gate.Touch(now)
				}
			}

			if gateActive && !activeMode {
				activeMode = true
				a.camera.SetFPS(a.config.Tuning.ActiveFPS)
				ticker.Reset(frameInterval(a.config.Tuning.ActiveFPS))
				log.Println("Switched to active mode")
			} else if !gateActive && activeMode {
				activeMode = false
				a.camera.SetFPS(a.config.Tuning.IdleFPS)
				ticker.Reset(frameInterval(a.config.Tuning.IdleFPS))
				log.Println("Switched to idle mode")
			}

			a.render(frame, f, enabled)
			a.publishFrame(frame)
			a.publishStatus(f, enabled, activeMode)
			frame.Close()
		}
	}
}

// render draws the overlay onto the frame. The overlay is sized lazily
// from the first frame. A disabled pipeline streams the camera picture
// untouched.
func (a *App) render(frame *gocv.Mat, f Frame, enabled bool) {
	if a.overlay == nil {
		a.overlay = overlay.New(frame.Cols(), frame.Rows())
	}
	if !enabled {
		return
	}
	if !f.HandPresent {
		a.overlay.DrawNoHand(frame)
		return
	}

	if a.session.ObjectMode() {
		ctrl := a.session.Controller()
		sw, sh := a.windows.ScreenSize()
		a.overlay.DrawWindows(frame, ctrl.Windows(), ctrl.GrabbedID(), ctrl.HoveredID(), sw, sh)
		if menu := ctrl.ActiveMenu(); menu != nil && menu.IsOpen() {
			mx, my := menu.Position()
			cx := int(mx * float64(frame.Cols()))
			cy := int(my * float64(frame.Rows()))
			a.overlay.DrawRadialMenu(frame, cx, cy, menu.Labels(), menu.SelectedIndex())
		}
		a.overlay.DrawIntent(frame, f.Intent.Type.Describe(), 20, 30)
		if title := ctrl.GrabbedTitle(); title != "" {
			a.overlay.DrawGrabbedTitle(frame, title)
		}
	}

	a.overlay.DrawLandmarks(frame, f.Hand)
	a.overlay.DrawStatus(frame, a.session.ObjectMode(), f.Levels, string(f.Swipe))
}

// publishFrame stores the frame as JPEG for the MJPEG stream and the
// snapshot endpoint.
func (a *App) publishFrame(frame *gocv.Mat) {
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		log.Printf("Error encoding frame: %v", err)
		return
	}
	jpeg := make([]byte, buf.Len())
	copy(jpeg, buf.GetBytes())
	buf.Close()

	a.pubMu.Lock()
	a.lastJPEG = jpeg
	a.pubMu.Unlock()
}

// publishStatus stores the per-frame fields reported by Status.
func (a *App) publishStatus(f Frame, enabled, active bool) {
	st := Status{
		Active:      active,
		HandPresent: f.HandPresent,
	}
	if enabled && f.HandPresent {
		st.Gesture = string(f.Label)
		st.Intent = string(f.Intent.Type)
		st.Swipe = string(f.Swipe)
		ctrl := a.session.Controller()
		st.Grabbed = ctrl.GrabbedTitle()
		menu := ctrl.ActiveMenu()
		st.MenuOpen = menu != nil && menu.IsOpen()
	}

	a.pubMu.Lock()
	a.status = st
	a.pubMu.Unlock()
}
