package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

// eventRetention bounds how far back recorded intent events are kept.
// Older rows are pruned at startup.
const eventRetention = 30 * 24 * time.Hour

// enabledKey is the settings key that persists the control toggle
// across restarts.
const enabledKey = "control_enabled"

func main() {
	fmt.Println("Mudra - Hand Gesture Control")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	if n, err := st.Events().DeleteBefore(time.Now().Add(-eventRetention)); err != nil {
		log.Printf("Failed to prune old events: %v", err)
	} else if n > 0 {
		log.Printf("Pruned %d events older than %s", n, eventRetention)
	}

	tuning := resolveTuning(cfg, st)
	enabled := restoreEnabled(st, cfg.StartEnabled)

	application := app.New(app.Config{
		Store:         st,
		Tuning:        tuning,
		CameraID:      cfg.CameraID,
		Mirror:        cfg.Mirror,
		ControlMode:   cfg.ControlMode,
		CursorMode:    cfg.CursorMode,
		PluginDir:     cfg.PluginDir,
		ScreenshotDir: cfg.ScreenshotDir,
		StartEnabled:  enabled,
	})

	if err := application.DiscoverPlugins(); err != nil {
		log.Printf("Plugin discovery failed: %v", err)
	}

	if err := application.Start(); err != nil {
		log.Fatalf("Failed to start control pipeline: %v", err)
	}
	defer application.Stop()

	// Find web directory
	webDir := findWebDir(cfg.DataDir)
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       application,
	})

	fmt.Printf("Starting server on %s\n", cfg.ListenAddr)
	go func() {
		if err := srv.ListenAndServe(cfg.ListenAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// The tray owns the main goroutine; everything else hangs off its
	// callbacks.
	tr := tray.New(enabled, cfg.ControlMode)
	tr.OnToggle(func(on bool) {
		application.SetEnabled(on)
		if err := st.Settings().Set(enabledKey, strconv.FormatBool(on)); err != nil {
			log.Printf("Failed to persist control state: %v", err)
		}
	})
	tr.OnSettings(func() {
		openBrowser(settingsURL(cfg.ListenAddr))
	})
	tr.OnQuit(func() {
		application.Stop()
	})
	application.AddIntentListener(func(ev app.IntentEvent) {
		tr.SetLastIntent(string(ev.Intent.Type))
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		tr.Quit()
	}()

	tr.Run()
	fmt.Println("Shutting down")
}

// resolveTuning layers the tuning sources: built-in defaults, then the
// optional tuning file, then the active profile from the store.
func resolveTuning(cfg *config.Config, st *store.Store) config.Tuning {
	tuning := config.DefaultTuning()

	if cfg.TuningPath != "" {
		t, err := config.LoadTuning(cfg.TuningPath)
		if err != nil {
			log.Fatalf("Failed to load tuning file: %v", err)
		}
		tuning = t
	}

	profile, err := st.Profiles().GetActive()
	if err != nil {
		log.Printf("Failed to load active profile: %v", err)
		return tuning
	}
	if profile != nil {
		if err := config.ApplyTuningJSON(&tuning, profile.Tuning); err != nil {
			log.Printf("Ignoring tuning from profile %q: %v", profile.Name, err)
		} else {
			log.Printf("Applied tuning profile %q", profile.Name)
		}
	}

	return tuning
}

// restoreEnabled returns the persisted control toggle, falling back to
// the configured default on first run.
func restoreEnabled(st *store.Store, def bool) bool {
	value, err := st.Settings().GetDefault(enabledKey, strconv.FormatBool(def))
	if err != nil {
		log.Printf("Failed to read control state: %v", err)
		return def
	}
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return enabled
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and the data directory.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	dataWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(dataWebDir); err == nil && info.IsDir() {
		return dataWebDir
	}

	return ""
}

// settingsURL builds the browser URL for the given listen address.
func settingsURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// openBrowser opens the URL with the desktop's default handler.
func openBrowser(url string) {
	if err := exec.Command("xdg-open", url).Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
