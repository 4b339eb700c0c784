// Package config loads the daemon configuration from MUDRA_* environment
// variables and the algorithm tuning from an optional JSON profile.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Control modes.
const (
	ControlModeObject = "object"
	ControlModeCursor = "cursor"
)

// Cursor smoothing modes.
const (
	CursorModeRelative = "relative"
	CursorModeAbsolute = "absolute"
)

// Config is the daemon configuration. Paths left empty resolve under
// the data directory.
type Config struct {
	CameraID      int    `env:"MUDRA_CAMERA_ID"      envDefault:"0"`
	ListenAddr    string `env:"MUDRA_LISTEN_ADDR"    envDefault:":8080"`
	DataDir       string `env:"MUDRA_DATA_DIR"`
	DBPath        string `env:"MUDRA_DB_PATH"`
	PluginDir     string `env:"MUDRA_PLUGIN_DIR"`
	ScreenshotDir string `env:"MUDRA_SCREENSHOT_DIR"`
	TuningPath    string `env:"MUDRA_TUNING_PATH"`
	Mirror        bool   `env:"MUDRA_MIRROR"         envDefault:"true"`
	ControlMode   string `env:"MUDRA_CONTROL_MODE"   envDefault:"object"`
	CursorMode    string `env:"MUDRA_CURSOR_MODE"    envDefault:"relative"`
	StartEnabled  bool   `env:"MUDRA_START_ENABLED"  envDefault:"true"`
}

// Load reads the configuration from the environment and fills in the
// path defaults under ~/.mudra.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".mudra")
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "mudra.db")
	}
	if cfg.PluginDir == "" {
		cfg.PluginDir = filepath.Join(cfg.DataDir, "plugins")
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = filepath.Join(cfg.DataDir, "screenshots")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unknown mode values.
func (c *Config) Validate() error {
	switch c.ControlMode {
	case ControlModeObject, ControlModeCursor:
	default:
		return fmt.Errorf("unknown control mode %q", c.ControlMode)
	}
	switch c.CursorMode {
	case CursorModeRelative, CursorModeAbsolute:
	default:
		return fmt.Errorf("unknown cursor mode %q", c.CursorMode)
	}
	return nil
}
