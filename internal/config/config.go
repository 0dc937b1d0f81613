// Package config defines the process configuration and its loading rules.
package config

import (
	"os"
	"path/filepath"
)

// Config contains process configuration for the scene host.
type Config struct {
	// Addr configures the HTTP listen address, e.g. "127.0.0.1:7455".
	Addr string `koanf:"addr"`

	// CameraID selects the capture device index passed to OpenCV.
	CameraID int `koanf:"camera_id"`

	// MotionThreshold is the percentage of changed pixels between
	// frames above which the capture pipeline switches to the active
	// frame rate.
	MotionThreshold float64 `koanf:"motion_threshold"`

	// DataDir holds the SQLite database and photo files.
	// Defaults to ~/.tinsel.
	DataDir string `koanf:"data_dir"`

	// BaubleCount, FlakeCount, RibbonCount, and LightCount size the
	// ornament scene. RibbonCount is per spiral; there are two.
	BaubleCount int `koanf:"bauble_count"`
	FlakeCount  int `koanf:"flake_count"`
	RibbonCount int `koanf:"ribbon_count"`
	LightCount  int `koanf:"light_count"`
}

// New creates a Config populated with defaults.
func New() *Config {
	dataDir := ".tinsel"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".tinsel")
	}

	return &Config{
		Addr:            "127.0.0.1:7455",
		CameraID:        0,
		MotionThreshold: 1.0,
		DataDir:         dataDir,
		BaubleCount:     240,
		FlakeCount:      80,
		RibbonCount:     100,
		LightCount:      60,
	}
}

// DatabasePath returns the SQLite file path under the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "tinsel.db")
}

// PhotosDir returns the directory uploaded photos are written to.
func (c *Config) PhotosDir() string {
	return filepath.Join(c.DataDir, "photos")
}
