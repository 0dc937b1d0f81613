package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/ayusman/tinsel/internal/app"
	"github.com/ayusman/tinsel/internal/config"
	"github.com/ayusman/tinsel/internal/layout"
	"github.com/ayusman/tinsel/internal/server"
	"github.com/ayusman/tinsel/internal/state"
	"github.com/ayusman/tinsel/internal/store"
	"github.com/ayusman/tinsel/internal/tray"
)

func main() {
	fmt.Println("Tinsel - Gesture-Controlled Ornament Scene")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(cfg.DatabasePath())
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	layoutCfg := layout.DefaultConfig()
	layoutCfg.BaubleCount = cfg.BaubleCount
	layoutCfg.FlakeCount = cfg.FlakeCount
	layoutCfg.RibbonCount = cfg.RibbonCount
	layoutCfg.LightCount = cfg.LightCount

	a := app.New(app.Config{
		Store:        st,
		CameraID:     cfg.CameraID,
		MotionThresh: cfg.MotionThreshold,
		Layout:       layoutCfg,
	})

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		PhotosDir: cfg.PhotosDir(),
		Store:     st,
		App:       a,
	})
	defer srv.Close()

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	viewerURL := "http://" + cfg.Addr

	t := tray.New()
	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
		if err := st.Settings().Set("gestures_enabled", fmt.Sprintf("%t", enabled)); err != nil {
			log.Printf("Failed to persist gesture toggle: %v", err)
		}
		if enabled {
			if err := a.Start(); err != nil {
				log.Printf("Failed to start capture pipeline: %v", err)
				a.SetEnabled(false)
			}
		} else {
			a.Stop()
		}
	})
	t.OnViewer(func() {
		if err := openBrowser(viewerURL); err != nil {
			log.Printf("Failed to open viewer: %v", err)
		}
	})
	t.OnQuit(func() {
		a.Stop()
	})

	a.Machine().OnTransition(func(mode state.Mode) {
		t.SetMode(string(mode))
	})

	// Restore the persisted gesture toggle
	if v, err := st.Settings().Get("gestures_enabled"); err == nil && v == "true" {
		t.SetEnabled(true)
		a.SetEnabled(true)
		if err := a.Start(); err != nil {
			log.Printf("Failed to start capture pipeline: %v", err)
			t.SetEnabled(false)
			a.SetEnabled(false)
		}
	}

	// Blocks until quit is selected from the tray menu
	t.Run()
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "linux":
		return exec.Command("xdg-open", url).Start()
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.tinsel/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
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

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".tinsel", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
