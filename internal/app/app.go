// Package app wires the capture pipeline, gesture classification, state
// machine, and animation engine into the running scene host.
package app

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ayusman/tinsel/internal/anim"
	"github.com/ayusman/tinsel/internal/capture"
	"github.com/ayusman/tinsel/internal/detector"
	"github.com/ayusman/tinsel/internal/gesture"
	"github.com/ayusman/tinsel/internal/layout"
	"github.com/ayusman/tinsel/internal/state"
	"github.com/ayusman/tinsel/internal/store"
)

// Pipeline timing constants.
const (
	// IdleTimeout is how long after the last motion the pipeline drops
	// back to the idle capture rate.
	IdleTimeout = 2 * time.Second

	// DeleteCooldown suppresses gesture transitions after a photo is
	// deleted, so a stale gesture cannot immediately re-trigger.
	DeleteCooldown = 1500 * time.Millisecond
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	CameraID     int
	MotionThresh float64
	Layout       layout.Config
}

// App is the main application that owns the scene's interaction core.
type App struct {
	config Config
	camera capture.Camera
	motion *capture.MotionDetector

	machine *state.Machine
	layout  *layout.Layout
	engine  *anim.Engine

	detector   detector.Detector
	lastSignal gesture.Signal

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
}

// New creates a new App instance with the given configuration. The scene
// layout is generated immediately from the stored photo collection.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}

	layoutCfg := config.Layout
	if layoutCfg.BaubleCount == 0 {
		layoutCfg = layout.DefaultConfig()
	}

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.CameraID),
		motion:     capture.NewMotionDetector(motionThreshold),
		machine:    state.New(),
		lastSignal: gesture.Neutral(),
	}

	a.layout = layout.Generate(layoutCfg, a.loadPhotoRefs())
	a.engine = anim.New(a.layout)

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// loadPhotoRefs reads the ordered photo paths from the store. A missing
// store means an empty collection.
func (a *App) loadPhotoRefs() []string {
	if a.config.Store == nil {
		return nil
	}

	photos, err := a.config.Store.Photos().List()
	if err != nil {
		log.Printf("Failed to load photos: %v", err)
		return nil
	}

	refs := make([]string, len(photos))
	for i, p := range photos {
		refs[i] = p.Path
	}
	return refs
}

// SetEnabled enables or disables gesture detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture detection is currently enabled.
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

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Machine returns the interaction state machine.
func (a *App) Machine() *state.Machine {
	return a.machine
}

// Select handles a direct-selection event from the renderer's pointer
// layer. Unknown or non-photo ids are ignored.
func (a *App) Select(id string) error {
	a.mu.RLock()
	it, ok := a.layout.Item(id)
	a.mu.RUnlock()

	if !ok || it.Kind != layout.KindPhoto {
		return fmt.Errorf("item %q is not selectable", id)
	}

	a.machine.Select(id)
	return nil
}

// ClosePhoto exits the focused mode back to the dispersed layout.
func (a *App) ClosePhoto() {
	a.machine.ClearFocus()
}

// ReloadPhotos regenerates the photo subset of the layout from the
// store. Ornaments are untouched; a focus id that no longer resolves is
// cleared.
func (a *App) ReloadPhotos() {
	refs := a.loadPhotoRefs()

	a.mu.Lock()
	a.layout.RegeneratePhotos(refs)
	a.engine.Reload()
	_, focusID := a.machine.Snapshot()
	_, stillThere := a.layout.Item(focusID)
	a.mu.Unlock()

	if focusID != "" && !stillThere {
		a.machine.ClearFocus()
	}
}

// DeleteFocusedPhoto removes the currently focused photo from the store,
// regenerates the layout, and arms the gesture cooldown. Returns the
// deleted photo's path.
func (a *App) DeleteFocusedPhoto(now time.Time) (string, error) {
	if a.config.Store == nil {
		return "", fmt.Errorf("no store configured")
	}

	mode, focusID := a.machine.Snapshot()
	if mode != state.ModeFocused || focusID == "" {
		return "", fmt.Errorf("no photo is focused")
	}

	var position int
	if _, err := fmt.Sscanf(focusID, "photo-%d", &position); err != nil {
		return "", fmt.Errorf("focus %q is not a photo", focusID)
	}

	photo, err := a.config.Store.Photos().GetByPosition(position)
	if err != nil {
		return "", fmt.Errorf("resolve focused photo: %w", err)
	}

	if err := a.config.Store.Photos().Delete(photo.ID); err != nil {
		return "", fmt.Errorf("delete photo: %w", err)
	}

	a.ReloadPhotos()
	a.machine.ClearFocus()
	a.machine.SetCooldown(now.Add(DeleteCooldown))

	return photo.Path, nil
}
