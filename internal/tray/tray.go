// Package tray provides a macOS system tray interface for the Tinsel scene host.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the macOS system tray application.
type Tray struct {
	onToggle func(enabled bool)
	onViewer func()
	onQuit   func()
	enabled  bool
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuMode   *systray.MenuItem
}

// New creates a new Tray instance. Gesture control starts disabled
// until the capture pipeline is confirmed running.
func New() *Tray {
	return &Tray{}
}

// OnToggle sets the callback invoked when gesture control is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnViewer sets the callback invoked when the viewer menu item is clicked.
func (t *Tray) OnViewer(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onViewer = fn
}

// OnQuit sets the callback invoked when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Tinsel")
	systray.SetTooltip("Tinsel Ornament Scene")

	t.mu.Lock()
	title := "○ Gestures off"
	if t.enabled {
		title = "● Gestures on"
	}
	t.menuToggle = systray.AddMenuItem(title, "Toggle gesture control")
	t.mu.Unlock()
	systray.AddSeparator()

	t.menuMode = systray.AddMenuItem("Scene: assembled", "Current scene mode")
	t.menuMode.Disable()
	systray.AddSeparator()

	menuViewer := systray.AddMenuItem("Open Viewer...", "Open the scene viewer in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Tinsel")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuViewer.ClickedCh:
				t.handleViewer()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if enabled {
		t.menuToggle.SetTitle("● Gestures on")
	} else {
		t.menuToggle.SetTitle("○ Gestures off")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleViewer handles the viewer menu item click.
func (t *Tray) handleViewer() {
	t.mu.RLock()
	callback := t.onViewer
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetMode updates the scene mode display in the menu.
func (t *Tray) SetMode(mode string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuMode != nil {
		t.menuMode.SetTitle("Scene: " + mode)
	}
}

// SetEnabled sets the toggle state without invoking the callback.
// Used to restore the persisted state before the tray is shown.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled

	if t.menuToggle != nil {
		if enabled {
			t.menuToggle.SetTitle("● Gestures on")
		} else {
			t.menuToggle.SetTitle("○ Gestures off")
		}
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
