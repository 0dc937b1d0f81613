package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/tinsel/internal/gesture"
	"github.com/ayusman/tinsel/internal/layout"
	"github.com/ayusman/tinsel/internal/state"
	"github.com/ayusman/tinsel/internal/store"
)

func testConfig(t *testing.T, photoPaths []string) Config {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	for _, path := range photoPaths {
		if err := s.Photos().Create(&store.Photo{ID: uuid.New().String(), Path: path}); err != nil {
			t.Fatalf("Create(%s) error = %v", path, err)
		}
	}

	cfg := layout.DefaultConfig()
	cfg.BaubleCount = 12
	cfg.FlakeCount = 6
	cfg.RibbonCount = 8
	cfg.LightCount = 6

	return Config{Store: s, Layout: cfg}
}

func TestApp_GestureWorkflow(t *testing.T) {
	a := New(testConfig(t, []string{"a.jpg", "b.jpg", "c.jpg"}))

	if mode := a.Machine().Mode(); mode != state.ModeAssembled {
		t.Fatalf("initial mode = %s, want %s", mode, state.ModeAssembled)
	}

	// Pointing with three photos focuses one of them
	a.feedSignal(gesture.Signal{IsPointing: true, HandX: 0.5, HandY: 0.5})
	mode, focus := a.Machine().Snapshot()
	if mode != state.ModeFocused {
		t.Fatalf("mode after point = %s, want %s", mode, state.ModeFocused)
	}
	if focus != "photo-0" && focus != "photo-1" && focus != "photo-2" {
		t.Errorf("focus = %q, want one of the three photos", focus)
	}

	// Fist resets
	a.feedSignal(gesture.Signal{IsFist: true, HandX: 0.5, HandY: 0.5})
	mode, focus = a.Machine().Snapshot()
	if mode != state.ModeAssembled || focus != "" {
		t.Errorf("after fist: (%s, %q), want (assembled, empty)", mode, focus)
	}

	// Open hand disperses
	a.feedSignal(gesture.Signal{IsOpen: true, HandX: 0.5, HandY: 0.5})
	if mode := a.Machine().Mode(); mode != state.ModeDispersed {
		t.Errorf("after open: mode = %s, want %s", mode, state.ModeDispersed)
	}
}

func TestApp_TickProducesFrameState(t *testing.T) {
	a := New(testConfig(t, []string{"a.jpg"}))

	frame := a.Tick(1.0 / 60)

	if frame.Mode != string(state.ModeAssembled) {
		t.Errorf("frame mode = %s, want assembled", frame.Mode)
	}

	wantItems := 12 + 6 + 2*8 + 6 + 1
	if len(frame.Items) != wantItems {
		t.Errorf("frame has %d items, want %d", len(frame.Items), wantItems)
	}

	// Every photo item carries its image reference for the renderer
	for _, it := range frame.Items {
		if it.Kind == string(layout.KindPhoto) && it.PhotoRef == "" {
			t.Errorf("photo item %s is missing its photo reference", it.ID)
		}
	}
}

func TestApp_SelectValidatesKind(t *testing.T) {
	a := New(testConfig(t, []string{"a.jpg"}))

	if err := a.Select("photo-0"); err != nil {
		t.Errorf("Select(photo-0) error = %v", err)
	}
	if mode, focus := a.Machine().Snapshot(); mode != state.ModeFocused || focus != "photo-0" {
		t.Errorf("after select: (%s, %q)", mode, focus)
	}

	if err := a.Select("bauble-0"); err == nil {
		t.Error("Select(bauble-0) should fail: only photos are selectable")
	}
	if err := a.Select("missing"); err == nil {
		t.Error("Select(missing) should fail")
	}
}

func TestApp_DeleteFocusedPhoto(t *testing.T) {
	a := New(testConfig(t, []string{"a.jpg", "b.jpg", "c.jpg"}))
	now := time.Now()

	if err := a.Select("photo-1"); err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	path, err := a.DeleteFocusedPhoto(now)
	if err != nil {
		t.Fatalf("DeleteFocusedPhoto() error = %v", err)
	}
	if path != "b.jpg" {
		t.Errorf("deleted path = %s, want b.jpg", path)
	}

	// Focus is cleared and the collection shrank
	mode, focus := a.Machine().Snapshot()
	if mode == state.ModeFocused || focus != "" {
		t.Errorf("after delete: (%s, %q), want focus cleared", mode, focus)
	}

	frame := a.Tick(1.0 / 60)
	photoCount := 0
	for _, it := range frame.Items {
		if it.Kind == string(layout.KindPhoto) {
			photoCount++
		}
	}
	if photoCount != 2 {
		t.Errorf("frame has %d photos after delete, want 2", photoCount)
	}

	// The delete leaves the scene dispersed for further browsing
	if mode != state.ModeDispersed {
		t.Errorf("mode after delete = %s, want %s", mode, state.ModeDispersed)
	}

	// Gesture cooldown is armed: an immediate fist is ignored
	a.machine.Apply(gesture.Signal{IsFist: true}, a.layout.PhotoIDs(), now.Add(100*time.Millisecond))
	if mode := a.Machine().Mode(); mode == state.ModeAssembled {
		t.Error("gesture during delete cooldown should be suppressed")
	}

	// After the cooldown passes, gestures work again
	a.machine.Apply(gesture.Signal{IsFist: true}, a.layout.PhotoIDs(), now.Add(DeleteCooldown+time.Second))
	if mode := a.Machine().Mode(); mode != state.ModeAssembled {
		t.Error("gesture after cooldown should apply")
	}
}

func TestApp_DeleteWithoutFocusFails(t *testing.T) {
	a := New(testConfig(t, []string{"a.jpg"}))

	if _, err := a.DeleteFocusedPhoto(time.Now()); err == nil {
		t.Error("DeleteFocusedPhoto without focus should fail")
	}
}

func TestApp_StaleFocusClearedOnReload(t *testing.T) {
	a := New(testConfig(t, []string{"a.jpg", "b.jpg"}))

	if err := a.Select("photo-1"); err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	// Remove the focused photo behind the app's back, then reload
	photos, err := a.config.Store.Photos().List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if err := a.config.Store.Photos().Delete(photos[1].ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	a.ReloadPhotos()

	mode, focus := a.Machine().Snapshot()
	if mode == state.ModeFocused || focus != "" {
		t.Errorf("stale focus should be cleared on reload, got (%s, %q)", mode, focus)
	}

	// The next tick renders without the removed photo and without panic
	frame := a.Tick(1.0 / 60)
	for _, it := range frame.Items {
		if it.ID == "photo-1" {
			t.Error("removed photo still present in frame state")
		}
	}
}

func TestApp_EnabledToggle(t *testing.T) {
	a := New(testConfig(t, nil))

	if a.IsEnabled() {
		t.Error("app should start disabled")
	}
	a.SetEnabled(true)
	if !a.IsEnabled() {
		t.Error("SetEnabled(true) should enable")
	}
}
