package e2e

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/tinsel/internal/app"
	"github.com/ayusman/tinsel/internal/detector"
	"github.com/ayusman/tinsel/internal/gesture"
	"github.com/ayusman/tinsel/internal/layout"
	"github.com/ayusman/tinsel/internal/server"
	"github.com/ayusman/tinsel/internal/state"
	"github.com/ayusman/tinsel/internal/store"
)

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()

	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	layoutCfg := layout.DefaultConfig()
	layoutCfg.BaubleCount = 16
	layoutCfg.FlakeCount = 8
	layoutCfg.RibbonCount = 8
	layoutCfg.LightCount = 8

	application := app.New(app.Config{
		Store:        s,
		MotionThresh: 0.05,
		Layout:       layoutCfg,
	})

	mockDetector := detector.NewMockDetector()
	application.SetDetector(mockDetector)

	srv := server.New(server.Config{
		Store:     s,
		App:       application,
		PhotosDir: filepath.Join(tmpDir, "photos"),
	})
	defer srv.Close()
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	var photoID string

	t.Run("UploadPhoto", func(t *testing.T) {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile("photo", "family.jpg")
		if err != nil {
			t.Fatalf("form file error = %v", err)
		}
		part.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0})
		writer.Close()

		resp, err := client.Post(ts.URL+"/api/photos", writer.FormDataContentType(), &body)
		if err != nil {
			t.Fatalf("upload error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}

		var created struct {
			ID string `json:"id"`
		}
		json.NewDecoder(resp.Body).Decode(&created)
		photoID = created.ID
		if photoID == "" {
			t.Fatal("missing photo id in response")
		}
	})

	selectable := []string{"photo-0"}
	now := time.Now()

	t.Run("GestureClassification", func(t *testing.T) {
		mockDetector.SetHands([]detector.HandLandmarks{detector.PointingLandmarks()})

		hands, err := mockDetector.Detect(nil)
		if err != nil || len(hands) == 0 {
			t.Fatalf("Detect() = %v, %v", hands, err)
		}

		sig := gesture.Classify(&hands[0])
		if !sig.IsPointing {
			t.Fatal("pointing fixture should classify as pointing")
		}

		application.Machine().Apply(sig, selectable, now)

		mode, focus := application.Machine().Snapshot()
		if mode != state.ModeFocused || focus != "photo-0" {
			t.Fatalf("after pointing: (%s, %q), want focused photo-0", mode, focus)
		}
	})

	t.Run("FocusedSceneFrame", func(t *testing.T) {
		// Step far enough for the presentation pose to settle
		var frame app.FrameState
		for i := 0; i < 240; i++ {
			frame = application.Tick(1.0 / 60)
		}

		if frame.Mode != string(state.ModeFocused) {
			t.Fatalf("frame mode = %s, want focused", frame.Mode)
		}

		for _, it := range frame.Items {
			if it.ID == "photo-0" {
				if it.Position[2] < 3 {
					t.Errorf("focused photo z = %v, want pulled toward the camera", it.Position[2])
				}
				if it.Scale < 1.2 {
					t.Errorf("focused photo scale = %v, want enlarged", it.Scale)
				}
				return
			}
		}
		t.Fatal("photo-0 missing from frame")
	})

	t.Run("FistResets", func(t *testing.T) {
		mockDetector.SetHands([]detector.HandLandmarks{detector.FistLandmarks()})
		hands, _ := mockDetector.Detect(nil)

		sig := gesture.Classify(&hands[0])
		if !sig.IsFist {
			t.Fatal("fist fixture should classify as fist")
		}

		application.Machine().Apply(sig, selectable, now.Add(time.Second))

		mode, focus := application.Machine().Snapshot()
		if mode != state.ModeAssembled || focus != "" {
			t.Fatalf("after fist: (%s, %q), want assembled with no focus", mode, focus)
		}
	})

	t.Run("OpenPalmDisperses", func(t *testing.T) {
		mockDetector.SetHands([]detector.HandLandmarks{detector.OpenPalmLandmarks()})
		hands, _ := mockDetector.Detect(nil)

		sig := gesture.Classify(&hands[0])
		if !sig.IsOpen {
			t.Fatal("open palm fixture should classify as open")
		}

		application.Machine().Apply(sig, selectable, now.Add(2*time.Second))

		if mode := application.Machine().Mode(); mode != state.ModeDispersed {
			t.Fatalf("after open palm: mode = %s, want dispersed", mode)
		}
	})

	t.Run("DeletePhotoViaAPI", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/photos/"+photoID, nil)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("delete error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusNoContent)
		}

		frame := application.Tick(1.0 / 60)
		for _, it := range frame.Items {
			if it.Kind == string(layout.KindPhoto) {
				t.Error("scene still carries a photo after delete")
			}
		}
	})

	t.Run("APIStillWorks", func(t *testing.T) {
		resp, _ := client.Get(ts.URL + "/api/health")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health check failed after scene operations")
		}
		resp.Body.Close()
	})
}
