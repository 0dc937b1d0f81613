package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/tinsel/internal/app"
	"github.com/ayusman/tinsel/internal/state"
)

func dialScene(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/scene"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial scene stream: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) app.FrameState {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read frame: %v", err)
	}

	var frame app.FrameState
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("failed to decode frame: %v", err)
	}
	return frame
}

func TestSceneStream_BroadcastsFrames(t *testing.T) {
	srv := newTestServer(t, []string{"a.jpg"})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn := dialScene(t, ts)

	frame := readFrame(t, conn)
	if frame.Mode != string(state.ModeAssembled) {
		t.Errorf("frame mode = %s, want assembled", frame.Mode)
	}
	if len(frame.Items) == 0 {
		t.Error("frame should carry scene items")
	}

	// Frames keep arriving
	next := readFrame(t, conn)
	if next.Timestamp < frame.Timestamp {
		t.Errorf("timestamps went backwards: %d then %d", frame.Timestamp, next.Timestamp)
	}
}

func TestSceneStream_SelectMessage(t *testing.T) {
	srv := newTestServer(t, []string{"a.jpg"})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn := dialScene(t, ts)
	readFrame(t, conn) // connection is live

	msg := `{"type":"select","id":"photo-0"}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatalf("failed to send select: %v", err)
	}

	// The focus shows up in a subsequent frame
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		frame := readFrame(t, conn)
		if frame.Mode == string(state.ModeFocused) && frame.FocusID == "photo-0" {
			return
		}
	}
	t.Fatal("select message never reflected in the frame stream")
}

func TestSceneStream_CloseMessage(t *testing.T) {
	srv := newTestServer(t, []string{"a.jpg"})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn := dialScene(t, ts)
	readFrame(t, conn)

	conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"select","id":"photo-0"}`))
	conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"close"}`))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		frame := readFrame(t, conn)
		if frame.Mode == string(state.ModeDispersed) && frame.FocusID == "" {
			return
		}
	}
	t.Fatal("close message never reflected in the frame stream")
}
