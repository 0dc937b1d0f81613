package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/tinsel/internal/app"
)

// TickInterval is the period of the scene render loop.
const TickInterval = 16 * time.Millisecond // ~60 FPS

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// clientMessage is an inbound control message from a renderer client.
type clientMessage struct {
	Type string `json:"type"` // "select" or "close"
	ID   string `json:"id,omitempty"`
}

// SceneHandler drives the render loop and broadcasts frame states to
// connected renderer clients via WebSocket. The loop is the only
// caller of App.Tick, so item transforms advance on a single goroutine.
type SceneHandler struct {
	app     *app.App
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
	stopCh  chan struct{}
}

// NewSceneHandler creates a SceneHandler and starts its render loop.
func NewSceneHandler(a *app.App) *SceneHandler {
	h := &SceneHandler{
		app:     a,
		clients: make(map[*websocket.Conn]bool),
		stopCh:  make(chan struct{}),
	}
	go h.run()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *SceneHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	sceneClients.Set(float64(len(h.clients)))
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		sceneClients.Set(float64(len(h.clients)))
		h.mu.Unlock()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		h.handleMessage(data)
	}
}

// handleMessage applies a client control message to the scene.
func (h *SceneHandler) handleMessage(data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}

	switch msg.Type {
	case "select":
		if err := h.app.Select(msg.ID); err != nil {
			log.Printf("select %s: %v", msg.ID, err)
		}
	case "close":
		h.app.ClosePhoto()
	}
}

// run ticks the scene at the render rate and broadcasts the resulting
// frame state. The scene keeps animating with no clients connected so
// a renderer that attaches later sees a live scene, not a stale one.
func (h *SceneHandler) run() {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-h.stopCh:
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now

			frame := h.app.Tick(dt)
			framesRendered.Inc()

			h.mu.RLock()
			if len(h.clients) == 0 {
				h.mu.RUnlock()
				continue
			}
			h.mu.RUnlock()

			msg, err := json.Marshal(frame)
			if err != nil {
				continue
			}

			h.mu.RLock()
			for conn := range h.clients {
				conn.WriteMessage(websocket.TextMessage, msg)
			}
			h.mu.RUnlock()
		}
	}
}

// Close stops the render loop.
func (h *SceneHandler) Close() {
	close(h.stopCh)
}
