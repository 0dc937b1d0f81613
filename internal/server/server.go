// Package server provides the HTTP server for the Tinsel scene host.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ayusman/tinsel/internal/app"
	"github.com/ayusman/tinsel/internal/server/api"
	"github.com/ayusman/tinsel/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	PhotosDir string
	Store     *store.Store
	App       *app.App
}

// Server represents the HTTP server for the Tinsel application.
type Server struct {
	config Config
	mux    *http.ServeMux
	scene  *SceneHandler
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.Handle("/metrics", promhttp.Handler())

	if s.config.Store != nil && s.config.App != nil {
		photosHandler := api.NewPhotosHandler(s.config.Store, s.config.App, s.config.PhotosDir)
		s.mux.Handle("/api/photos", photosHandler)
		s.mux.Handle("/api/photos/", photosHandler)

		sceneAPI := api.NewSceneHandler(s.config.App)
		s.mux.HandleFunc("/api/select", sceneAPI.HandleSelect)
		s.mux.HandleFunc("/api/state", sceneAPI.HandleState)
	}

	// Scene stream: the websocket handler owns the render tick
	if s.config.App != nil {
		observeTransitions(s.config.App.Machine())
		s.scene = NewSceneHandler(s.config.App)
		s.mux.Handle("/ws/scene", s.scene)
	}

	// Serve stored photo files for the renderer
	if s.config.PhotosDir != "" {
		fs := http.FileServer(http.Dir(s.config.PhotosDir))
		s.mux.Handle("/photos/", http.StripPrefix("/photos/", fs))
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// Close stops the scene render loop.
func (s *Server) Close() {
	if s.scene != nil {
		s.scene.Close()
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
