// Package api provides HTTP API handlers for the Tinsel scene host.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/tinsel/internal/app"
	"github.com/ayusman/tinsel/internal/store"
)

// maxUploadSize bounds photo uploads to 10 MB.
const maxUploadSize = 10 << 20

// PhotosHandler handles HTTP requests for the photo collection.
type PhotosHandler struct {
	store     *store.Store
	app       *app.App
	photosDir string
}

// NewPhotosHandler creates a new PhotosHandler.
func NewPhotosHandler(s *store.Store, a *app.App, photosDir string) *PhotosHandler {
	return &PhotosHandler{store: s, app: a, photosDir: photosDir}
}

// ServeHTTP implements the http.Handler interface and routes requests
// to the appropriate methods.
// Expected paths: /api/photos or /api/photos/{id}
func (h *PhotosHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/photos")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Response types

type photoResponse struct {
	ID        string `json:"id"`
	Position  int    `json:"position"`
	Path      string `json:"path"`
	CreatedAt string `json:"created_at"`
}

type listPhotosResponse struct {
	Photos []photoResponse `json:"photos"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Photo to a photoResponse.
func toResponse(p *store.Photo) photoResponse {
	return photoResponse{
		ID:        p.ID,
		Position:  p.Position,
		Path:      p.Path,
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/photos and returns the collection in order.
func (h *PhotosHandler) list(w http.ResponseWriter, r *http.Request) {
	photos, err := h.store.Photos().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list photos")
		return
	}

	response := listPhotosResponse{
		Photos: make([]photoResponse, 0, len(photos)),
	}
	for _, p := range photos {
		response.Photos = append(response.Photos, toResponse(p))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/photos/{id} and returns a single photo.
func (h *PhotosHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	photo, err := h.store.Photos().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Photo not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get photo")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(photo))
}

// create handles POST /api/photos. The photo image is uploaded as
// multipart form data under the "photo" field; the file is stored in
// the photos directory and appended to the collection.
func (h *PhotosHandler) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Photo file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		writeError(w, http.StatusBadRequest, "Photo must be a JPEG or PNG file")
		return
	}

	id := uuid.New().String()
	filename := id + ext

	if err := h.savePhotoFile(filename, file); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store photo file")
		return
	}

	photo := &store.Photo{
		ID:   id,
		Path: filename,
	}
	if err := h.store.Photos().Create(photo); err != nil {
		os.Remove(filepath.Join(h.photosDir, filename))
		writeError(w, http.StatusInternalServerError, "Failed to create photo")
		return
	}

	h.app.ReloadPhotos()

	writeJSON(w, http.StatusCreated, toResponse(photo))
}

// savePhotoFile writes an uploaded photo into the photos directory.
func (h *PhotosHandler) savePhotoFile(filename string, src io.Reader) error {
	if err := os.MkdirAll(h.photosDir, 0o755); err != nil {
		return err
	}

	dst, err := os.Create(filepath.Join(h.photosDir, filename))
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// delete handles DELETE /api/photos/{id}: removes the photo from the
// collection, deletes its file, and rebuilds the scene layout.
func (h *PhotosHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	photo, err := h.store.Photos().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Photo not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get photo")
		return
	}

	if err := h.store.Photos().Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete photo")
		return
	}

	if h.photosDir != "" {
		os.Remove(filepath.Join(h.photosDir, photo.Path))
	}

	h.app.ReloadPhotos()

	w.WriteHeader(http.StatusNoContent)
}
