package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/tinsel/internal/app"
)

// SceneHandler exposes direct scene control for the viewer UI: item
// selection by tap or click, and the current interaction state.
type SceneHandler struct {
	app *app.App
}

// NewSceneHandler creates a new SceneHandler.
func NewSceneHandler(a *app.App) *SceneHandler {
	return &SceneHandler{app: a}
}

type selectRequest struct {
	ID string `json:"id"`
}

type stateResponse struct {
	Mode          string `json:"mode"`
	FocusID       string `json:"focus_id,omitempty"`
	PendingDelete bool   `json:"pending_delete"`
	Enabled       bool   `json:"enabled"`
}

// HandleSelect handles POST /api/select. A request with an item id
// focuses that photo; an empty id closes the focused photo.
func (h *SceneHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ID == "" {
		h.app.ClosePhoto()
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	if err := h.app.Select(req.ID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleState handles GET /api/state and returns the interaction
// mode, focus target, and gesture control toggle.
func (h *SceneHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	mode, focus := h.app.Machine().Snapshot()

	writeJSON(w, http.StatusOK, stateResponse{
		Mode:          string(mode),
		FocusID:       focus,
		PendingDelete: h.app.Machine().PendingDelete(),
		Enabled:       h.app.IsEnabled(),
	})
}
