package app

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// ItemState is the per-item render payload pushed to the renderer each
// tick: the live transform plus the static display attributes.
type ItemState struct {
	ID       string     `json:"id"`
	Kind     string     `json:"kind"`
	Position [3]float32 `json:"position"`
	Rotation [3]float32 `json:"rotation"`
	Scale    float32    `json:"scale"`
	Emissive float32    `json:"emissive"`
	Color    string     `json:"color"`
	PhotoRef string     `json:"photo_ref,omitempty"`
}

// CameraState is the camera's live pose.
type CameraState struct {
	Position [3]float32 `json:"position"`
	Target   [3]float32 `json:"target"`
}

// FrameState is one render tick's complete scene snapshot.
type FrameState struct {
	Mode          string      `json:"mode"`
	FocusID       string      `json:"focus_id,omitempty"`
	PendingDelete bool        `json:"pending_delete,omitempty"`
	Items         []ItemState `json:"items"`
	Camera        CameraState `json:"camera"`
	Timestamp     int64       `json:"timestamp"`
}

// Tick advances the animation engine by dt seconds and returns the
// resulting scene snapshot. It must be driven by exactly one render
// loop; the engine's live transforms are owned by that loop.
func (a *App) Tick(dt float64) FrameState {
	mode, focusID := a.machine.Snapshot()
	sig := a.LastSignal()

	a.mu.Lock()
	defer a.mu.Unlock()

	a.engine.Step(dt, mode, focusID, sig.HandX, sig.HandY)

	items := a.layout.Items()
	frame := FrameState{
		Mode:          string(mode),
		FocusID:       focusID,
		PendingDelete: a.machine.PendingDelete(),
		Items:         make([]ItemState, 0, len(items)),
		Camera:        cameraState(a.engine.Camera().Position, a.engine.Camera().Target),
		Timestamp:     time.Now().UnixMilli(),
	}

	for _, it := range items {
		tr, ok := a.engine.Transform(it.ID)
		if !ok {
			continue
		}
		frame.Items = append(frame.Items, ItemState{
			ID:       it.ID,
			Kind:     string(it.Kind),
			Position: vec3Array(tr.Position),
			Rotation: vec3Array(tr.Rotation),
			Scale:    tr.Scale,
			Emissive: tr.Emissive,
			Color:    it.Color,
			PhotoRef: it.PhotoRef,
		})
	}

	return frame
}

func cameraState(position, target mgl32.Vec3) CameraState {
	return CameraState{
		Position: vec3Array(position),
		Target:   vec3Array(target),
	}
}

func vec3Array(v mgl32.Vec3) [3]float32 {
	return [3]float32{v.X(), v.Y(), v.Z()}
}
