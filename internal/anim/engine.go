// Package anim blends every scene item's live transform toward the pose
// the current mode demands, once per render tick.
package anim

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/ayusman/tinsel/internal/layout"
	"github.com/ayusman/tinsel/internal/state"
)

// Blend and layout constants.
const (
	// photoPositionRate is the approach rate for photo panels.
	photoPositionRate = 3.6

	// focusedScale enlarges the focused photo; recededScale pushes the
	// remaining photos outward while one is presented.
	focusedScale  = 1.8
	recededScale  = 1.6
	recededRaise  = 0.6
	dispersedSpin = 0.35

	// jitterAmp bounds the sinusoidal drift applied to dispersed ornaments.
	jitterAmp = 0.25
)

// presentationPose is the fixed pose in front of the camera where the
// focused photo is shown.
var presentationPose = mgl32.Vec3{0, 4.6, 6.5}

// Transform is the live, continuously-mutated state of one item. It is
// owned exclusively by the engine and updated once per render tick.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    float32
	Emissive float32
}

// Engine advances all live transforms and the camera. It must only be
// driven from the render tick's goroutine; the layout it reads is fixed
// between Reload calls.
type Engine struct {
	layout  *layout.Layout
	items   []layout.Item
	live    map[string]*Transform
	camera  CameraRig
	elapsed float64
}

// New creates an engine with every item's live transform initialized at
// its assembled pose.
func New(l *layout.Layout) *Engine {
	e := &Engine{
		layout: l,
		live:   make(map[string]*Transform),
		camera: newCameraRig(),
	}
	e.Reload()
	return e
}

// Reload synchronizes the live transform set with the layout after the
// photo subset was regenerated. New items start at their assembled pose;
// transforms for removed items are dropped.
func (e *Engine) Reload() {
	e.items = e.layout.Items()

	seen := make(map[string]bool, len(e.items))
	for _, it := range e.items {
		seen[it.ID] = true
		if _, ok := e.live[it.ID]; ok {
			continue
		}
		e.live[it.ID] = &Transform{
			Position: it.Assembled,
			Scale:    it.Scale,
			Emissive: policyFor(it.Material).baseEmissive,
		}
	}
	for id := range e.live {
		if !seen[id] {
			delete(e.live, id)
		}
	}
}

// Step advances every live transform and the camera by dt seconds toward
// the targets implied by the current mode, focus, and hand position.
// A focus id that no longer resolves to a photo is treated as no focus.
func (e *Engine) Step(dt float64, mode state.Mode, focusID string, handX, handY float64) {
	e.elapsed += dt

	focusID = e.resolveFocus(focusID)

	for _, it := range e.items {
		tr, ok := e.live[it.ID]
		if !ok {
			continue
		}
		e.stepItem(dt, it, tr, mode, focusID)
	}

	e.camera.step(dt, e.elapsed, mode, handX, handY)
}

// resolveFocus maps a stale or non-photo focus id to "no focus".
func (e *Engine) resolveFocus(focusID string) string {
	if focusID == "" {
		return ""
	}
	it, ok := e.layout.Item(focusID)
	if !ok || it.Kind != layout.KindPhoto {
		return ""
	}
	return focusID
}

func (e *Engine) stepItem(dt float64, it layout.Item, tr *Transform, mode state.Mode, focusID string) {
	p := policyFor(it.Material)

	targetPos, targetScale := e.targetFor(it, mode, focusID)

	rate := p.positionRate
	if it.Kind == layout.KindPhoto {
		rate = photoPositionRate
	}

	// Exponential approach: resilient to rapid mode flips, never a snap.
	f := damp(rate, dt)
	tr.Position = tr.Position.Add(targetPos.Sub(tr.Position).Mul(f))
	tr.Scale += (targetScale - tr.Scale) * f

	e.stepRotation(dt, it, tr, mode)

	if it.Kind != layout.KindPhoto {
		target := e.emissiveTarget(it, p)
		tr.Emissive += (target - tr.Emissive) * damp(p.emissiveRate, dt)
	}
}

// targetFor computes the instantaneous target pose and scale for an item
// under the given mode and (already resolved) focus.
func (e *Engine) targetFor(it layout.Item, mode state.Mode, focusID string) (mgl32.Vec3, float32) {
	switch mode {
	case state.ModeAssembled:
		return it.Assembled, it.Scale

	case state.ModeDispersed:
		if it.Kind == layout.KindPhoto {
			return it.Dispersed, it.Scale
		}
		return it.Dispersed.Add(e.jitter(it)), it.Scale

	case state.ModeFocused:
		if it.Kind != layout.KindPhoto {
			// Ornaments hold their dispersed spots, without drift, so
			// the presented photo reads clearly.
			return it.Dispersed, it.Scale
		}
		if it.ID == focusID {
			return presentationPose, it.Scale * focusedScale
		}
		// Remaining photos: enlarged, receded ring
		receded := mgl32.Vec3{
			it.Dispersed.X() * recededScale,
			it.Dispersed.Y() + recededRaise,
			it.Dispersed.Z() * recededScale,
		}
		return receded, it.Scale
	}

	return it.Assembled, it.Scale
}

// jitter is the continuous small positional drift ornaments get while
// dispersed, phase-seeded per item so the cloud doesn't move in lockstep.
func (e *Engine) jitter(it layout.Item) mgl32.Vec3 {
	seed := float64(it.RotationSeed)
	return mgl32.Vec3{
		float32(math.Sin(e.elapsed*0.9+seed)) * jitterAmp,
		float32(math.Sin(e.elapsed*1.3+seed*1.7)) * jitterAmp * 0.8,
		float32(math.Cos(e.elapsed*1.1+seed)) * jitterAmp,
	}
}

func (e *Engine) stepRotation(dt float64, it layout.Item, tr *Transform, mode state.Mode) {
	if it.Kind == layout.KindPhoto {
		// Photo panels always face the camera; the renderer billboards
		// them, so the engine leaves rotation at zero.
		return
	}

	spin := dispersedSpin * (0.5 + float64(it.RotationSeed)/(4*math.Pi))
	if mode != state.ModeDispersed {
		spin *= 0.25
	}
	tr.Rotation[1] += float32(spin * dt)
}

// emissiveTarget applies the material policy plus the periodic twinkle
// flash, gated by a per-item phase-seeded sine threshold.
func (e *Engine) emissiveTarget(it layout.Item, p policy) float32 {
	target := p.baseEmissive
	phase := e.elapsed*p.twinkleRate + float64(it.RotationSeed)
	if math.Sin(phase) > p.twinkleGate {
		target += p.twinkleBoost
	}
	return target
}

// Transform returns a copy of an item's live transform.
func (e *Engine) Transform(id string) (Transform, bool) {
	tr, ok := e.live[id]
	if !ok {
		return Transform{}, false
	}
	return *tr, true
}

// Camera returns the camera's live pose.
func (e *Engine) Camera() CameraRig {
	return e.camera
}

// damp converts an approach rate and a frame delta into an interpolation
// factor in [0,1) that is stable across variable frame rates.
func damp(rate, dt float64) float32 {
	return float32(1 - math.Exp(-rate*dt))
}
