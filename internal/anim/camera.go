package anim

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/ayusman/tinsel/internal/state"
)

// Camera motion constants.
const (
	cameraRate = 2.0

	swayAmplitude = 2.5
	swaySpeed     = 0.12

	orbitRadius = 16.0
	orbitSpan   = 1.6 * math.Pi // radians of azimuth across the full hand sweep
	orbitMinY   = 2.0
	orbitSpanY  = 8.0
)

var (
	assembledEye  = mgl32.Vec3{0, 6.5, 14}
	sceneCenter   = mgl32.Vec3{0, 4.5, 0}
	focusedEye    = mgl32.Vec3{0, 4.6, 9.5}
	focusedCenter = presentationPose
)

// CameraRig holds the camera's live pose. Position and look-at target are
// blended independently so mode changes swing the view smoothly.
type CameraRig struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
}

func newCameraRig() CameraRig {
	return CameraRig{
		Position: assembledEye,
		Target:   sceneCenter,
	}
}

// step blends the rig toward the mode's target pose. In the dispersed
// mode the orbit is parameterized directly by the live hand position:
// azimuth from the horizontal axis, height from the vertical one.
func (c *CameraRig) step(dt, elapsed float64, mode state.Mode, handX, handY float64) {
	var targetPos, targetLook mgl32.Vec3

	switch mode {
	case state.ModeDispersed:
		azimuth := (handX - 0.5) * orbitSpan
		height := orbitMinY + handY*orbitSpanY
		targetPos = mgl32.Vec3{
			float32(math.Sin(azimuth) * orbitRadius),
			float32(height),
			float32(math.Cos(azimuth) * orbitRadius),
		}
		targetLook = sceneCenter

	case state.ModeFocused:
		targetPos = focusedEye
		targetLook = focusedCenter

	default:
		// Assembled: slow lateral sway around the front of the tree
		targetPos = mgl32.Vec3{
			float32(math.Sin(elapsed*swaySpeed) * swayAmplitude),
			assembledEye.Y(),
			assembledEye.Z(),
		}
		targetLook = sceneCenter
	}

	f := damp(cameraRate, dt)
	c.Position = c.Position.Add(targetPos.Sub(c.Position).Mul(f))
	c.Target = c.Target.Add(targetLook.Sub(c.Target).Mul(f))
}
