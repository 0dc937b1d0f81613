// Package gesture converts raw hand landmarks into the discrete gesture
// signals that drive the scene.
package gesture

import (
	"github.com/ayusman/tinsel/internal/detector"
)

// PinchThreshold is the maximum normalized distance between index tip and
// thumb tip for a pinch to register.
const PinchThreshold = 0.05

// Signal holds the gesture flags derived from one landmark frame plus the
// normalized hand position. Multiple flags can be true at once; resolving
// conflicts is the state machine's job, not the classifier's.
type Signal struct {
	IsFist     bool    `json:"is_fist"`
	IsOpen     bool    `json:"is_open"`
	IsPinching bool    `json:"is_pinching"`
	IsPointing bool    `json:"is_pointing"`
	HandX      float64 `json:"hand_x"`
	HandY      float64 `json:"hand_y"`
}

// Neutral returns the signal for "no hand detected": all flags false and
// the hand position centered.
func Neutral() Signal {
	return Signal{HandX: 0.5, HandY: 0.5}
}

// fingerJoints pairs each non-thumb fingertip with its PIP joint, ordered
// index, middle, ring, pinky.
var fingerJoints = [4][2]int{
	{detector.IndexTip, detector.IndexPIP},
	{detector.MiddleTip, detector.MiddlePIP},
	{detector.RingTip, detector.RingPIP},
	{detector.PinkyTip, detector.PinkyPIP},
}

// Classify derives a Signal from one hand. A nil hand means no hand was
// detected this frame and yields the neutral signal. The function is pure:
// the same landmarks always produce the same signal.
func Classify(hand *detector.HandLandmarks) Signal {
	if hand == nil {
		return Neutral()
	}

	// A fingertip is folded when it sits below its PIP joint in image
	// space (Y grows downward).
	var folded [4]bool
	for i, pair := range fingerJoints {
		folded[i] = hand.Points[pair[0]].Y > hand.Points[pair[1]].Y
	}

	sig := Signal{
		IsFist:     folded[0] && folded[1] && folded[2] && folded[3],
		IsOpen:     !folded[0] && !folded[1] && !folded[2] && !folded[3],
		IsPointing: !folded[0] && folded[1] && folded[2] && folded[3],
	}

	pinchDist := detector.Distance2D(hand.Points[detector.IndexTip], hand.Points[detector.ThumbTip])
	sig.IsPinching = pinchDist < PinchThreshold

	// Hand position is the midpoint of wrist and middle finger base,
	// mirrored horizontally to match the mirrored camera preview.
	mid := detector.Midpoint(hand.Points[detector.Wrist], hand.Points[detector.MiddleMCP])
	sig.HandX = 1 - mid.X
	sig.HandY = mid.Y

	return sig
}
