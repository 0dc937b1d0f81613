package gesture

import (
	"math"
	"testing"

	"github.com/ayusman/tinsel/internal/detector"
)

func TestClassify_NoHand(t *testing.T) {
	sig := Classify(nil)

	if sig.IsFist || sig.IsOpen || sig.IsPinching || sig.IsPointing {
		t.Errorf("expected all flags false for no hand, got %+v", sig)
	}

	// Neutral hand position is centered
	if sig.HandX != 0.5 || sig.HandY != 0.5 {
		t.Errorf("expected centered hand position, got (%f, %f)", sig.HandX, sig.HandY)
	}
}

func TestClassify_Fist(t *testing.T) {
	hand := detector.FistLandmarks()
	sig := Classify(&hand)

	if !sig.IsFist {
		t.Error("expected IsFist for fist landmarks")
	}
	if sig.IsOpen {
		t.Error("IsOpen should be false for fist landmarks")
	}
	if sig.IsPointing {
		t.Error("IsPointing should be false for fist landmarks")
	}
	if sig.IsPinching {
		t.Error("IsPinching should be false for fist landmarks")
	}
}

func TestClassify_OpenPalm(t *testing.T) {
	hand := detector.OpenPalmLandmarks()
	sig := Classify(&hand)

	if !sig.IsOpen {
		t.Error("expected IsOpen for open palm landmarks")
	}
	if sig.IsFist || sig.IsPointing {
		t.Errorf("unexpected flags for open palm: %+v", sig)
	}
}

func TestClassify_Pointing(t *testing.T) {
	hand := detector.PointingLandmarks()
	sig := Classify(&hand)

	if !sig.IsPointing {
		t.Error("expected IsPointing for pointing landmarks")
	}
	if sig.IsFist {
		t.Error("IsFist should be false: index finger is extended")
	}
	if sig.IsOpen {
		t.Error("IsOpen should be false: three fingers are folded")
	}
}

func TestClassify_Pinch(t *testing.T) {
	hand := detector.PinchLandmarks()
	sig := Classify(&hand)

	if !sig.IsPinching {
		t.Error("expected IsPinching for pinch landmarks")
	}
	if sig.IsFist {
		t.Error("IsFist should be false while pinching with fingers out")
	}
}

func TestClassify_HandPositionMirrored(t *testing.T) {
	hand := detector.OpenPalmLandmarks()
	sig := Classify(&hand)

	wrist := hand.Points[detector.Wrist]
	middleMCP := hand.Points[detector.MiddleMCP]

	wantX := 1 - (wrist.X+middleMCP.X)/2
	wantY := (wrist.Y + middleMCP.Y) / 2

	if math.Abs(sig.HandX-wantX) > 1e-9 {
		t.Errorf("HandX = %f, want %f", sig.HandX, wantX)
	}
	if math.Abs(sig.HandY-wantY) > 1e-9 {
		t.Errorf("HandY = %f, want %f", sig.HandY, wantY)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	hand := detector.PointingLandmarks()

	first := Classify(&hand)
	second := Classify(&hand)

	if first != second {
		t.Errorf("classification is not deterministic: %+v vs %+v", first, second)
	}
}

func TestClassify_PinchThresholdBoundary(t *testing.T) {
	hand := detector.OpenPalmLandmarks()

	// Place the thumb tip exactly at the threshold distance: not a pinch
	hand.Points[detector.ThumbTip] = detector.Point3D{
		X: hand.Points[detector.IndexTip].X + PinchThreshold,
		Y: hand.Points[detector.IndexTip].Y,
	}
	if sig := Classify(&hand); sig.IsPinching {
		t.Error("distance equal to threshold should not register as pinch")
	}

	// Just inside the threshold: a pinch
	hand.Points[detector.ThumbTip].X = hand.Points[detector.IndexTip].X + PinchThreshold - 1e-6
	if sig := Classify(&hand); !sig.IsPinching {
		t.Error("distance inside threshold should register as pinch")
	}
}
